package engine

import (
	"sort"
	"time"

	"github.com/dev265545/store-monitor/internal/domain"
)

// filterWindow restricts a store's observations to the trailing window
// [ref-window, ref] (inclusive on both ends) and then to business hours,
// judged on the store's local weekday and time of day. The result is ordered
// by timestamp ascending, which the gap-sum estimator relies on.
//
// An empty result is valid and propagates as zero coverage.
func filterWindow(
	obs []domain.StatusObservation,
	ref time.Time,
	window time.Duration,
	tz string,
	sched *ScheduleResolver,
	local *Localizer,
) []domain.StatusObservation {
	start := ref.Add(-window)

	kept := make([]domain.StatusObservation, 0, len(obs))
	for _, o := range obs {
		if o.TimestampUTC.Before(start) || o.TimestampUTC.After(ref) {
			continue
		}
		lt := local.ToLocal(o.TimestampUTC, tz)
		iv := sched.Resolve(o.StoreID, mondayWeekday(lt))
		if !iv.Contains(domain.DayTimeOf(lt)) {
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].TimestampUTC.Before(kept[j].TimestampUTC)
	})
	return kept
}
