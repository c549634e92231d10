package engine

import (
	"sort"

	"github.com/dev265545/store-monitor/internal/domain"
)

// OperatingInterval is the local operating window for one store on one
// weekday. AllDay means no rule exists for that weekday, which is treated
// as open 24 hours rather than closed.
type OperatingInterval struct {
	Start  domain.DayTime
	End    domain.DayTime
	AllDay bool
}

// Contains reports whether a local time of day falls inside the interval.
// Both ends are inclusive.
func (iv OperatingInterval) Contains(t domain.DayTime) bool {
	if iv.AllDay {
		return true
	}
	return iv.Start <= t && t <= iv.End
}

type scheduleKey struct {
	storeID int64
	weekday int
}

// ScheduleResolver answers "when does store S operate on weekday D" from the
// business hours snapshot. Weekday is 0=Monday..6=Sunday.
//
// Storage can hold several rules for the same store/weekday; the resolver
// honors exactly one, chosen deterministically as the rule with the earliest
// start time.
type ScheduleResolver struct {
	rules map[scheduleKey]domain.BusinessHoursRule
}

func NewScheduleResolver(rules []domain.BusinessHoursRule) *ScheduleResolver {
	indexed := make(map[scheduleKey]domain.BusinessHoursRule, len(rules))

	// Stable earliest-start tie-break regardless of input order.
	sorted := make([]domain.BusinessHoursRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartLocal < sorted[j].StartLocal
	})

	for _, r := range sorted {
		key := scheduleKey{storeID: r.StoreID, weekday: r.Weekday}
		if _, ok := indexed[key]; !ok {
			indexed[key] = r
		}
	}
	return &ScheduleResolver{rules: indexed}
}

// Resolve never fails: absence of a rule means unrestricted operation.
func (s *ScheduleResolver) Resolve(storeID int64, weekday int) OperatingInterval {
	if r, ok := s.rules[scheduleKey{storeID: storeID, weekday: weekday}]; ok {
		return OperatingInterval{Start: r.StartLocal, End: r.EndLocal}
	}
	return OperatingInterval{AllDay: true}
}
