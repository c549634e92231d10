package engine

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dev265545/store-monitor/internal/domain"
)

// ErrEmptySnapshot means the observation snapshot contains no rows at all, so
// there is no reference instant to anchor the trailing windows to. The caller
// marks the owning report Failed with this reason.
var ErrEmptySnapshot = errors.New("engine: snapshot contains no observations")

// ReferencePolicy selects the "now" each store's trailing windows are
// anchored to.
type ReferencePolicy string

const (
	// ReferenceGlobalMax anchors every store to the single latest timestamp
	// across the whole snapshot. A store with stale polls is still measured
	// against another store's most recent poll. This matches the historical
	// behavior and is the default.
	ReferenceGlobalMax ReferencePolicy = "global"

	// ReferencePerStoreMax anchors each store to its own latest timestamp.
	ReferencePerStoreMax ReferencePolicy = "per-store"
)

// ParseReferencePolicy validates a configured policy name.
func ParseReferencePolicy(s string) (ReferencePolicy, error) {
	switch ReferencePolicy(s) {
	case ReferenceGlobalMax, ReferencePerStoreMax:
		return ReferencePolicy(s), nil
	}
	return "", errors.New("engine: unknown reference policy " + s)
}

// Trailing windows the report covers. Hour figures are reported in minutes,
// day and week figures in hours.
const (
	windowHourMinutes = 60
	windowDayMinutes  = 24 * 60
	windowWeekMinutes = 7 * 24 * 60
)

// Engine is the batch uptime/downtime estimator. It is pure computation: one
// snapshot in, one slice of report rows out, no I/O and no clock.
type Engine struct {
	estimator Estimator
	policy    ReferencePolicy
	local     *Localizer
	logger    *zap.Logger
}

func NewEngine(estimator Estimator, policy ReferencePolicy, logger *zap.Logger) *Engine {
	if estimator == nil {
		estimator = GapSumEstimator{}
	}
	if policy == "" {
		policy = ReferenceGlobalMax
	}
	return &Engine{
		estimator: estimator,
		policy:    policy,
		local:     NewLocalizer(),
		logger:    logger,
	}
}

// Run computes one report row per store that appears in the observation
// snapshot. Rows come back sorted by store id, so two runs over the same
// snapshot produce identical output.
func (e *Engine) Run(snap domain.Snapshot) ([]domain.ReportRow, error) {
	if len(snap.Observations) == 0 {
		return nil, ErrEmptySnapshot
	}

	started := time.Now()
	sched := NewScheduleResolver(snap.Rules)

	// Group per store and order each partition by time; the snapshot itself
	// carries no ordering guarantee.
	byStore := make(map[int64][]domain.StatusObservation)
	globalRef := snap.Observations[0].TimestampUTC
	for _, o := range snap.Observations {
		byStore[o.StoreID] = append(byStore[o.StoreID], o)
		if o.TimestampUTC.After(globalRef) {
			globalRef = o.TimestampUTC
		}
	}

	storeIDs := make([]int64, 0, len(byStore))
	for id := range byStore {
		storeIDs = append(storeIDs, id)
	}
	sort.Slice(storeIDs, func(i, j int) bool { return storeIDs[i] < storeIDs[j] })

	rows := make([]domain.ReportRow, 0, len(storeIDs))
	for _, storeID := range storeIDs {
		obs := byStore[storeID]
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].TimestampUTC.Before(obs[j].TimestampUTC)
		})

		ref := globalRef
		if e.policy == ReferencePerStoreMax {
			ref = obs[len(obs)-1].TimestampUTC
		}

		// A store without a metadata row still gets measured; its timezone
		// just defaults to UTC.
		tz := snap.Stores[storeID].Timezone

		row := domain.ReportRow{StoreID: storeID}

		hourObs := filterWindow(obs, ref, time.Hour, tz, sched, e.local)
		row.UptimeLastHour, row.DowntimeLastHour = e.estimator.Estimate(hourObs, windowHourMinutes)

		dayObs := filterWindow(obs, ref, 24*time.Hour, tz, sched, e.local)
		upDay, downDay := e.estimator.Estimate(dayObs, windowDayMinutes)
		row.UptimeLastDay, row.DowntimeLastDay = upDay/60, downDay/60

		weekObs := filterWindow(obs, ref, 7*24*time.Hour, tz, sched, e.local)
		upWeek, downWeek := e.estimator.Estimate(weekObs, windowWeekMinutes)
		row.UptimeLastWeek, row.DowntimeLastWeek = upWeek/60, downWeek/60

		rows = append(rows, row)
	}

	if e.logger != nil {
		e.logger.Info("uptime report computed",
			zap.Int("stores", len(rows)),
			zap.Int("observations", len(snap.Observations)),
			zap.String("reference_policy", string(e.policy)),
			zap.Time("reference_instant", globalRef),
			zap.Duration("elapsed", time.Since(started)),
		)
	}
	return rows, nil
}
