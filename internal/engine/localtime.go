package engine

import (
	"sync"
	"time"
)

// Localizer converts UTC observation timestamps into a store's local
// wall-clock time. A missing or unresolvable timezone identifier degrades to
// UTC; conversion never fails.
//
// time.LoadLocation reads tzdata on every call, so resolved locations are
// cached per identifier (snapshots contain thousands of observations per
// store but only a handful of distinct zones).
type Localizer struct {
	mu    sync.RWMutex
	cache map[string]*time.Location
}

func NewLocalizer() *Localizer {
	return &Localizer{cache: make(map[string]*time.Location)}
}

// ToLocal converts a UTC timestamp into the zone named by tz.
func (l *Localizer) ToLocal(ts time.Time, tz string) time.Time {
	return ts.In(l.location(tz))
}

func (l *Localizer) location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}

	l.mu.RLock()
	loc, ok := l.cache[tz]
	l.mu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		// Malformed identifier is equivalent to a missing one.
		loc = time.UTC
	}

	l.mu.Lock()
	l.cache[tz] = loc
	l.mu.Unlock()
	return loc
}

// mondayWeekday maps Go's Sunday-based weekday onto the 0=Monday..6=Sunday
// convention used by the business hours data.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
