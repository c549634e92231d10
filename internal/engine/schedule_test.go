package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev265545/store-monitor/internal/domain"
)

func mustDayTime(t *testing.T, s string) domain.DayTime {
	t.Helper()
	d, err := domain.ParseDayTime(s)
	require.NoError(t, err)
	return d
}

func TestScheduleResolver_NoRuleMeansAlwaysOpen(t *testing.T) {
	resolver := NewScheduleResolver(nil)

	iv := resolver.Resolve(1, 0)
	assert.True(t, iv.AllDay)
	assert.True(t, iv.Contains(mustDayTime(t, "03:33:00")))
}

func TestScheduleResolver_ResolvesPerWeekday(t *testing.T) {
	rules := []domain.BusinessHoursRule{
		{StoreID: 1, Weekday: 0, StartLocal: mustDayTime(t, "09:00:00"), EndLocal: mustDayTime(t, "17:00:00")},
		{StoreID: 1, Weekday: 5, StartLocal: mustDayTime(t, "10:00:00"), EndLocal: mustDayTime(t, "14:00:00")},
	}
	resolver := NewScheduleResolver(rules)

	monday := resolver.Resolve(1, 0)
	assert.False(t, monday.AllDay)
	assert.Equal(t, mustDayTime(t, "09:00:00"), monday.Start)
	assert.Equal(t, mustDayTime(t, "17:00:00"), monday.End)

	saturday := resolver.Resolve(1, 5)
	assert.Equal(t, mustDayTime(t, "10:00:00"), saturday.Start)

	// Weekday without a rule stays open, other stores stay open.
	assert.True(t, resolver.Resolve(1, 3).AllDay)
	assert.True(t, resolver.Resolve(2, 0).AllDay)
}

func TestScheduleResolver_EarliestStartWinsOnDuplicates(t *testing.T) {
	// Two rows for the same store/weekday: the tie-break is deterministic
	// (earliest start), not insertion order.
	rules := []domain.BusinessHoursRule{
		{StoreID: 1, Weekday: 2, StartLocal: mustDayTime(t, "12:00:00"), EndLocal: mustDayTime(t, "20:00:00")},
		{StoreID: 1, Weekday: 2, StartLocal: mustDayTime(t, "08:00:00"), EndLocal: mustDayTime(t, "16:00:00")},
	}
	resolver := NewScheduleResolver(rules)

	iv := resolver.Resolve(1, 2)
	assert.Equal(t, mustDayTime(t, "08:00:00"), iv.Start)
	assert.Equal(t, mustDayTime(t, "16:00:00"), iv.End)
}

func TestOperatingInterval_BoundsAreInclusive(t *testing.T) {
	iv := OperatingInterval{Start: mustDayTime(t, "09:00:00"), End: mustDayTime(t, "17:00:00")}

	assert.True(t, iv.Contains(mustDayTime(t, "09:00:00")))
	assert.True(t, iv.Contains(mustDayTime(t, "17:00:00")))
	assert.False(t, iv.Contains(mustDayTime(t, "08:59:59")))
	assert.False(t, iv.Contains(mustDayTime(t, "17:00:01")))
}
