package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalizer_ConvertsToStoreZone(t *testing.T) {
	local := NewLocalizer()
	ts := time.Date(2023, 1, 25, 14, 30, 0, 0, time.UTC)

	// America/Chicago is UTC-6 in January.
	lt := local.ToLocal(ts, "America/Chicago")
	assert.Equal(t, 8, lt.Hour())
	assert.Equal(t, 30, lt.Minute())
}

func TestLocalizer_MissingZoneDefaultsToUTC(t *testing.T) {
	local := NewLocalizer()
	ts := time.Date(2023, 1, 25, 14, 30, 0, 0, time.UTC)

	// Empty and explicit UTC must classify identically.
	assert.Equal(t, local.ToLocal(ts, "UTC"), local.ToLocal(ts, ""))
}

func TestLocalizer_MalformedZoneDefaultsToUTC(t *testing.T) {
	local := NewLocalizer()
	ts := time.Date(2023, 1, 25, 14, 30, 0, 0, time.UTC)

	lt := local.ToLocal(ts, "Not/AZone")
	assert.Equal(t, 14, lt.Hour())
}

func TestMondayWeekday(t *testing.T) {
	// 2023-01-23 is a Monday, 2023-01-29 a Sunday.
	monday := time.Date(2023, 1, 23, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2023, 1, 29, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, mondayWeekday(monday))
	assert.Equal(t, 6, mondayWeekday(sunday))
}

func TestLocalizer_WeekdayShiftsAcrossMidnight(t *testing.T) {
	local := NewLocalizer()

	// 02:00 UTC Wednesday is still Tuesday evening in Chicago.
	ts := time.Date(2023, 1, 25, 2, 0, 0, 0, time.UTC)
	lt := local.ToLocal(ts, "America/Chicago")
	assert.Equal(t, 1, mondayWeekday(lt))
	assert.Equal(t, 20, lt.Hour())
}
