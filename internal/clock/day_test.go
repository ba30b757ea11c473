package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalendar_DayIndex(t *testing.T) {
	loc := time.FixedZone("ET", -5*60*60)
	cal := NewCalendar(time.Date(2026, 1, 1, 15, 0, 0, 0, loc), loc)

	assert.Equal(t, 0, cal.DayIndex(time.Date(2026, 1, 1, 0, 0, 1, 0, loc)))
	assert.Equal(t, 0, cal.DayIndex(time.Date(2026, 1, 1, 23, 59, 0, 0, loc)))
	assert.Equal(t, 1, cal.DayIndex(time.Date(2026, 1, 2, 0, 0, 0, 0, loc)))
	assert.Equal(t, 31, cal.DayIndex(time.Date(2026, 2, 1, 8, 0, 0, 0, loc)))
	assert.Equal(t, 0, cal.DayIndex(time.Date(2025, 12, 31, 8, 0, 0, 0, loc)), "before the epoch clamps to day 0")
	assert.Equal(t, 0, cal.DayIndex(time.Date(2025, 6, 1, 8, 0, 0, 0, loc)))
}

func TestCalendar_DayIndexUsesCalendarLocation(t *testing.T) {
	loc := time.FixedZone("ET", -5*60*60)
	cal := NewCalendar(time.Date(2026, 1, 1, 0, 0, 0, 0, loc), loc)

	// 03:00 UTC on Jan 2 is still Jan 1 in ET.
	assert.Equal(t, 0, cal.DayIndex(time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-01-01", cal.DateKey(time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)))
}

func TestCalendar_DayStart(t *testing.T) {
	loc := time.UTC
	cal := NewCalendar(time.Date(2026, 1, 1, 12, 0, 0, 0, loc), loc)

	assert.Equal(t, time.Date(2026, 1, 11, 0, 0, 0, 0, loc), cal.DayStart(10))
	assert.Equal(t, 10, cal.DayIndex(cal.DayStart(10)))
}

func TestFakeClock_AdvanceDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFakeClock(start)

	c.AdvanceDays(2)
	assert.Equal(t, start.AddDate(0, 0, 2), c.Now())

	c.Advance(time.Hour)
	assert.Equal(t, start.AddDate(0, 0, 2).Add(time.Hour), c.Now())
}
