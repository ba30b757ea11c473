package clock

import (
	"math"
	"time"
)

const DateKeyLayout = "2006-01-02"

// Calendar converts wall-clock instants into day indexes counted from a
// fixed game start date.
type Calendar struct {
	Epoch    time.Time
	Location *time.Location
}

func NewCalendar(epoch time.Time, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Epoch: startOfDay(epoch, loc), Location: loc}
}

// DayIndex returns the number of whole calendar days between the epoch and t.
// Instants before the epoch all fall on day 0.
func (c Calendar) DayIndex(t time.Time) int {
	loc := c.location()
	from := startOfDay(c.Epoch, loc)
	to := startOfDay(t, loc)
	// Rounding absorbs 23h/25h days around DST switches.
	return max(0, int(math.Round(to.Sub(from).Hours()/24)))
}

// DateKey formats t as the calendar date it falls on.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.location()).Format(DateKeyLayout)
}

// DayStart returns midnight of the given day index.
func (c Calendar) DayStart(day int) time.Time {
	e := startOfDay(c.Epoch, c.location())
	return time.Date(e.Year(), e.Month(), e.Day()+day, 0, 0, 0, 0, c.location())
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
