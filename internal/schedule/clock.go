// Package schedule is the pure time-window engine for recurring weekly
// outage sessions. Every operation is a function of (sessions, now): the
// package never reads the wall clock, holds no state, and performs no I/O,
// so callers drive re-evaluation on whatever cadence they need.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"outagecal/internal/model"
)

const minutesPerDay = 24 * 60

// ErrMalformedTime indicates a start/end value failed HH:MM 24-hour
// parsing. The engine never repairs bad times; the error is propagated.
var ErrMalformedTime = errors.New("schedule: malformed HH:MM time")

// ErrUnknownWeekday indicates a session carries a day name outside
// Monday..Sunday.
var ErrUnknownWeekday = errors.New("schedule: unknown weekday")

// DayOffset returns the number of days forward from reference to reach
// target, treating the week as cyclic. The result is always in [0,6];
// DayOffset(d, d) == 0, which callers disambiguate between "today" and
// "in seven days" via time-of-day comparison.
func DayOffset(target, reference model.Weekday) (int, error) {
	ti, ok := target.Index()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, target)
	}
	ri, ok := reference.Index()
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, reference)
	}
	return (ti + 7 - ri) % 7, nil
}

// MinutesSinceMidnight parses a 24-hour "HH:MM" string into minutes from
// midnight. Values outside 00:00..23:59 or non-numeric input fail with
// ErrMalformedTime.
func MinutesSinceMidnight(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return h*60 + m, nil
}

// DurationLabel formats a non-negative minute count as "{h}h {m}m", with
// the hour part omitted entirely when zero. Zero minutes formats as "0m".
func DurationLabel(totalMinutes int) string {
	h := totalMinutes / 60
	m := totalMinutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// LeadTimeLabel is like DurationLabel but switches to day granularity once
// the duration reaches 24 hours, formatting as "{d}d {h}h". Minutes are
// dropped past the day threshold: distant events do not need them.
func LeadTimeLabel(totalMinutes int) string {
	if totalMinutes >= minutesPerDay {
		d := totalMinutes / minutesPerDay
		h := (totalMinutes % minutesPerDay) / 60
		return fmt.Sprintf("%dd %dh", d, h)
	}
	return DurationLabel(totalMinutes)
}

// weekdayOf maps an instant to its named weekday.
func weekdayOf(t time.Time) model.Weekday {
	return model.Weekday(t.Weekday().String())
}

// minutesOf is MinutesSinceMidnight for an instant instead of a string.
func minutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
