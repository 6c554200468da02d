package schedule

import (
	"errors"
	"fmt"
	"strconv"

	"outagecal/internal/model"
)

// ErrInvalidFilter indicates a filter value outside the recognized domain,
// e.g. a non-integer level or an unknown time band. Bad filters are
// reported rather than silently ignored so upstream data-entry mistakes
// stay visible.
var ErrInvalidFilter = errors.New("schedule: invalid filter")

// TimeBand names a partition of the 24-hour day used for filtering by a
// session's start hour.
type TimeBand string

const (
	// BandMorning covers starts in [04:00, 12:00).
	BandMorning TimeBand = "morning"
	// BandAfternoon covers starts in [12:00, 18:00).
	BandAfternoon TimeBand = "afternoon"
	// BandEvening covers starts in [18:00, 24:00) and wraps past midnight
	// to include [00:00, 04:00).
	BandEvening TimeBand = "evening"
)

// Filter narrows a session set. All fields are optional and combine with
// logical AND; the zero Filter is the identity transform.
type Filter struct {
	Day   model.Weekday // empty = any day
	Level *int          // nil = any level
	Band  TimeBand      // empty = any time of day
}

// ParseFilter builds a Filter from raw query-string style values. Empty
// strings leave the corresponding field unset. A non-integer level or an
// unknown day/band fails with ErrInvalidFilter.
func ParseFilter(day, level, band string) (Filter, error) {
	var f Filter
	if day != "" {
		d := model.Weekday(day)
		if !d.Valid() {
			return Filter{}, fmt.Errorf("%w: day %q", ErrInvalidFilter, day)
		}
		f.Day = d
	}
	if level != "" {
		n, err := strconv.Atoi(level)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: level %q", ErrInvalidFilter, level)
		}
		f.Level = &n
	}
	if band != "" {
		b := TimeBand(band)
		switch b {
		case BandMorning, BandAfternoon, BandEvening:
			f.Band = b
		default:
			return Filter{}, fmt.Errorf("%w: band %q", ErrInvalidFilter, band)
		}
	}
	return f, nil
}

// ApplyFilters returns the sessions matching every set field of f,
// preserving relative order. No match is an empty result, not an error.
// Band classification uses only the start hour; a session ending after its
// band is still classified by where it begins.
func ApplyFilters(sessions []model.Session, f Filter) ([]model.Session, error) {
	if f.Band != "" {
		switch f.Band {
		case BandMorning, BandAfternoon, BandEvening:
		default:
			return nil, fmt.Errorf("%w: band %q", ErrInvalidFilter, f.Band)
		}
	}

	out := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if f.Day != "" && s.Day != f.Day {
			continue
		}
		if f.Level != nil && s.Level != *f.Level {
			continue
		}
		if f.Band != "" {
			startMin, err := MinutesSinceMidnight(s.StartTime)
			if err != nil {
				return nil, fmt.Errorf("session %s start: %w", s.ID, err)
			}
			if bandOf(startMin) != f.Band {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// bandOf classifies a minutes-since-midnight start into its time band.
func bandOf(startMin int) TimeBand {
	h := startMin / 60
	switch {
	case h >= 4 && h < 12:
		return BandMorning
	case h >= 12 && h < 18:
		return BandAfternoon
	default:
		// 18..23 and the wrapped 0..3 hours.
		return BandEvening
	}
}
