package schedule

import (
	"fmt"
	"time"

	"outagecal/internal/model"
)

// Status is the outcome of an active-session lookup. Active is nil when no
// window contains the instant; Remaining is empty in that case.
type Status struct {
	Active    *model.Session
	Remaining string
}

// ResolveActive finds the session whose window contains now: the day must
// equal now's weekday and start <= now < end (end exclusive). When
// overlapping windows both contain the instant, the last match in input
// order wins; overlap is a feed data-quality issue, not an engine concern.
func ResolveActive(sessions []model.Session, now time.Time) (Status, error) {
	today := weekdayOf(now)
	nowMin := minutesOf(now)

	var status Status
	for i := range sessions {
		s := &sessions[i]
		if s.Day != today {
			continue
		}
		startMin, err := MinutesSinceMidnight(s.StartTime)
		if err != nil {
			return Status{}, fmt.Errorf("session %s start: %w", s.ID, err)
		}
		endMin, err := MinutesSinceMidnight(s.EndTime)
		if err != nil {
			return Status{}, fmt.Errorf("session %s end: %w", s.ID, err)
		}
		if startMin <= nowMin && nowMin < endMin {
			active := *s
			status.Active = &active
			status.Remaining = DurationLabel(endMin - nowMin)
		}
	}
	return status, nil
}
