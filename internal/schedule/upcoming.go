package schedule

import (
	"fmt"
	"sort"
	"time"

	"outagecal/internal/model"
)

// RankUpcoming returns the future sessions within the current 7-day cycle,
// most imminent first, capped at limit. A session qualifies when it either
// starts later today or falls on a strictly future day of the cycle.
//
// A session on today's weekday whose start has already passed is excluded
// outright: it is not reinterpreted as next week and only reappears once
// the cycle advances a day. Fewer qualifying sessions than limit is not an
// error, and zero matches yields an empty slice.
func RankUpcoming(sessions []model.Session, now time.Time, limit int) ([]model.UpcomingSession, error) {
	if limit <= 0 {
		return []model.UpcomingSession{}, nil
	}

	today := weekdayOf(now)
	nowMin := minutesOf(now)

	type candidate struct {
		session  model.Session
		offset   int
		startMin int
	}

	candidates := make([]candidate, 0, len(sessions))
	for _, s := range sessions {
		offset, err := DayOffset(s.Day, today)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.ID, err)
		}
		startMin, err := MinutesSinceMidnight(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %s start: %w", s.ID, err)
		}
		if offset == 0 && startMin <= nowMin {
			continue
		}
		candidates = append(candidates, candidate{session: s, offset: offset, startMin: startMin})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].offset != candidates[j].offset {
			return candidates[i].offset < candidates[j].offset
		}
		return candidates[i].session.StartTime < candidates[j].session.StartTime
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]model.UpcomingSession, 0, len(candidates))
	for _, c := range candidates {
		lead := c.offset*minutesPerDay + c.startMin - nowMin
		out = append(out, model.UpcomingSession{
			Session:     c.session,
			LeadMinutes: lead,
			LeadTime:    LeadTimeLabel(lead),
		})
	}
	return out, nil
}
