package feed

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	appLog "outagecal/internal/log"
	"outagecal/internal/model"
	"outagecal/internal/schedule"
)

// Document is the top-level shape of a feed file: a suburb directory plus
// one schedule document per suburb.
type Document struct {
	Suburbs   []model.Suburb      `json:"suburbs"`
	Schedules []model.ScheduleDoc `json:"schedules"`
}

// Parse decodes and validates a feed payload.
//
// Malformed sessions (unknown weekday, bad HH:MM, inverted window, level
// outside 1..4) are logged and skipped so one bad record does not take the
// whole suburb down; this mirrors upstream data quality being a feed
// problem, not an engine one. Documents without an id get one assigned.
// Overlapping same-day windows are kept but logged, since the status
// resolver treats overlap as last-match-wins.
func Parse(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, errors.New("feed: empty document")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("feed: decode: %w", err)
	}

	for i := range doc.Schedules {
		sched := &doc.Schedules[i]
		if sched.ID == "" {
			sched.ID = uuid.NewString()
		}

		kept := sched.Sessions[:0]
		for _, s := range sched.Sessions {
			// Sessions inherit the document's identity.
			s.ID = sched.ID
			s.SuburbID = sched.SuburbID
			if err := validateSession(s); err != nil {
				appLog.Error("feed: dropping malformed session", err,
					"schedule_id", sched.ID,
					"suburb_id", sched.SuburbID,
					"day", string(s.Day),
					"start", s.StartTime,
					"end", s.EndTime,
				)
				continue
			}
			kept = append(kept, s)
		}
		sched.Sessions = kept

		warnOverlaps(*sched)
	}

	return doc, nil
}

func validateSession(s model.Session) error {
	if !s.Day.Valid() {
		return fmt.Errorf("%w: %q", schedule.ErrUnknownWeekday, s.Day)
	}
	startMin, err := schedule.MinutesSinceMidnight(s.StartTime)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	endMin, err := schedule.MinutesSinceMidnight(s.EndTime)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	// Windows are contained within a single named day; the engine does not
	// model sessions crossing midnight.
	if startMin >= endMin {
		return fmt.Errorf("feed: window %s-%s does not satisfy start < end", s.StartTime, s.EndTime)
	}
	if s.Level < 1 || s.Level > 4 {
		return fmt.Errorf("feed: level %d outside 1..4", s.Level)
	}
	return nil
}

// warnOverlaps logs same-day windows that overlap within one document.
func warnOverlaps(sched model.ScheduleDoc) {
	byDay := make(map[model.Weekday][]model.Session)
	for _, s := range sched.Sessions {
		byDay[s.Day] = append(byDay[s.Day], s)
	}
	for day, sessions := range byDay {
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].StartTime < sessions[j].StartTime
		})
		for i := 1; i < len(sessions); i++ {
			if sessions[i].StartTime < sessions[i-1].EndTime {
				appLog.Warn("feed: overlapping windows on same day",
					"schedule_id", sched.ID,
					"suburb_id", sched.SuburbID,
					"day", string(day),
					"first", sessions[i-1].StartTime+"-"+sessions[i-1].EndTime,
					"second", sessions[i].StartTime+"-"+sessions[i].EndTime,
				)
			}
		}
	}
}
