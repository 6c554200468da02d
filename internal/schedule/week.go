package schedule

import (
	"fmt"
	"sort"

	"outagecal/internal/model"
)

// BuildWeek groups sessions by day and places each one on a 24-hour
// timeline, returning exactly seven DaySchedule groups ordered Monday
// through Sunday. Days without sessions get an empty group. Within a day
// sessions are sorted ascending by start time; overlapping windows are kept
// as separate entries for the rendering tier to stack or overlay.
//
// TopOffset and Height are minute offsets from midnight (0..1440); scaling
// to pixels is a pure multiplier owned by the consumer. Level passes
// through untouched.
func BuildWeek(sessions []model.Session) ([]model.DaySchedule, error) {
	byDay := make(map[model.Weekday][]model.PositionedSession, 7)

	for _, s := range sessions {
		if !s.Day.Valid() {
			return nil, fmt.Errorf("session %s: %w: %q", s.ID, ErrUnknownWeekday, s.Day)
		}
		startMin, err := MinutesSinceMidnight(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("session %s start: %w", s.ID, err)
		}
		endMin, err := MinutesSinceMidnight(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("session %s end: %w", s.ID, err)
		}
		byDay[s.Day] = append(byDay[s.Day], model.PositionedSession{
			Session:   s,
			TopOffset: startMin,
			Height:    endMin - startMin,
		})
	}

	week := make([]model.DaySchedule, 0, 7)
	for _, day := range model.WeekOrder {
		entries := byDay[day]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Session.StartTime < entries[j].Session.StartTime
		})
		if entries == nil {
			entries = []model.PositionedSession{}
		}
		week = append(week, model.DaySchedule{Day: day, Sessions: entries})
	}
	return week, nil
}
