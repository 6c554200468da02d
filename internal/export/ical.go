// Package export serializes computed session sets for downstream
// consumers. It only produces bytes; writing them to disk or a response is
// the caller's concern.
package export

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"outagecal/internal/model"
	"outagecal/internal/schedule"
)

var rruleWeekday = map[model.Weekday]rrule.Weekday{
	model.Sunday:    rrule.SU,
	model.Monday:    rrule.MO,
	model.Tuesday:   rrule.TU,
	model.Wednesday: rrule.WE,
	model.Thursday:  rrule.TH,
	model.Friday:    rrule.FR,
	model.Saturday:  rrule.SA,
}

var byDayCode = map[model.Weekday]string{
	model.Sunday:    "SU",
	model.Monday:    "MO",
	model.Tuesday:   "TU",
	model.Wednesday: "WE",
	model.Thursday:  "TH",
	model.Friday:    "FR",
	model.Saturday:  "SA",
}

// ICal renders a suburb's sessions as a VCALENDAR with one weekly-recurring
// VEVENT per session. DTSTART is the next occurrence of the window on or
// after now, so subscribers land on a live instance rather than one in the
// past; the RRULE carries the weekly repetition from there.
func ICal(suburb model.Suburb, sessions []model.Session, now time.Time) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//outagecal//schedule//EN")
	cal.SetXWRCalName(fmt.Sprintf("Outage sessions: %s", suburb.Name))

	for _, s := range sessions {
		start, end, err := nextWindow(s, now)
		if err != nil {
			return "", err
		}

		uid := fmt.Sprintf("%s-%s-%s@outagecal",
			s.ID,
			strings.ToLower(string(s.Day)),
			strings.ReplaceAll(s.StartTime, ":", ""),
		)

		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(now)
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		ev.SetSummary(fmt.Sprintf("Outage (level %d) - %s", s.Level, suburb.Name))
		ev.SetLocation(suburb.Name)
		ev.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", byDayCode[s.Day]))
	}

	return cal.Serialize(), nil
}

// nextWindow computes the next absolute occurrence of a session's window on
// or after now. The weekly rule is anchored one cycle back so After() can
// land on today when the window has not started yet.
func nextWindow(s model.Session, now time.Time) (time.Time, time.Time, error) {
	wd, ok := rruleWeekday[s.Day]
	if !ok {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", schedule.ErrUnknownWeekday, s.Day)
	}
	startMin, err := schedule.MinutesSinceMidnight(s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s start: %w", s.ID, err)
	}
	endMin, err := schedule.MinutesSinceMidnight(s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s end: %w", s.ID, err)
	}

	anchor := time.Date(now.Year(), now.Month(), now.Day(), startMin/60, startMin%60, 0, 0, now.Location()).
		AddDate(0, 0, -7)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{wd},
		Dtstart:   anchor,
	})
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s rrule: %w", s.ID, err)
	}

	start := r.After(now, true)
	if start.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s: no next occurrence", s.ID)
	}
	end := start.Add(time.Duration(endMin-startMin) * time.Minute)
	return start, end, nil
}
