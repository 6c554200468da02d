// Package notify is the reminder scanner: on a cron cadence it re-ranks
// each watched suburb's upcoming sessions and hands the ones whose lead
// time has dropped inside the configured window to a dispatch sink. The
// sink is where actual delivery would happen; the default one only logs.
package notify

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"outagecal/internal/config"
	"outagecal/internal/feed"
	appLog "outagecal/internal/log"
	"outagecal/internal/model"
	"outagecal/internal/schedule"
)

// Dispatch receives a due reminder. Implementations must not block for
// long; scanning continues only after the sink returns.
type Dispatch func(suburb model.Suburb, upcoming model.UpcomingSession)

// LogDispatch is the default sink: it records the reminder and nothing
// else.
func LogDispatch(suburb model.Suburb, upcoming model.UpcomingSession) {
	appLog.Info("reminder due",
		"suburb", suburb.ID,
		"suburb_name", suburb.Name,
		"day", string(upcoming.Session.Day),
		"start", upcoming.Session.StartTime,
		"level", upcoming.Session.Level,
		"lead", upcoming.LeadTime,
	)
}

// Scanner drives periodic reminder evaluation.
type Scanner struct {
	cfg      *config.Config
	feed     *feed.Feed
	dispatch Dispatch

	// seen de-duplicates reminders per session window per cycle day, so a
	// once-a-minute cron does not refire the same reminder every tick.
	seen map[string]time.Time
}

// NewScanner constructs a Scanner. A nil dispatch falls back to
// LogDispatch.
func NewScanner(cfg *config.Config, f *feed.Feed, dispatch Dispatch) *Scanner {
	if dispatch == nil {
		dispatch = LogDispatch
	}
	return &Scanner{
		cfg:      cfg,
		feed:     f,
		dispatch: dispatch,
		seen:     make(map[string]time.Time),
	}
}

// Run schedules scan ticks via cron and blocks until ctx is canceled.
func (s *Scanner) Run(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.RefreshCron, func() {
		s.Scan(time.Now())
	})
	if err != nil {
		return err
	}

	appLog.Info("reminder scanner started",
		"cron", s.cfg.RefreshCron,
		"lead_minutes", s.cfg.ReminderLeadMinutes,
		"watched", len(s.cfg.WatchSuburbs),
	)
	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	appLog.Info("reminder scanner stopped")
	return nil
}

// Scan evaluates every watched suburb at the given instant and dispatches
// sessions whose lead time is inside the reminder window. Exposed with an
// injected instant so the logic is testable without cron.
func (s *Scanner) Scan(now time.Time) {
	if err := s.feed.Reload(); err != nil {
		appLog.Error("scan: feed reload failed", err)
		return
	}

	for _, suburbID := range s.cfg.WatchSuburbs {
		sessions, sub, err := s.feed.SessionsFor(suburbID)
		if err != nil {
			appLog.Error("scan: suburb lookup failed", err, "suburb", suburbID)
			continue
		}

		upcoming, err := schedule.RankUpcoming(sessions, now, len(sessions))
		if err != nil {
			appLog.Error("scan: ranking failed", err, "suburb", suburbID)
			continue
		}

		for _, u := range upcoming {
			if u.LeadMinutes > s.cfg.ReminderLeadMinutes {
				continue
			}
			key := reminderKey(suburbID, u.Session)
			startAt := now.Add(time.Duration(u.LeadMinutes) * time.Minute)
			if last, ok := s.seen[key]; ok && startAt.Sub(last) < 24*time.Hour {
				continue
			}
			s.seen[key] = startAt
			s.dispatch(sub, u)
		}
	}
}

func reminderKey(suburbID string, sess model.Session) string {
	return suburbID + "|" + string(sess.Day) + "|" + sess.StartTime
}
