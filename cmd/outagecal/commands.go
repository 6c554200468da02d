package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outagecal/internal/config"
	"outagecal/internal/export"
	"outagecal/internal/feed"
	appLog "outagecal/internal/log"
	"outagecal/internal/model"
	"outagecal/internal/notify"
	"outagecal/internal/schedule"
	"outagecal/internal/web"
)

// Globals carries flags shared by every command.
type Globals struct {
	ConfigPath string
	Debug      bool
}

// setup loads the config and opens (and primes) the feed.
func (g *Globals) setup() (*config.Config, *feed.Feed, error) {
	cfg, err := config.Load(g.ConfigPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", g.ConfigPath, err)
	}
	f := feed.Open(cfg.FeedPath)
	if err := f.Reload(); err != nil {
		return nil, nil, err
	}
	return cfg, f, nil
}

// queryArgs are the flags shared by the one-shot engine queries.
type queryArgs struct {
	Suburb string `help:"Suburb id (defaults to config default_suburb)." short:"s"`
	At     string `help:"Evaluate at this RFC3339 instant instead of now."`
}

func (q *queryArgs) resolve(g *Globals) (*config.Config, []model.Session, model.Suburb, time.Time, error) {
	cfg, f, err := g.setup()
	if err != nil {
		return nil, nil, model.Suburb{}, time.Time{}, err
	}

	suburbID := q.Suburb
	if suburbID == "" {
		suburbID = cfg.DefaultSuburb
	}
	if suburbID == "" {
		return nil, nil, model.Suburb{}, time.Time{}, fmt.Errorf("no suburb given and no default_suburb configured")
	}

	sessions, sub, err := f.SessionsFor(suburbID)
	if err != nil {
		return nil, nil, model.Suburb{}, time.Time{}, err
	}

	now := time.Now()
	if q.At != "" {
		now, err = time.Parse(time.RFC3339, q.At)
		if err != nil {
			return nil, nil, model.Suburb{}, time.Time{}, fmt.Errorf("parse --at: %w", err)
		}
	}
	return cfg, sessions, sub, now, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Println(string(data))
	return err
}

// ServeCmd runs the API server plus the cron-driven reminder scanner until
// SIGINT/SIGTERM.
type ServeCmd struct {
	Listen string `help:"HTTP listen address (overrides config if set)."`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, f, err := g.setup()
	if err != nil {
		return err
	}
	if c.Listen != "" {
		cfg.Listen = c.Listen
	}

	appLog.Info("outagecal starting",
		"version", version,
		"listen", cfg.Listen,
		"feed", cfg.FeedPath,
		"refresh", cfg.RefreshCron,
		"watched_suburbs", len(cfg.WatchSuburbs),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := notify.NewScanner(cfg, f, nil)
	scanErr := make(chan error, 1)
	go func() {
		scanErr <- scanner.Run(ctx)
	}()

	server := web.NewServer(cfg, f)
	err = server.ListenAndServe(ctx)

	stop()
	if serr := <-scanErr; serr != nil && err == nil {
		err = serr
	}
	appLog.Info("outagecal exiting")
	return err
}

// StatusCmd resolves the currently active session.
type StatusCmd struct {
	queryArgs
}

func (c *StatusCmd) Run(g *Globals) error {
	_, sessions, sub, now, err := c.resolve(g)
	if err != nil {
		return err
	}

	status, err := schedule.ResolveActive(sessions, now)
	if err != nil {
		return err
	}
	if status.Active == nil {
		fmt.Printf("%s: no active outage\n", sub.Name)
		return nil
	}
	fmt.Printf("%s: outage active (level %d), %s remaining (%s-%s)\n",
		sub.Name, status.Active.Level, status.Remaining,
		status.Active.StartTime, status.Active.EndTime,
	)
	return nil
}

// UpcomingCmd ranks upcoming sessions.
type UpcomingCmd struct {
	queryArgs
	Limit int `help:"Maximum entries (defaults to config upcoming_limit)."`
}

func (c *UpcomingCmd) Run(g *Globals) error {
	cfg, sessions, sub, now, err := c.resolve(g)
	if err != nil {
		return err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = cfg.UpcomingLimit
	}

	upcoming, err := schedule.RankUpcoming(sessions, now, limit)
	if err != nil {
		return err
	}
	if len(upcoming) == 0 {
		fmt.Printf("%s: no upcoming outages\n", sub.Name)
		return nil
	}
	for _, u := range upcoming {
		fmt.Printf("%-9s %s-%s  level %d  in %s\n",
			u.Session.Day, u.Session.StartTime, u.Session.EndTime,
			u.Session.Level, u.LeadTime,
		)
	}
	return nil
}

// WeekCmd prints the weekly layout as JSON.
type WeekCmd struct {
	queryArgs
}

func (c *WeekCmd) Run(g *Globals) error {
	_, sessions, _, _, err := c.resolve(g)
	if err != nil {
		return err
	}

	week, err := schedule.BuildWeek(sessions)
	if err != nil {
		return err
	}
	return printJSON(week)
}

// SessionsCmd lists sessions with optional filters.
type SessionsCmd struct {
	queryArgs
	Day   string `help:"Filter by weekday name (Monday..Sunday)."`
	Level string `help:"Filter by severity level."`
	Band  string `help:"Filter by time band (morning|afternoon|evening)."`
}

func (c *SessionsCmd) Run(g *Globals) error {
	_, sessions, _, _, err := c.resolve(g)
	if err != nil {
		return err
	}

	f, err := schedule.ParseFilter(c.Day, c.Level, c.Band)
	if err != nil {
		return err
	}
	filtered, err := schedule.ApplyFilters(sessions, f)
	if err != nil {
		return err
	}
	return printJSON(filtered)
}

// ExportCmd serializes a suburb's (optionally filtered) schedule to stdout.
type ExportCmd struct {
	queryArgs
	Format string `arg:"" enum:"ical,csv" help:"Output format: ical or csv."`
	Day    string `help:"Filter by weekday name (Monday..Sunday)."`
	Level  string `help:"Filter by severity level."`
	Band   string `help:"Filter by time band (morning|afternoon|evening)."`
}

func (c *ExportCmd) Run(g *Globals) error {
	_, sessions, sub, now, err := c.resolve(g)
	if err != nil {
		return err
	}

	f, err := schedule.ParseFilter(c.Day, c.Level, c.Band)
	if err != nil {
		return err
	}
	filtered, err := schedule.ApplyFilters(sessions, f)
	if err != nil {
		return err
	}

	switch c.Format {
	case "ical":
		out, err := export.ICal(sub, filtered, now)
		if err != nil {
			return err
		}
		_, err = os.Stdout.WriteString(out)
		return err
	case "csv":
		out, err := export.CSV(sub, filtered)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
}
