// Package web exposes the engine over a small JSON API. Handlers read the
// clock once at the request boundary and pass the instant down, so the
// engine itself stays deterministic.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"outagecal/internal/config"
	"outagecal/internal/export"
	"outagecal/internal/feed"
	appLog "outagecal/internal/log"
	"outagecal/internal/model"
	"outagecal/internal/schedule"
)

// Server provides the HTTP JSON API over a schedule feed.
type Server struct {
	cfg  *config.Config
	feed *feed.Feed

	// now lets tests pin the request clock; defaults to time.Now.
	now func() time.Time
}

// NewServer constructs a Server over the given feed.
func NewServer(cfg *config.Config, f *feed.Feed) *Server {
	return &Server{cfg: cfg, feed: f, now: time.Now}
}

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/suburbs", s.handleSuburbs)
		api.Get("/status", s.handleStatus)
		api.Get("/upcoming", s.handleUpcoming)
		api.Get("/week", s.handleWeek)
		api.Get("/sessions", s.handleSessions)
		api.Get("/export/ical", s.handleExportICal)
		api.Get("/export/csv", s.handleExportCSV)
	})
	return r
}

// ListenAndServe runs the API server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// suburbsResponse is the JSON shape of /api/suburbs.
type suburbsResponse struct {
	Suburbs []model.Suburb `json:"suburbs"`
}

func (s *Server) handleSuburbs(w http.ResponseWriter, _ *http.Request) {
	if err := s.feed.Reload(); err != nil {
		appLog.Error("suburbs: feed reload failed", err)
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return
	}
	writeJSON(w, http.StatusOK, suburbsResponse{Suburbs: s.feed.Suburbs()})
}

// statusResponse is the JSON shape of /api/status.
type statusResponse struct {
	Suburb    model.Suburb   `json:"suburb"`
	Active    *model.Session `json:"active"`
	Remaining string         `json:"remaining,omitempty"`
	At        time.Time      `json:"at"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}
	now := s.now()

	status, err := schedule.ResolveActive(sessions, now)
	if err != nil {
		appLog.Error("status: resolve failed", err, "suburb", sub.ID)
		writeError(w, http.StatusInternalServerError, "failed to resolve status")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Suburb:    sub,
		Active:    status.Active,
		Remaining: status.Remaining,
		At:        now,
	})
}

// upcomingResponse is the JSON shape of /api/upcoming.
type upcomingResponse struct {
	Suburb   model.Suburb            `json:"suburb"`
	Upcoming []model.UpcomingSession `json:"upcoming"`
	At       time.Time               `json:"at"`
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}
	now := s.now()

	limit := s.cfg.UpcomingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	upcoming, err := schedule.RankUpcoming(sessions, now, limit)
	if err != nil {
		appLog.Error("upcoming: ranking failed", err, "suburb", sub.ID)
		writeError(w, http.StatusInternalServerError, "failed to rank upcoming sessions")
		return
	}

	writeJSON(w, http.StatusOK, upcomingResponse{Suburb: sub, Upcoming: upcoming, At: now})
}

// weekResponse is the JSON shape of /api/week.
type weekResponse struct {
	Suburb model.Suburb        `json:"suburb"`
	Week   []model.DaySchedule `json:"week"`
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}

	week, err := schedule.BuildWeek(sessions)
	if err != nil {
		appLog.Error("week: layout failed", err, "suburb", sub.ID)
		writeError(w, http.StatusInternalServerError, "failed to build weekly layout")
		return
	}

	writeJSON(w, http.StatusOK, weekResponse{Suburb: sub, Week: week})
}

// sessionsResponse is the JSON shape of /api/sessions.
type sessionsResponse struct {
	Suburb   model.Suburb    `json:"suburb"`
	Sessions []model.Session `json:"sessions"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}

	filtered, ok := s.filteredSessions(w, r, sessions)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, sessionsResponse{Suburb: sub, Sessions: filtered})
}

func (s *Server) handleExportICal(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}
	filtered, ok := s.filteredSessions(w, r, sessions)
	if !ok {
		return
	}

	out, err := export.ICal(sub, filtered, s.now())
	if err != nil {
		appLog.Error("export ical failed", err, "suburb", sub.ID)
		writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="outages.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	sessions, sub, ok := s.suburbSessions(w, r)
	if !ok {
		return
	}
	filtered, ok := s.filteredSessions(w, r, sessions)
	if !ok {
		return
	}

	out, err := export.CSV(sub, filtered)
	if err != nil {
		appLog.Error("export csv failed", err, "suburb", sub.ID)
		writeError(w, http.StatusInternalServerError, "failed to build csv")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="outages.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// suburbSessions resolves the ?suburb= parameter to its session set. On
// failure it writes the error response and returns ok=false.
func (s *Server) suburbSessions(w http.ResponseWriter, r *http.Request) ([]model.Session, model.Suburb, bool) {
	suburbID := r.URL.Query().Get("suburb")
	if suburbID == "" {
		writeError(w, http.StatusBadRequest, "suburb parameter is required")
		return nil, model.Suburb{}, false
	}

	if err := s.feed.Reload(); err != nil {
		appLog.Error("feed reload failed", err)
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return nil, model.Suburb{}, false
	}

	sessions, sub, err := s.feed.SessionsFor(suburbID)
	if err != nil {
		if errors.Is(err, feed.ErrUnknownSuburb) {
			writeError(w, http.StatusNotFound, "no schedule found for suburb")
			return nil, model.Suburb{}, false
		}
		appLog.Error("suburb lookup failed", err, "suburb", suburbID)
		writeError(w, http.StatusInternalServerError, "feed unavailable")
		return nil, model.Suburb{}, false
	}
	return sessions, sub, true
}

// filteredSessions applies the optional day/level/band query filters.
// Invalid filter values surface as HTTP 400.
func (s *Server) filteredSessions(w http.ResponseWriter, r *http.Request, sessions []model.Session) ([]model.Session, bool) {
	q := r.URL.Query()
	f, err := schedule.ParseFilter(q.Get("day"), q.Get("level"), q.Get("band"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	filtered, err := schedule.ApplyFilters(sessions, f)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidFilter) {
			writeError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		appLog.Error("filter failed", err)
		writeError(w, http.StatusInternalServerError, "failed to filter sessions")
		return nil, false
	}
	return filtered, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
