// Package feed supplies schedule documents to the engine. It stands in for
// the remote document store: documents live in a local JSON feed file that
// an external process keeps current, and the feed loads, validates and
// indexes them per suburb.
package feed

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	appLog "outagecal/internal/log"
	"outagecal/internal/model"
)

// ErrUnknownSuburb indicates a suburb id with no schedule document and no
// directory entry.
var ErrUnknownSuburb = errors.New("feed: unknown suburb")

// Feed reads the schedule document file and serves per-suburb session
// lookups. The parsed document is cached and only re-read when the file's
// mtime changes, so handlers can call Reload on every request cheaply.
type Feed struct {
	path string

	mu       sync.RWMutex
	modTime  time.Time
	suburbs  []model.Suburb
	sessions map[string][]model.Session
	names    map[string]model.Suburb
}

// Open creates a Feed for the given document path. The file is not read
// until the first Reload.
func Open(path string) *Feed {
	return &Feed{path: path}
}

// Reload re-reads the feed file if it changed since the last load. A
// missing or unreadable file is an error; an unchanged file is a no-op.
func (f *Feed) Reload() error {
	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("feed: stat %s: %w", f.path, err)
	}

	f.mu.RLock()
	fresh := !f.modTime.IsZero() && info.ModTime().Equal(f.modTime)
	f.mu.RUnlock()
	if fresh {
		return nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("feed: read %s: %w", f.path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return err
	}

	sessions := make(map[string][]model.Session, len(doc.Schedules))
	for _, sched := range doc.Schedules {
		sessions[sched.SuburbID] = append(sessions[sched.SuburbID], sched.Sessions...)
	}
	names := make(map[string]model.Suburb, len(doc.Suburbs))
	for _, sub := range doc.Suburbs {
		names[sub.ID] = sub
	}

	f.mu.Lock()
	f.modTime = info.ModTime()
	f.suburbs = doc.Suburbs
	f.sessions = sessions
	f.names = names
	f.mu.Unlock()

	appLog.Info("feed loaded",
		"path", f.path,
		"suburb_count", len(doc.Suburbs),
		"schedule_count", len(doc.Schedules),
	)
	return nil
}

// Suburbs returns the suburb directory in document order.
func (f *Feed) Suburbs() []model.Suburb {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Suburb, len(f.suburbs))
	copy(out, f.suburbs)
	return out
}

// SessionsFor returns the sessions of one suburb together with its
// directory entry. A suburb present in the directory with no schedule
// yields an empty slice, not an error.
func (f *Feed) SessionsFor(suburbID string) ([]model.Session, model.Suburb, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	sub, known := f.names[suburbID]
	sessions, scheduled := f.sessions[suburbID]
	if !known && !scheduled {
		return nil, model.Suburb{}, fmt.Errorf("%w: %q", ErrUnknownSuburb, suburbID)
	}
	if !known {
		sub = model.Suburb{ID: suburbID}
	}

	out := make([]model.Session, len(sessions))
	copy(out, sessions)
	return out, sub, nil
}
