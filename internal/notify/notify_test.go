package notify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outagecal/internal/config"
	"outagecal/internal/feed"
	"outagecal/internal/model"
)

const notifyFixture = `{
  "suburbs": [{"id": "sub-1", "name": "Riverview", "regionId": "reg-9"}],
  "schedules": [
    {
      "id": "doc-1",
      "suburbId": "sub-1",
      "sessions": [
        {"day": "Monday", "startTime": "18:00", "endTime": "20:00", "level": 2},
        {"day": "Wednesday", "startTime": "06:00", "endTime": "08:00", "level": 1}
      ]
    }
  ]
}`

func newTestScanner(t *testing.T, dispatch Dispatch) *Scanner {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schedules.json")
	require.NoError(t, os.WriteFile(path, []byte(notifyFixture), 0o600))

	cfg := config.DefaultConfig()
	cfg.FeedPath = path
	cfg.ReminderLeadMinutes = 60
	cfg.WatchSuburbs = []string{"sub-1"}

	return NewScanner(cfg, feed.Open(path), dispatch)
}

// monday returns 2025-01-06 (a Monday) at the given time.
func monday(hour, min int) time.Time {
	return time.Date(2025, time.January, 6, hour, min, 0, 0, time.UTC)
}

func TestScanDispatchesInsideLeadWindow(t *testing.T) {
	var got []model.UpcomingSession
	s := newTestScanner(t, func(_ model.Suburb, u model.UpcomingSession) {
		got = append(got, u)
	})

	// 17:30 Monday: the 18:00 window is 30 minutes out, inside the
	// 60-minute lead; Wednesday is far away.
	s.Scan(monday(17, 30))
	require.Len(t, got, 1)
	assert.Equal(t, "18:00", got[0].Session.StartTime)
	assert.Equal(t, 30, got[0].LeadMinutes)
}

func TestScanOutsideLeadWindow(t *testing.T) {
	var count int
	s := newTestScanner(t, func(model.Suburb, model.UpcomingSession) { count++ })

	s.Scan(monday(10, 0))
	assert.Zero(t, count)
}

func TestScanDeduplicatesAcrossTicks(t *testing.T) {
	var count int
	s := newTestScanner(t, func(model.Suburb, model.UpcomingSession) { count++ })

	s.Scan(monday(17, 30))
	s.Scan(monday(17, 31))
	s.Scan(monday(17, 45))
	assert.Equal(t, 1, count)
}

func TestScanUnknownSuburbIsSkipped(t *testing.T) {
	var count int
	s := newTestScanner(t, func(model.Suburb, model.UpcomingSession) { count++ })
	s.cfg.WatchSuburbs = []string{"nowhere", "sub-1"}

	s.Scan(monday(17, 30))
	assert.Equal(t, 1, count)
}
