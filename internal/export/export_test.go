package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outagecal/internal/model"
)

var testSuburb = model.Suburb{ID: "sub-1", Name: "Riverview", RegionID: "reg-9"}

func testSession(day model.Weekday, start, end string, level int) model.Session {
	return model.Session{
		ID:        "doc-1",
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Level:     level,
		SuburbID:  "sub-1",
	}
}

func TestICal(t *testing.T) {
	// 2025-01-06 is a Monday.
	now := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	sessions := []model.Session{
		testSession(model.Monday, "18:00", "20:00", 2),
		testSession(model.Wednesday, "06:00", "08:00", 1),
	}

	out, err := ICal(testSuburb, sessions, now)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY;BYDAY=WE")
	assert.Contains(t, out, "Riverview")

	// The Monday 18:00 window has not started yet, so its first instance
	// is still today; Wednesday 06:00 lands two days out.
	assert.Contains(t, out, "DTSTART:20250106T180000Z")
	assert.Contains(t, out, "DTSTART:20250108T060000Z")
	assert.Contains(t, out, "DTEND:20250106T200000Z")
}

func TestICalPassedWindowRollsToNextWeek(t *testing.T) {
	now := time.Date(2025, time.January, 6, 21, 0, 0, 0, time.UTC) // Monday 21:00
	sessions := []model.Session{testSession(model.Monday, "18:00", "20:00", 2)}

	out, err := ICal(testSuburb, sessions, now)
	require.NoError(t, err)
	assert.Contains(t, out, "DTSTART:20250113T180000Z")
}

func TestICalEmptySessionSet(t *testing.T) {
	now := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	out, err := ICal(testSuburb, nil, now)
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestICalMalformedSession(t *testing.T) {
	now := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	_, err := ICal(testSuburb, []model.Session{testSession(model.Monday, "xx:00", "20:00", 2)}, now)
	require.Error(t, err)
}

func TestCSV(t *testing.T) {
	sessions := []model.Session{
		testSession(model.Monday, "18:00", "20:00", 2),
		testSession(model.Wednesday, "06:00", "08:00", 1),
	}

	out, err := CSV(testSuburb, sessions)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "suburb,day,start,end,level", lines[0])
	assert.Equal(t, "Riverview,Monday,18:00,20:00,2", lines[1])
	assert.Equal(t, "Riverview,Wednesday,06:00,08:00,1", lines[2])
}

func TestCSVEmpty(t *testing.T) {
	out, err := CSV(testSuburb, nil)
	require.NoError(t, err)
	assert.Equal(t, "suburb,day,start,end,level\n", string(out))
}
