package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outagecal/internal/model"
)

func TestBuildWeekAlwaysSevenGroups(t *testing.T) {
	week, err := BuildWeek(nil)
	require.NoError(t, err)
	require.Len(t, week, 7)

	for i, day := range model.WeekOrder {
		assert.Equal(t, day, week[i].Day)
		assert.NotNil(t, week[i].Sessions)
		assert.Empty(t, week[i].Sessions)
	}
}

func TestBuildWeekPositioning(t *testing.T) {
	sessions := []model.Session{
		session(model.Wednesday, "18:00", "20:30", 2),
		session(model.Wednesday, "06:00", "08:00", 1),
		session(model.Sunday, "00:00", "02:00", 3),
	}

	week, err := BuildWeek(sessions)
	require.NoError(t, err)
	require.Len(t, week, 7)

	wed := week[2]
	require.Equal(t, model.Wednesday, wed.Day)
	require.Len(t, wed.Sessions, 2)

	// Sorted ascending by start time within the day.
	assert.Equal(t, "06:00", wed.Sessions[0].Session.StartTime)
	assert.Equal(t, 360, wed.Sessions[0].TopOffset)
	assert.Equal(t, 120, wed.Sessions[0].Height)
	assert.Equal(t, 1080, wed.Sessions[1].TopOffset)
	assert.Equal(t, 150, wed.Sessions[1].Height)

	sun := week[6]
	require.Equal(t, model.Sunday, sun.Day)
	require.Len(t, sun.Sessions, 1)
	assert.Zero(t, sun.Sessions[0].TopOffset)
	assert.Equal(t, 120, sun.Sessions[0].Height)

	// Level passes through untouched.
	assert.Equal(t, 3, sun.Sessions[0].Session.Level)
}

func TestBuildWeekKeepsOverlaps(t *testing.T) {
	sessions := []model.Session{
		session(model.Friday, "10:00", "14:00", 2),
		session(model.Friday, "12:00", "13:00", 4),
	}

	week, err := BuildWeek(sessions)
	require.NoError(t, err)

	fri := week[4]
	require.Equal(t, model.Friday, fri.Day)
	// Overlapping windows stay as separate entries; stacking is the
	// rendering tier's problem.
	require.Len(t, fri.Sessions, 2)
	assert.Equal(t, 600, fri.Sessions[0].TopOffset)
	assert.Equal(t, 720, fri.Sessions[1].TopOffset)
}

func TestBuildWeekErrors(t *testing.T) {
	_, err := BuildWeek([]model.Session{session("Noday", "10:00", "12:00", 1)})
	require.ErrorIs(t, err, ErrUnknownWeekday)

	_, err = BuildWeek([]model.Session{session(model.Friday, "10:00", "25:00", 1)})
	require.ErrorIs(t, err, ErrMalformedTime)
}
