package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandDatesWeekly(t *testing.T) {
	dates, err := ExpandDates("2026-03-02", Weekly, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-09", "2026-03-16", "2026-03-23"}, dates)
}

func TestExpandDatesDaily(t *testing.T) {
	dates, err := ExpandDates("2026-02-27", Daily, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-28", "2026-03-01", "2026-03-02"}, dates)
}

func TestExpandDatesMonthlyClampsToShortMonths(t *testing.T) {
	dates, err := ExpandDates("2026-01-31", Monthly, 4)
	require.NoError(t, err)
	// 2026 is not a leap year.
	assert.Equal(t, []string{"2026-02-28", "2026-03-31", "2026-04-30", "2026-05-31"}, dates)

	dates, err = ExpandDates("2024-01-31", Monthly, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-29"}, dates)
}

func TestExpandDatesMonthlyCrossesYear(t *testing.T) {
	dates, err := ExpandDates("2026-11-15", Monthly, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-12-15", "2027-01-15", "2027-02-15"}, dates)
}

func TestExpandUnknownFrequencyFallsBackToWeekly(t *testing.T) {
	dates, err := ExpandDates("2026-03-02", Frequency("fortnightly"), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-09", "2026-03-16"}, dates)
}

func TestExpandDatesZeroCount(t *testing.T) {
	dates, err := ExpandDates("2026-03-02", Weekly, 0)
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestExpandDatesBadOrigin(t *testing.T) {
	_, err := ExpandDates("03/02/2026", Weekly, 2)
	assert.Error(t, err)
}
