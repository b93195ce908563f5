package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	dr, err := FromStrings(start, end)
	require.NoError(t, err)
	return dr
}

func TestFromStrings(t *testing.T) {
	dr := mustRange(t, "2026-07-01", "2026-07-05")
	assert.Equal(t, 4, dr.Nights())
	assert.Equal(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), dr.Start)

	_, err := FromStrings("01.07.2026", "2026-07-05")
	assert.ErrorIs(t, err, ErrBadFormat)

	_, err = FromStrings("2026-07-05", "2026-07-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = FromStrings("2026-07-01", "2026-07-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNewTruncatesToMidnightUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	dr, err := New(
		time.Date(2026, time.July, 1, 15, 30, 0, 0, loc),
		time.Date(2026, time.July, 3, 9, 0, 0, 0, loc),
	)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), dr.Start)
	assert.Equal(t, 2, dr.Nights())
}

func TestOverlaps(t *testing.T) {
	stay := mustRange(t, "2026-07-01", "2026-07-05")

	assert.True(t, stay.Overlaps(mustRange(t, "2026-07-04", "2026-07-08")))
	assert.True(t, stay.Overlaps(mustRange(t, "2026-07-02", "2026-07-03")))
	assert.True(t, stay.Overlaps(mustRange(t, "2026-06-01", "2026-08-01")))

	// Checkout day and arrival day may coincide.
	assert.False(t, stay.Overlaps(mustRange(t, "2026-07-05", "2026-07-09")))
	assert.False(t, stay.Overlaps(mustRange(t, "2026-06-27", "2026-07-01")))
	assert.False(t, stay.Overlaps(mustRange(t, "2026-08-01", "2026-08-05")))
}

func TestLastNight(t *testing.T) {
	dr := mustRange(t, "2026-07-01", "2026-07-05")
	assert.Equal(t, time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), dr.LastNight())
}

func TestIsZero(t *testing.T) {
	assert.True(t, DateRange{}.IsZero())
	assert.False(t, mustRange(t, "2026-07-01", "2026-07-02").IsZero())
}
