package occupancy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestValidate(t *testing.T) {
	start := day(t, "2024-07-01")
	end := day(t, "2024-07-04")

	require.NoError(t, Validate(start, end, []Day{{Date: start, Guests: 2}}))
	assert.ErrorIs(t, Validate(end, start, nil), ErrInvalidDateRange)
	assert.ErrorIs(t, Validate(start, end, []Day{{Date: start, Guests: -1}}), ErrInvalidGuestCount)
	assert.ErrorIs(t, Validate(start, end, []Day{{Date: end, Guests: 1}}), ErrDateOutOfRange)
	assert.ErrorIs(t, Validate(start, end, []Day{{Date: start, Guests: 1}, {Date: start, Guests: 2}}), ErrDuplicateDate)
}

func TestNormalizeFillsMissingNights(t *testing.T) {
	start := day(t, "2024-07-01")
	end := day(t, "2024-07-04")

	got := Normalize(start, end, []Day{
		{Date: day(t, "2024-07-02"), Guests: 3},
		{Date: day(t, "2024-07-09"), Guests: 5},
	})

	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Guests)
	assert.Equal(t, 3, got[1].Guests)
	assert.Equal(t, 0, got[2].Guests)
	assert.True(t, got[2].Date.Equal(day(t, "2024-07-03")))
}

func TestHasValidData(t *testing.T) {
	assert.False(t, HasValidData(nil))
	assert.False(t, HasValidData([]Day{{Guests: 0}, {Guests: 0}}))
	assert.True(t, HasValidData([]Day{{Guests: 0}, {Guests: 1}}))
}

func TestGuestNightsAndMax(t *testing.T) {
	days := []Day{{Guests: 4}, {Guests: 2}, {Guests: 6}}
	assert.Equal(t, 12, GuestNights(days))
	assert.Equal(t, 6, MaxGuests(days))
}

func TestSpanAndOverlap(t *testing.T) {
	days := []Day{
		{Date: day(t, "2024-07-03"), Guests: 1},
		{Date: day(t, "2024-07-01"), Guests: 1},
	}
	first, end, ok := Span(days)
	require.True(t, ok)
	assert.True(t, first.Equal(day(t, "2024-07-01")))
	assert.True(t, end.Equal(day(t, "2024-07-04")))

	assert.Equal(t, 1, OverlapNights(days, day(t, "2024-07-02"), day(t, "2024-07-05")))
}

func TestDayJSON(t *testing.T) {
	var d Day
	require.NoError(t, d.UnmarshalJSON([]byte(`{"date":"2024-07-02","guests":3}`)))
	assert.True(t, d.Date.Equal(day(t, "2024-07-02")))
	assert.Equal(t, 3, d.Guests)

	out, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-07-02","guests":3}`, string(out))

	require.NoError(t, d.UnmarshalJSON([]byte(`{"date":"2024-07-05T00:00:00Z","guests":1}`)))
	assert.True(t, d.Date.Equal(day(t, "2024-07-05")))
}
