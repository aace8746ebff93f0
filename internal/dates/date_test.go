package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name string
		a, b Date
		want bool
	}{
		{"year contains full date", Year{2008}, FullDate{2008, time.May, 5}, true},
		{"year contains month", Year{2008}, YearMonth{2008, time.May}, true},
		{"month contains full date", YearMonth{2008, time.May}, FullDate{2008, time.May, 5}, true},
		{"symmetric", FullDate{2008, time.May, 5}, YearMonth{2008, time.May}, true},
		{"month contained by year", YearMonth{2008, time.May}, Year{2008}, true},
		{"equal full dates", FullDate{2008, time.May, 5}, FullDate{2008, time.May, 5}, true},
		{"equal years", Year{2008}, Year{2008}, true},
		{"different year", Year{2009}, FullDate{2008, time.May, 5}, false},
		{"different month", YearMonth{2008, time.June}, FullDate{2008, time.May, 5}, false},
		{"sibling months", YearMonth{2008, time.June}, YearMonth{2008, time.May}, false},
		{"sibling days", FullDate{2008, time.May, 4}, FullDate{2008, time.May, 5}, false},
		{"nil", nil, Year{2008}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FuzzyMatch(tt.a, tt.b))
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Year{2008}, Year{2008}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Year{2008}, YearMonth{2008, time.January}))
	assert.False(t, Equal(FullDate{2008, time.May, 5}, FullDate{2008, time.May, 6}))
	assert.False(t, Equal(nil, Year{2008}))
}

func TestPrecisionFlags(t *testing.T) {
	assert.False(t, MonthKnown(Year{2008}))
	assert.False(t, DayKnown(Year{2008}))
	assert.True(t, MonthKnown(YearMonth{2008, time.May}))
	assert.False(t, DayKnown(YearMonth{2008, time.May}))
	assert.True(t, MonthKnown(FullDate{2008, time.May, 5}))
	assert.True(t, DayKnown(FullDate{2008, time.May, 5}))
}

func TestNew(t *testing.T) {
	d, err := New(2008, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Year{2008}, d)

	d, err = New(2008, time.May, 0)
	require.NoError(t, err)
	assert.Equal(t, YearMonth{2008, time.May}, d)

	d, err = New(2008, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, FullDate{2008, time.February, 29}, d)

	_, err = New(2009, time.February, 29)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = New(2008, 13, 0)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = New(2008, 0, 5)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseISOAndString(t *testing.T) {
	for _, s := range []string{"2008", "2008-05", "2008-05-05"} {
		d, err := ParseISO(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, d.String())
	}

	d, err := ParseISO("2008-5-7")
	require.NoError(t, err)
	assert.Equal(t, "2008-05-07", d.String())

	for _, s := range []string{"", "08", "2008-", "2008-00", "2008-05-05-01", "May 2008"} {
		_, err := ParseISO(s)
		assert.ErrorIs(t, err, ErrInvalidDate, s)
	}
}

func TestDatesAsMapKeys(t *testing.T) {
	seen := map[Date]int{}
	seen[FullDate{2008, time.May, 5}]++
	seen[FullDate{2008, time.May, 5}]++
	seen[YearMonth{2008, time.May}]++
	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[FullDate{2008, time.May, 5}])
}
