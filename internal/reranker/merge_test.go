package reranker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

var (
	y2008      = dates.Year{Y: 2008}
	ym200805   = dates.YearMonth{Y: 2008, M: time.May}
	ym200811   = dates.YearMonth{Y: 2008, M: time.November}
	ym200905   = dates.YearMonth{Y: 2009, M: time.May}
	fd20080503 = dates.FullDate{Y: 2008, M: time.May, D: 3}
	fd20080505 = dates.FullDate{Y: 2008, M: time.May, D: 5}
)

func cand(d dates.Date, score float64, snippets ...string) *candidate.DateCandidate {
	return &candidate.DateCandidate{Date: d, Snippets: snippets, Score: score}
}

func datesOf(cs []*candidate.DateCandidate) []dates.Date {
	out := make([]dates.Date, len(cs))
	for i, c := range cs {
		out[i] = c.Date
	}
	return out
}

func TestRemoveDuplicates(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(fd20080505, 0.25, "a"),
		cand(y2008, 0.25, "b"),
		cand(fd20080505, 0.25, "c"),
		cand(fd20080505, 0.25, "d"),
	}

	got := RemoveDuplicates(cs)

	require.Len(t, got, 2)
	assert.Equal(t, fd20080505, got[0].Date)
	assert.Equal(t, []string{"a", "c", "d"}, got[0].Snippets)
	assert.InDelta(t, 0.75, got[0].Score, 1e-9)
	assert.Equal(t, y2008, got[1].Date)
	assert.Equal(t, []string{"b"}, got[1].Snippets)
}

func TestRemoveDuplicates_Idempotent(t *testing.T) {
	cs := RemoveDuplicates([]*candidate.DateCandidate{
		cand(y2008, 0.5, "a"),
		cand(ym200805, 0.25, "b"),
		cand(y2008, 0.25, "c"),
	})
	before := make([]candidate.DateCandidate, len(cs))
	for i, c := range cs {
		before[i] = *c.Clone()
	}

	again := RemoveDuplicates(cs)

	require.Len(t, again, len(before))
	for i := range before {
		assert.Equal(t, before[i], *again[i])
	}
}

func TestAbsorbMonthYear(t *testing.T) {
	tests := []struct {
		name      string
		in        []*candidate.DateCandidate
		wantDates []dates.Date
		wantScore []float64
	}{
		{
			name: "single match merges",
			in: []*candidate.DateCandidate{
				cand(ym200805, 0.5, "ym"),
				cand(fd20080505, 0.5, "fd"),
			},
			wantDates: []dates.Date{fd20080505},
			wantScore: []float64{1},
		},
		{
			name: "several matches split by score",
			in: []*candidate.DateCandidate{
				cand(ym200805, 0.4, "ym"),
				cand(fd20080503, 0.45, "a"),
				cand(fd20080505, 0.15, "b"),
			},
			wantDates: []dates.Date{fd20080503, fd20080505},
			wantScore: []float64{0.75, 0.25},
		},
		{
			name: "no match stays",
			in: []*candidate.DateCandidate{
				cand(ym200811, 0.5, "ym"),
				cand(fd20080505, 0.5, "fd"),
			},
			wantDates: []dates.Date{ym200811, fd20080505},
			wantScore: []float64{0.5, 0.5},
		},
		{
			name: "year-only candidates are left alone",
			in: []*candidate.DateCandidate{
				cand(y2008, 0.5, "y"),
				cand(fd20080505, 0.5, "fd"),
			},
			wantDates: []dates.Date{y2008, fd20080505},
			wantScore: []float64{0.5, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := candidate.TotalScore(tt.in)
			got := AbsorbMonthYear(tt.in)

			assert.Equal(t, tt.wantDates, datesOf(got))
			for i, c := range got {
				assert.InDelta(t, tt.wantScore[i], c.Score, 1e-9)
			}
			assert.InDelta(t, before, candidate.TotalScore(got), 1e-9)
		})
	}
}

func TestAbsorbYearOnly_AmbiguousSplit(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(y2008, 0.4, "y"),
		cand(ym200805, 0.3, "may"),
		cand(ym200905, 0.1, "other"),
		cand(ym200811, 0.2, "nov"),
	}

	got := AbsorbYearOnly(cs)

	require.Len(t, got, 3)
	assert.Equal(t, []dates.Date{ym200805, ym200905, ym200811}, datesOf(got))
	assert.InDelta(t, 0.3+0.4*0.3/0.5, got[0].Score, 1e-9)
	assert.InDelta(t, 0.1, got[1].Score, 1e-9)
	assert.InDelta(t, 0.2+0.4*0.2/0.5, got[2].Score, 1e-9)
	assert.Equal(t, []string{"may", "y"}, got[0].Snippets)
	assert.Equal(t, []string{"other"}, got[1].Snippets)
	assert.Equal(t, []string{"nov", "y"}, got[2].Snippets)
	assert.InDelta(t, 1.0, candidate.TotalScore(got), 1e-9)
}

func TestAbsorbYearOnly_NoMatch(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(dates.Year{Y: 2007}, 0.5, "y"),
		cand(fd20080505, 0.5, "fd"),
	}

	got := AbsorbYearOnly(cs)

	require.Len(t, got, 2)
	assert.Equal(t, dates.Year{Y: 2007}, got[0].Date)
	assert.Equal(t, 0.5, got[0].Score)
	assert.Equal(t, []string{"y"}, got[0].Snippets)
}

func TestAbsorb_MultipleTargetsShareMatch(t *testing.T) {
	// Both month-year candidates fold into the same full dates; the later
	// one is applied first.
	cs := []*candidate.DateCandidate{
		cand(fd20080505, 0.5, "fd"),
		cand(ym200805, 0.25, "first"),
		cand(ym200805, 0.25, "second"),
	}

	got := AbsorbMonthYear(cs)

	require.Len(t, got, 1)
	assert.Equal(t, []string{"fd", "second", "first"}, got[0].Snippets)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestRemoveFuzzyDates_PrecisionTower(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(y2008, 1.0/3, "year"),
		cand(ym200805, 1.0/3, "month"),
		cand(fd20080505, 1.0/3, "day"),
	}

	got := RemoveFuzzyDates(cs)

	require.Len(t, got, 1)
	assert.Equal(t, fd20080505, got[0].Date)
	assert.Equal(t, []string{"day", "month", "year"}, got[0].Snippets)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestRemoveFuzzyDates_ConservesScore(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(y2008, 0.1, "a"),
		cand(ym200805, 0.2, "b"),
		cand(fd20080503, 0.1, "c"),
		cand(fd20080505, 0.15, "d"),
		cand(ym200811, 0.05, "e"),
		cand(dates.Year{Y: 2010}, 0.3, "f"),
		cand(fd20080505, 0.1, "g"),
	}

	cs = RemoveDuplicates(cs)
	assert.InDelta(t, 1.0, candidate.TotalScore(cs), 1e-9)
	cs = AbsorbMonthYear(cs)
	assert.InDelta(t, 1.0, candidate.TotalScore(cs), 1e-9)
	cs = AbsorbYearOnly(cs)
	assert.InDelta(t, 1.0, candidate.TotalScore(cs), 1e-9)

	assert.Equal(t, []dates.Date{fd20080503, fd20080505, ym200811, dates.Year{Y: 2010}}, datesOf(cs))
}
