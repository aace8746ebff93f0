package reranker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
)

func scores(cs []*candidate.DateCandidate) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Score
	}
	return out
}

func withScores(ss ...float64) []*candidate.DateCandidate {
	out := make([]*candidate.DateCandidate, len(ss))
	for i, s := range ss {
		out[i] = cand(dates.Year{Y: 2000 + i}, s, "x")
	}
	return out
}

func TestFuzzyReranker_Score(t *testing.T) {
	logger := logging.NewTestLogger()
	r := NewFuzzyReranker(Config{}, WithLogger(logger.Logger))
	cs := []*candidate.DateCandidate{
		cand(y2008, 0, "a", "b", "c"),
		cand(ym200805, 0, "d"),
	}

	r.Score(context.Background(), cs)

	assert.Equal(t, []float64{0.75, 0.25}, scores(cs))
	logger.AssertNoWarnings(t)
}

func TestFuzzyReranker_ScoreWithoutSnippetsWarns(t *testing.T) {
	logger := logging.NewTestLogger()
	r := NewFuzzyReranker(Config{}, WithLogger(logger.Logger))
	cs := []*candidate.DateCandidate{cand(y2008, 0.7), cand(ym200805, 0.3)}

	r.Score(context.Background(), cs)

	assert.Equal(t, []float64{0, 0}, scores(cs))
	logger.AssertLogged(t, zapcore.WarnLevel, "candidate scores do not add up to 1")
}

func TestFuzzyReranker_ScoreEmpty(t *testing.T) {
	logger := logging.NewTestLogger()
	r := NewFuzzyReranker(Config{}, WithLogger(logger.Logger))

	r.Score(context.Background(), nil)

	logger.AssertNoWarnings(t)
}

func TestFuzzyReranker_FilterKeepTopN(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		n         int
		want      []float64
	}{
		{
			name:      "keeps at least n below threshold",
			scores:    []float64{0.1, 0.2, 0.3, 0.4},
			threshold: 0.5,
			n:         2,
			want:      []float64{0.4, 0.3},
		},
		{
			name:      "stops at threshold",
			scores:    []float64{0.2, 0.5, 0.3},
			threshold: 0.25,
			n:         0,
			want:      []float64{0.5, 0.3},
		},
		{
			name:      "threshold is inclusive",
			scores:    []float64{0.25, 0.5, 0.25},
			threshold: 0.25,
			n:         0,
			want:      []float64{0.5, 0.25, 0.25},
		},
		{
			name:      "n zero may empty the list",
			scores:    []float64{0.1, 0.2},
			threshold: 0.5,
			n:         0,
			want:      []float64{},
		},
		{
			name:      "count at most n is untouched",
			scores:    []float64{0.1, 0.3},
			threshold: 0.9,
			n:         2,
			want:      []float64{0.1, 0.3},
		},
		{
			name:      "zero threshold keeps everything",
			scores:    []float64{0.1, 0.6, 0.3},
			threshold: 0,
			n:         0,
			want:      []float64{0.6, 0.3, 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFuzzyReranker(Config{})
			got := r.FilterKeepTopN(context.Background(), withScores(tt.scores...), tt.threshold, tt.n)
			assert.Equal(t, tt.want, scores(got))
		})
	}
}

func TestFuzzyReranker_FilterNegativeN(t *testing.T) {
	logger := logging.NewTestLogger()
	r := NewFuzzyReranker(Config{}, WithLogger(logger.Logger))

	got := r.FilterKeepTopN(context.Background(), withScores(0.1, 0.9), 0.5, -1)

	assert.Equal(t, []float64{0.1, 0.9}, scores(got))
	logger.AssertLogged(t, zapcore.WarnLevel, "n must be 0 or greater")
}

func TestFuzzyReranker_Rerank(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		in        []*candidate.DateCandidate
		wantDates []dates.Date
		wantScore []float64
	}{
		{
			name: "precision tower collapses onto full date",
			in: []*candidate.DateCandidate{
				cand(y2008, 0, "year"),
				cand(ym200805, 0, "month"),
				cand(fd20080505, 0, "day"),
			},
			wantDates: []dates.Date{fd20080505},
			wantScore: []float64{1},
		},
		{
			name: "unmatched year survives",
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2007}, 0, "a"),
				cand(fd20080505, 0, "b"),
				cand(fd20080505, 0, "c"),
			},
			wantDates: []dates.Date{fd20080505, dates.Year{Y: 2007}},
			wantScore: []float64{2.0 / 3, 1.0 / 3},
		},
		{
			name: "ties keep first-seen order",
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2001}, 0, "a"),
				cand(dates.Year{Y: 2002}, 0, "b"),
				cand(dates.Year{Y: 2003}, 0, "c"),
			},
			wantDates: []dates.Date{dates.Year{Y: 2001}, dates.Year{Y: 2002}, dates.Year{Y: 2003}},
			wantScore: []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		},
		{
			name: "threshold filters low scores above min count",
			cfg:  Config{Threshold: 0.3, MinCount: 1},
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2001}, 0, "a"),
				cand(dates.Year{Y: 2002}, 0, "b", "c", "d"),
				cand(dates.Year{Y: 2003}, 0, "e"),
			},
			wantDates: []dates.Date{dates.Year{Y: 2002}},
			wantScore: []float64{0.6},
		},
		{
			name: "max count trims the ranked list",
			cfg:  Config{MaxCount: 2},
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2001}, 0, "a"),
				cand(dates.Year{Y: 2002}, 0, "b", "c", "d"),
				cand(dates.Year{Y: 2003}, 0, "e", "f"),
			},
			wantDates: []dates.Date{dates.Year{Y: 2002}, dates.Year{Y: 2003}},
			wantScore: []float64{0.5, 1.0 / 3},
		},
		{
			name: "max count applies after threshold",
			cfg:  Config{Threshold: 0.4, MaxCount: 2},
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2001}, 0, "a"),
				cand(dates.Year{Y: 2002}, 0, "b", "c", "d"),
				cand(dates.Year{Y: 2003}, 0, "e", "f"),
			},
			wantDates: []dates.Date{dates.Year{Y: 2002}},
			wantScore: []float64{0.5},
		},
		{
			name: "max count above length keeps all",
			cfg:  Config{MaxCount: 5},
			in: []*candidate.DateCandidate{
				cand(dates.Year{Y: 2001}, 0, "a"),
				cand(fd20080505, 0, "b"),
			},
			wantDates: []dates.Date{dates.Year{Y: 2001}, fd20080505},
			wantScore: []float64{0.5, 0.5},
		},
		{
			name:      "empty input",
			in:        nil,
			wantDates: []dates.Date{},
			wantScore: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFuzzyReranker(tt.cfg)
			got, err := r.Rerank(context.Background(), tt.in)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDates, datesOf(got))
			require.Len(t, got, len(tt.wantScore))
			for i, c := range got {
				assert.InDelta(t, tt.wantScore[i], c.Score, 1e-9)
			}
		})
	}
}

func TestFuzzyReranker_RerankLeavesInputAlone(t *testing.T) {
	in := []*candidate.DateCandidate{
		cand(ym200805, 0, "month"),
		cand(fd20080505, 0, "day"),
	}

	got, err := NewFuzzyReranker(Config{}).Rerank(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"day", "month"}, got[0].Snippets)

	require.Len(t, in, 2)
	assert.Equal(t, []string{"day"}, in[1].Snippets)
	assert.Zero(t, in[1].Score)
}

func TestFuzzyReranker_RerankNilContext(t *testing.T) {
	var ctx context.Context
	_, err := NewFuzzyReranker(Config{}).Rerank(ctx, nil)
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestFilterThreshold(t *testing.T) {
	got := FilterThreshold(withScores(0.1, 0.5, 0.3, 0.5), 0.3)
	assert.Equal(t, []float64{0.5, 0.3, 0.5}, scores(got))
}

func TestTopN(t *testing.T) {
	assert.Equal(t, []float64{0.5, 0.3}, scores(TopN(withScores(0.1, 0.5, 0.3), 2)))
	assert.Equal(t, []float64{0.1, 0.5}, scores(TopN(withScores(0.1, 0.5), 3)))
	assert.Equal(t, []float64{0.1, 0.5}, scores(TopN(withScores(0.1, 0.5), -1)))
	assert.Empty(t, TopN(withScores(0.1, 0.5), 0))
}

func TestSortByScore_Stable(t *testing.T) {
	cs := []*candidate.DateCandidate{
		cand(dates.Year{Y: 2001}, 0.2),
		cand(dates.Year{Y: 2002}, 0.5),
		cand(dates.Year{Y: 2003}, 0.2),
		cand(dates.Year{Y: 2004}, 0.5),
	}

	SortByScore(cs)

	assert.Equal(t, []dates.Date{
		dates.Year{Y: 2002}, dates.Year{Y: 2004}, dates.Year{Y: 2001}, dates.Year{Y: 2003},
	}, datesOf(cs))
}
