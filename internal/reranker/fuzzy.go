package reranker

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
)

// scoreTolerance bounds how far scores may sum away from 1 before a
// warning is logged.
const scoreTolerance = 0.001

// Config holds the filtering parameters of a FuzzyReranker.
type Config struct {
	// Threshold is the minimum score a candidate needs to be kept once
	// MinCount candidates remain.
	Threshold float64
	// MinCount is the number of candidates always kept, regardless of
	// score. Negative disables filtering.
	MinCount int
	// MaxCount caps the result after filtering. Zero or negative keeps
	// every surviving candidate.
	MaxCount int
}

// FuzzyReranker implements Reranker with evidence-share scoring and
// precision-tier merging.
type FuzzyReranker struct {
	threshold float64
	minCount  int
	maxCount  int
	logger    *logging.Logger
}

// Option configures a FuzzyReranker.
type Option func(*FuzzyReranker)

// WithLogger sets the diagnostics sink. A nil logger discards warnings.
func WithLogger(l *logging.Logger) Option {
	return func(r *FuzzyReranker) {
		r.logger = l
	}
}

// NewFuzzyReranker creates a FuzzyReranker.
func NewFuzzyReranker(cfg Config, opts ...Option) *FuzzyReranker {
	r := &FuzzyReranker{
		threshold: cfg.Threshold,
		minCount:  cfg.MinCount,
		maxCount:  cfg.MaxCount,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rerank scores candidates by snippet share, resolves duplicates and fuzzy
// dates, filters to the configured threshold and minimum count, sorts the
// result by score and trims it to MaxCount when set.
func (r *FuzzyReranker) Rerank(ctx context.Context, cs []*candidate.DateCandidate) ([]*candidate.DateCandidate, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	out := make([]*candidate.DateCandidate, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}

	r.Score(ctx, out)
	out = RemoveFuzzyDates(out)
	r.logger.Debug(ctx, "collapsed fuzzy dates",
		zap.Int("before", len(cs)),
		zap.Int("after", len(out)),
	)
	out = r.FilterKeepTopN(ctx, out, r.threshold, r.minCount)
	SortByScore(out)
	if r.maxCount > 0 {
		out = TopN(out, r.maxCount)
	}
	return out, nil
}

// Score sets each candidate's score to its share of all snippets in cs.
//
// A list without snippets scores zero throughout. Either way a warning is
// logged if the scores do not sum to 1.
func (r *FuzzyReranker) Score(ctx context.Context, cs []*candidate.DateCandidate) {
	if len(cs) == 0 {
		return
	}

	total := candidate.TotalSnippets(cs)
	for _, c := range cs {
		if total == 0 {
			c.Score = 0
			continue
		}
		c.Score = float64(len(c.Snippets)) / float64(total)
	}

	if sum := candidate.TotalScore(cs); math.Abs(sum-1) > scoreTolerance {
		r.logger.Warn(ctx, "candidate scores do not add up to 1",
			zap.Float64("sum", sum),
			zap.Int("candidates", len(cs)),
		)
	}
}

// FilterKeepTopN sorts cs by score and drops candidates from the bottom
// while they score below threshold and more than n remain.
//
// A negative n is a configuration error: a warning is logged and cs is
// returned unfiltered. A list of n or fewer candidates is returned as is.
func (r *FuzzyReranker) FilterKeepTopN(ctx context.Context, cs []*candidate.DateCandidate, threshold float64, n int) []*candidate.DateCandidate {
	if n < 0 {
		r.logger.Warn(ctx, "n must be 0 or greater, cannot perform filtering", zap.Int("n", n))
		return cs
	}
	if len(cs) <= n {
		return cs
	}

	SortByScore(cs)
	if n == 0 {
		return FilterThreshold(cs, threshold)
	}
	i := len(cs) - 1
	for i >= n && cs[i].Score < threshold {
		i--
	}
	return cs[:i+1]
}

// Ensure FuzzyReranker implements Reranker.
var _ Reranker = (*FuzzyReranker)(nil)
