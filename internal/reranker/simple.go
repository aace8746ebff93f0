package reranker

import (
	"sort"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
)

// SortByScore sorts cs by score, descending. Ties keep their current order.
func SortByScore(cs []*candidate.DateCandidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Score > cs[j].Score
	})
}

// FilterThreshold returns the candidates scoring at least threshold, in
// their current order.
func FilterThreshold(cs []*candidate.DateCandidate, threshold float64) []*candidate.DateCandidate {
	out := make([]*candidate.DateCandidate, 0, len(cs))
	for _, c := range cs {
		if c.Score >= threshold {
			out = append(out, c)
		}
	}
	return out
}

// TopN sorts cs by score and keeps the n best. A negative n keeps all.
func TopN(cs []*candidate.DateCandidate, n int) []*candidate.DateCandidate {
	if n < 0 || len(cs) <= n {
		return cs
	}
	SortByScore(cs)
	return cs[:n]
}
