// Package candidate holds the hypothesised event dates produced by
// extraction and refined by reranking.
package candidate

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

// DateCandidate pairs a date with the text snippets supporting it and a
// confidence score.
//
// Date is fixed at construction. Snippets only grow. Score is reassigned by
// scoring and merging.
type DateCandidate struct {
	Date     dates.Date `json:"date"`
	Snippets []string   `json:"snippets"`
	Score    float64    `json:"score"`
}

// New creates an unscored candidate.
func New(date dates.Date, snippets ...string) *DateCandidate {
	return &DateCandidate{
		Date:     date,
		Snippets: append([]string(nil), snippets...),
	}
}

// Merge folds other into c: c keeps its date, gains other's snippets and
// adds other's score.
func (c *DateCandidate) Merge(other *DateCandidate) {
	c.Snippets = append(c.Snippets, other.Snippets...)
	c.Score += other.Score
}

// Split distributes fuzzy's score across matches in proportion to their
// current scores and appends fuzzy's snippets to every match.
//
// When every match scores zero the score is shared by snippet count, and
// evenly if the matches carry no snippets either. The total score is
// conserved in all cases.
func Split(fuzzy *DateCandidate, matches []*DateCandidate) {
	if len(matches) == 0 {
		return
	}

	shares := make([]float64, len(matches))
	var total float64
	for i, m := range matches {
		shares[i] = m.Score
		total += m.Score
	}
	if total == 0 {
		for i, m := range matches {
			shares[i] = float64(len(m.Snippets))
			total += shares[i]
		}
	}
	if total == 0 {
		for i := range shares {
			shares[i] = 1
		}
		total = float64(len(matches))
	}

	for i, m := range matches {
		m.Score += fuzzy.Score * shares[i] / total
		m.Snippets = append(m.Snippets, fuzzy.Snippets...)
	}
}

// Clone returns a deep copy.
func (c *DateCandidate) Clone() *DateCandidate {
	return &DateCandidate{
		Date:     c.Date,
		Snippets: append([]string(nil), c.Snippets...),
		Score:    c.Score,
	}
}

// String renders the candidate for debugging.
func (c *DateCandidate) String() string {
	return fmt.Sprintf("DATE: %s\nSCORE: %g\nSNIPPETS: [%s]\n", c.Date, c.Score, strings.Join(quoteAll(c.Snippets), ", "))
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

// TotalScore sums the scores of cs.
func TotalScore(cs []*DateCandidate) float64 {
	var sum float64
	for _, c := range cs {
		sum += c.Score
	}
	return sum
}

// TotalSnippets counts the snippets across cs.
func TotalSnippets(cs []*DateCandidate) int {
	var n int
	for _, c := range cs {
		n += len(c.Snippets)
	}
	return n
}
