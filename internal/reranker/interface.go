// Package reranker collapses a patient's raw date candidates into a small,
// scored, precision-resolved ranking.
package reranker

import (
	"context"
	"errors"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
)

// ErrNilContext is returned when a nil context is passed to Rerank.
var ErrNilContext = errors.New("context cannot be nil")

// Reranker provides an interface for candidate reranking algorithms.
type Reranker interface {
	// Rerank scores, merges and filters candidates.
	// Returns the survivors sorted by score in descending order. The input
	// slice and the candidates in it are not modified.
	//
	// The caller is responsible for ensuring ctx is not nil.
	Rerank(ctx context.Context, candidates []*candidate.DateCandidate) ([]*candidate.DateCandidate, error)
}
