package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

// DefaultWindow is the number of characters searched around a keyword
// when none is configured.
const DefaultWindow = 100

// ErrBadPosition is returned for a keyword position other than PRE-DATE or
// POST-DATE.
var ErrBadPosition = errors.New("position must be PRE-DATE or POST-DATE")

// Position says on which side of its date a keyword appears.
type Position string

const (
	// PreDate keywords precede the date; the window extends after them.
	PreDate Position = "PRE-DATE"
	// PostDate keywords follow the date; the window extends before them.
	PostDate Position = "POST-DATE"
)

// Valid reports whether p is one of the two known positions.
func (p Position) Valid() bool {
	return p == PreDate || p == PostDate
}

// Keyword is a literal searched for case-insensitively in note text.
type Keyword struct {
	Text     string   `json:"text" toml:"text"`
	Position Position `json:"position" toml:"position"`
	Window   int      `json:"window,omitempty" toml:"window"`
}

// NewKeyword creates a keyword with the default window.
func NewKeyword(text string, position Position) Keyword {
	return Keyword{Text: text, Position: position, Window: DefaultWindow}
}

// Validate reports configuration problems with k.
func (k Keyword) Validate() error {
	if strings.TrimSpace(k.Text) == "" {
		return errors.New("keyword text cannot be empty")
	}
	if !k.Position.Valid() {
		return fmt.Errorf("keyword %q: %w, got %q", k.Text, ErrBadPosition, k.Position)
	}
	if k.Window < 0 {
		return fmt.Errorf("keyword %q: window must be >= 0, got %d", k.Text, k.Window)
	}
	return nil
}

// String renders the keyword as "(text, position, window)".
func (k Keyword) String() string {
	return fmt.Sprintf("(%s, %s, %d)", k.Text, k.Position, k.Window)
}

// ClinicNote is one note in a patient's record.
type ClinicNote struct {
	// Date is the note creation date. It is informational only and may be nil.
	Date dates.Date `json:"date,omitempty"`
	Desc string     `json:"desc"`
	Text string     `json:"text"`
}

// String renders the note header without its text.
func (n ClinicNote) String() string {
	return fmt.Sprintf("date: %v; desc: %s", n.Date, n.Desc)
}

// DateExtractor produces unscored date candidates from a patient's notes.
type DateExtractor interface {
	// Extract returns the raw candidates for notes in extraction order.
	// ctx carries logging fields only; extraction does not block.
	Extract(ctx context.Context, notes []ClinicNote) []*candidate.DateCandidate
}
