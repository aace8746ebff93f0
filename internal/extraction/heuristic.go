package extraction

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
	"github.com/fyrsmithlabs/eventdates/internal/logging"
)

// Extractor implements DateExtractor using keyword windows.
//
// An Extractor is immutable after construction and safe for concurrent use
// when its Parser is.
type Extractor struct {
	parser dates.Parser
	logger *logging.Logger

	// pre and post are nil when no keyword of that position is configured.
	pre  *matcher
	post *matcher
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the diagnostics sink. A nil logger discards warnings.
func WithLogger(l *logging.Logger) Option {
	return func(x *Extractor) {
		x.logger = l
	}
}

// WithParser replaces the default regex date parser.
func WithParser(p dates.Parser) Option {
	return func(x *Extractor) {
		if p != nil {
			x.parser = p
		}
	}
}

// NewExtractor creates an extractor for keywords.
//
// Keywords with an unknown position are kept but never match; a warning is
// logged for each. Keywords with blank text are dropped with a warning.
// Negative windows are treated as zero.
func NewExtractor(keywords []Keyword, opts ...Option) *Extractor {
	x := &Extractor{parser: dates.NewRegexParser()}
	for _, opt := range opts {
		opt(x)
	}

	var pre, post []Keyword
	for _, k := range keywords {
		if strings.TrimSpace(k.Text) == "" {
			x.logger.Warn(context.Background(), "empty keyword text, skipping keyword",
				zap.String("position", string(k.Position)),
			)
			continue
		}
		if k.Window < 0 {
			x.logger.Warn(context.Background(), "negative keyword window, using 0",
				zap.String("keyword", k.Text),
				zap.Int("window", k.Window),
			)
			k.Window = 0
		}
		switch k.Position {
		case PreDate:
			pre = append(pre, k)
		case PostDate:
			post = append(post, k)
		default:
			x.logger.Warn(context.Background(), "bad keyword position, keyword will never match",
				zap.String("keyword", k.Text),
				zap.String("position", string(k.Position)),
			)
		}
	}

	x.pre = newMatcher(PreDate, pre)
	x.post = newMatcher(PostDate, post)
	return x
}

// Extract scans every note and returns one unscored candidate per parsed
// date, in note order, PRE-DATE matches before POST-DATE matches.
func (x *Extractor) Extract(ctx context.Context, notes []ClinicNote) []*candidate.DateCandidate {
	var out []*candidate.DateCandidate
	for _, note := range notes {
		out = append(out, x.ExtractNote(ctx, note)...)
	}
	x.logger.Debug(ctx, "extracted candidates",
		zap.Int("notes", len(notes)),
		zap.Int("candidates", len(out)),
	)
	return out
}

// ExtractNote returns the candidates found in a single note.
func (x *Extractor) ExtractNote(ctx context.Context, note ClinicNote) []*candidate.DateCandidate {
	var out []*candidate.DateCandidate
	if x.pre != nil {
		for _, m := range x.pre.find(note.Text) {
			region := preDateRegion(note.Text, m.start, m.end, m.window)
			out = append(out, x.candidates(ctx, region, dates.First)...)
		}
	}
	if x.post != nil {
		for _, m := range x.post.find(note.Text) {
			region := postDateRegion(note.Text, m.start, m.end, m.window)
			out = append(out, x.candidates(ctx, region, dates.Last)...)
		}
	}
	return out
}

// candidates parses the date expression nearest the keyword in region.
func (x *Extractor) candidates(ctx context.Context, region string, which dates.Occurrence) []*candidate.DateCandidate {
	if strings.TrimSpace(region) == "" {
		return nil
	}
	expr, ok := x.parser.Search(region, which)
	if !ok {
		return nil
	}
	parsed := x.parser.Parse(expr)
	if len(parsed) == 0 {
		x.logger.Trace(ctx, "date expression did not parse", zap.String("expression", expr))
		return nil
	}
	out := make([]*candidate.DateCandidate, 0, len(parsed))
	for _, d := range parsed {
		out = append(out, candidate.New(d, region))
	}
	return out
}

// NaiveExtractor implements DateExtractor by taking every date expression
// in every note, with the whole note text as the snippet.
type NaiveExtractor struct {
	scanner dates.Scanner
	parser  dates.Parser
}

// NewNaiveExtractor creates a NaiveExtractor using the default parser.
func NewNaiveExtractor() *NaiveExtractor {
	p := dates.NewRegexParser()
	return &NaiveExtractor{scanner: p, parser: p}
}

// Extract returns a candidate for every date in notes.
func (n *NaiveExtractor) Extract(_ context.Context, notes []ClinicNote) []*candidate.DateCandidate {
	var out []*candidate.DateCandidate
	for _, note := range notes {
		for _, expr := range n.scanner.FindAll(note.Text) {
			for _, d := range n.parser.Parse(expr) {
				out = append(out, candidate.New(d, note.Text))
			}
		}
	}
	return out
}

// Ensure both extractors implement DateExtractor.
var (
	_ DateExtractor = (*Extractor)(nil)
	_ DateExtractor = (*NaiveExtractor)(nil)
)
