package notes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/candidate"
	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

// PatientDates is the ranked output for one patient.
type PatientDates struct {
	MRN        string                     `json:"mrn"`
	Candidates []*candidate.DateCandidate `json:"candidates"`
}

// ReadOutput reads system output lines of the form MRN, date1, score1,
// date2, score2 and so on, separated by tabs. Patients are returned in order
// of first appearance and keep a line's candidates in file order.
//
// A patient is recorded even if its line is malformed, so it still counts
// as returning no dates. An uninterpretable date is kept as a nil date.
func (l *Loader) ReadOutput(ctx context.Context, r io.Reader) ([]PatientDates, error) {
	parser := dates.NewRegexParser()
	var out []PatientDates
	index := make(map[string]int)

	err := eachLine(r, func(lineNo int, line string, fields []string) {
		mrn := fields[0]
		i, ok := index[mrn]
		if !ok {
			i = len(out)
			index[mrn] = i
			out = append(out, PatientDates{MRN: mrn, Candidates: []*candidate.DateCandidate{}})
		}

		if len(fields)%2 != 1 {
			l.skip(ctx, "output", lineNo, line, "want MRN followed by date and score pairs")
			return
		}

		var parsed []*candidate.DateCandidate
		for j := 1; j < len(fields); j += 2 {
			score, err := strconv.ParseFloat(strings.TrimSpace(fields[j+1]), 64)
			if err != nil {
				l.skip(ctx, "output", lineNo, line, "score is not a number")
				return
			}
			var d dates.Date
			if ds := parseDateExpr(parser, fields[j]); len(ds) > 0 {
				d = ds[0]
			} else {
				l.logger.Warn(ctx, "could not make date", zap.Int("line", lineNo), zap.String("date", fields[j]))
			}
			parsed = append(parsed, &candidate.DateCandidate{Date: d, Snippets: []string{}, Score: score})
		}
		out[i].Candidates = append(out[i].Candidates, parsed...)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOutput reads a system output file.
func (l *Loader) LoadOutput(ctx context.Context, path string) ([]PatientDates, error) {
	return openWith(path, func(r io.Reader) ([]PatientDates, error) {
		return l.ReadOutput(ctx, r)
	})
}

// Writer writes system output lines.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a Writer on w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one line for p with its candidates in descending score
// order. p is not modified.
func (w *Writer) Write(p PatientDates) error {
	sorted := make([]*candidate.DateCandidate, len(p.Candidates))
	copy(sorted, p.Candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	var b strings.Builder
	b.WriteString(p.MRN)
	for _, c := range sorted {
		b.WriteByte('\t')
		if c.Date != nil {
			b.WriteString(c.Date.String())
		}
		b.WriteByte('\t')
		b.WriteString(strconv.FormatFloat(c.Score, 'g', -1, 64))
	}
	b.WriteByte('\n')

	if _, err := w.w.WriteString(b.String()); err != nil {
		return fmt.Errorf("write output for %s: %w", p.MRN, err)
	}
	return nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
