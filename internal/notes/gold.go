package notes

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/eventdates/internal/dates"
)

// Gold maps each MRN to its reference event dates.
type Gold map[string][]dates.Date

// parseDateExpr reads an ISO date, falling back to the free-text parser.
// A coordinated expression can yield several dates.
func parseDateExpr(parser dates.Parser, s string) []dates.Date {
	s = strings.TrimSpace(s)
	if d, err := dates.ParseISO(s); err == nil {
		return []dates.Date{d}
	}
	return parser.Parse(s)
}

// ReadGold reads lines of the form MRN followed by one or more dates,
// separated by tabs. Repeated MRNs accumulate dates. A date that cannot be
// interpreted is logged and skipped.
func (l *Loader) ReadGold(ctx context.Context, r io.Reader) (Gold, error) {
	parser := dates.NewRegexParser()
	gold := make(Gold)

	err := eachLine(r, func(lineNo int, line string, fields []string) {
		if len(fields) < 2 {
			l.skip(ctx, "gold", lineNo, line, "want MRN and at least one date")
			return
		}
		mrn := fields[0]
		for _, f := range fields[1:] {
			ds := parseDateExpr(parser, f)
			if len(ds) == 0 {
				l.logger.Warn(ctx, "could not interpret gold date; skipping",
					zap.Int("line", lineNo),
					zap.String("date", f),
				)
				continue
			}
			gold[mrn] = append(gold[mrn], ds...)
		}
	})
	if err != nil {
		return nil, err
	}
	return gold, nil
}

// LoadGold reads a gold data file.
func (l *Loader) LoadGold(ctx context.Context, path string) (Gold, error) {
	return openWith(path, func(r io.Reader) (Gold, error) {
		return l.ReadGold(ctx, r)
	})
}
