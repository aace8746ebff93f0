package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Occurrence selects which match Search returns.
type Occurrence int

const (
	First Occurrence = iota
	Last
)

// Parser recognises and interprets date expressions.
type Parser interface {
	// Parse interprets a date expression. A coordinated expression such as
	// "May 3 and 5, 2008" yields several dates; an unrecognised one yields none.
	Parse(expr string) []Date

	// Search returns the first or last date expression found in text.
	Search(text string, which Occurrence) (string, bool)
}

// Scanner lists every date expression in a text.
type Scanner interface {
	FindAll(text string) []string
}

const (
	monthNames = `(?:jan(?:uary|\.)?|feb(?:ruary|\.)?|mar(?:ch|\.)?|apr(?:il|\.)?|may|june?|july?|` +
		`jun\.|jul\.|aug(?:ust|\.)?|sept?(?:ember|\.)?|oct(?:ober|\.)?|nov(?:ember|\.)?|dec(?:ember|\.)?)`
	dayNumber  = `\d{1,2}(?:st|nd|rd|th)?`
	fullYear   = `(?:1[89]|20)\d{2}`
	listJoiner = `(?:\s*,\s*(?:and\s+|or\s+|&\s*)?|\s+(?:and|or|&)\s+)`
)

// expression is one recognised surface form of a date expression.
type expression struct {
	name    string
	pattern string
	decode  func(m []string) []Date

	whole *regexp.Regexp
}

var (
	dayNumberRegex = regexp.MustCompile(`\d{1,2}`)

	// Order matters: at any offset the earliest form that matches wins.
	expressions = []expression{
		{
			name:    "iso_day",
			pattern: `\b(` + fullYear + `)-(\d{1,2})-(\d{1,2})\b`,
			decode:  func(m []string) []Date { return single(atoi(m[1]), atoi(m[2]), atoi(m[3])) },
		},
		{
			name:    "iso_month",
			pattern: `\b(` + fullYear + `)-(\d{1,2})\b`,
			decode:  func(m []string) []Date { return single(atoi(m[1]), atoi(m[2]), 0) },
		},
		{
			name:    "numeric_day",
			pattern: `\b(\d{1,2})/(\d{1,2})/(\d{4}|\d{2})\b`,
			decode:  func(m []string) []Date { return single(expandYear(m[3]), atoi(m[1]), atoi(m[2])) },
		},
		{
			name:    "numeric_month",
			pattern: `\b(\d{1,2})/(` + fullYear + `)\b`,
			decode:  func(m []string) []Date { return single(atoi(m[2]), atoi(m[1]), 0) },
		},
		{
			// Month first, as with slashes.
			name:    "dotted_day",
			pattern: `\b(\d{1,2})\.(\d{1,2})\.(` + fullYear + `)\b`,
			decode:  func(m []string) []Date { return single(atoi(m[3]), atoi(m[1]), atoi(m[2])) },
		},
		{
			name:    "month_day_list",
			pattern: `(?i)\b(` + monthNames + `)\s*(` + dayNumber +
				`(?:` + listJoiner + dayNumber + `)*),?\s+(` + fullYear + `)\b`,
			decode: func(m []string) []Date {
				month := lookupMonth(m[1])
				year := atoi(m[3])
				var out []Date
				for _, day := range dayNumberRegex.FindAllString(m[2], -1) {
					out = append(out, single(year, int(month), atoi(day))...)
				}
				return out
			},
		},
		{
			name:    "day_month",
			pattern: `(?i)\b(` + dayNumber + `)\s+(?:of\s+)?(` + monthNames +
				`),?\s+(` + fullYear + `)\b`,
			decode: func(m []string) []Date {
				return single(atoi(m[3]), int(lookupMonth(m[2])), atoi(dayNumberRegex.FindString(m[1])))
			},
		},
		{
			name:    "month_year",
			pattern: `(?i)\b(` + monthNames + `),?\s+(?:of\s+)?(` + fullYear + `)\b`,
			decode:  func(m []string) []Date { return single(atoi(m[2]), int(lookupMonth(m[1])), 0) },
		},
		{
			name:    "year",
			pattern: `\b(` + fullYear + `)\b`,
			decode:  func(m []string) []Date { return single(atoi(m[1]), 0, 0) },
		},
	}

	anyExpression = compileExpressions()
)

// compileExpressions anchors each form for Parse and joins them into a
// single alternation for Search.
func compileExpressions() *regexp.Regexp {
	parts := make([]string, len(expressions))
	for i := range expressions {
		expressions[i].whole = regexp.MustCompile(`^(?:` + expressions[i].pattern + `)$`)
		parts[i] = "(?:" + expressions[i].pattern + ")"
	}
	return regexp.MustCompile(strings.Join(parts, "|"))
}

// RegexParser is the default Parser. It is stateless and safe for
// concurrent use.
type RegexParser struct{}

// NewRegexParser creates a RegexParser.
func NewRegexParser() *RegexParser {
	return &RegexParser{}
}

// Parse interprets expr using the first surface form that matches it
// completely. Invalid calendar values (e.g. "2/30/2008") yield no dates.
func (p *RegexParser) Parse(expr string) []Date {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}
	for _, e := range expressions {
		if m := e.whole.FindStringSubmatch(expr); m != nil {
			return e.decode(m)
		}
	}
	return nil
}

// Search returns the first or last date expression in text.
func (p *RegexParser) Search(text string, which Occurrence) (string, bool) {
	if which == First {
		loc := anyExpression.FindStringIndex(text)
		if loc == nil {
			return "", false
		}
		return text[loc[0]:loc[1]], true
	}
	all := anyExpression.FindAllStringIndex(text, -1)
	if len(all) == 0 {
		return "", false
	}
	loc := all[len(all)-1]
	return text[loc[0]:loc[1]], true
}

// FindAll returns every date expression in text, in order.
func (p *RegexParser) FindAll(text string) []string {
	return anyExpression.FindAllString(text, -1)
}

// single wraps New, dropping invalid dates.
func single(year, month, day int) []Date {
	d, err := New(year, time.Month(month), day)
	if err != nil {
		return nil
	}
	return []Date{d}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// expandYear maps two-digit years onto 1950-2049.
func expandYear(s string) int {
	n := atoi(s)
	if len(s) != 2 {
		return n
	}
	if n < 50 {
		return 2000 + n
	}
	return 1900 + n
}

// lookupMonth resolves a month name or abbreviation.
func lookupMonth(name string) time.Month {
	key := strings.TrimSuffix(strings.ToLower(name), ".")
	if len(key) > 3 {
		key = key[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), key) {
			return m
		}
	}
	return 0
}

var (
	_ Parser  = (*RegexParser)(nil)
	_ Scanner = (*RegexParser)(nil)
)
