package extraction

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// windowKey identifies a keyword by lowercased text and position. The same
// text may be configured for both positions with different windows.
type windowKey struct {
	text     string
	position Position
}

// matcher finds every keyword of one position in a text.
type matcher struct {
	position Position
	regex    *regexp.Regexp
	windows  map[windowKey]int
}

// match is one keyword occurrence at text[start:end].
type match struct {
	start, end int
	window     int
}

// newMatcher builds a single alternation over keywords, which must all
// share position. Returns nil when keywords is empty.
func newMatcher(position Position, keywords []Keyword) *matcher {
	if len(keywords) == 0 {
		return nil
	}

	windows := make(map[windowKey]int, len(keywords))
	texts := make([]string, 0, len(keywords))
	for _, k := range keywords {
		key := windowKey{text: strings.ToLower(k.Text), position: position}
		if _, seen := windows[key]; !seen {
			texts = append(texts, k.Text)
		}
		windows[key] = k.Window
	}

	// Leftmost-first alternation: try longer literals first so a keyword
	// never shadows a longer one it prefixes.
	sort.SliceStable(texts, func(i, j int) bool {
		return len(texts[i]) > len(texts[j])
	})

	alts := make([]string, len(texts))
	for i, t := range texts {
		alts[i] = caseInsensitive(t)
	}

	return &matcher{
		position: position,
		regex:    regexp.MustCompile(strings.Join(alts, "|")),
		windows:  windows,
	}
}

// find returns every non-overlapping keyword occurrence in text.
func (m *matcher) find(text string) []match {
	locs := m.regex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]match, 0, len(locs))
	for _, loc := range locs {
		key := windowKey{text: strings.ToLower(text[loc[0]:loc[1]]), position: m.position}
		window, ok := m.windows[key]
		if !ok {
			window = DefaultWindow
		}
		out = append(out, match{start: loc[0], end: loc[1], window: window})
	}
	return out
}

// caseInsensitive quotes literal and replaces every cased letter with a
// class matching both cases, e.g. "Dx" becomes "[dD][xX]".
func caseInsensitive(literal string) string {
	var b strings.Builder
	for _, r := range literal {
		lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
		if lower == upper {
			b.WriteString(regexp.QuoteMeta(string(r)))
			continue
		}
		b.WriteByte('[')
		b.WriteRune(lower)
		b.WriteRune(upper)
		b.WriteByte(']')
	}
	return b.String()
}
