package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// cutoffRegex finds sentence boundaries and stop markers. Groups:
// 1 period, 2 letter before a comma, 3 "dmitted", 4 colon field.
var cutoffRegex = regexp.MustCompile(`(\.)(?:\s|$)|([a-z]),|(dmitted)|([A-Za-z]+:)`)

// Abbreviations whose trailing period does not end a sentence.
var abbreviations = map[string]bool{
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
	"dr": true, "mr": true, "mrs": true, "ms": true, "vs": true, "approx": true,
}

// Words that may precede a comma inside a date expression.
var monthWords = map[string]bool{
	"january": true, "february": true, "march": true, "april": true, "may": true,
	"june": true, "july": true, "august": true, "september": true, "october": true,
	"november": true, "december": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "jun": true, "jul": true,
	"aug": true, "sep": true, "sept": true, "oct": true, "nov": true, "dec": true,
}

var ordinalRegex = regexp.MustCompile(`^\d{1,2}(?:st|nd|rd|th)$`)

// cutoff is a boundary at text[start:end]. Text before start belongs to the
// preceding sentence, text from end on to the following one.
type cutoff struct {
	start, end int
}

// findCutoffs returns the boundaries in s in order.
func findCutoffs(s string) []cutoff {
	var out []cutoff
	for _, m := range cutoffRegex.FindAllStringSubmatchIndex(s, -1) {
		switch {
		case m[2] >= 0:
			if abbreviations[strings.ToLower(wordBefore(s, m[2]))] {
				continue
			}
			out = append(out, cutoff{start: m[2], end: m[1]})
		case m[4] >= 0:
			word := strings.ToLower(wordBefore(s, m[5]))
			if monthWords[word] || ordinalRegex.MatchString(word) {
				continue
			}
			out = append(out, cutoff{start: m[5], end: m[1]})
		default:
			out = append(out, cutoff{start: m[0], end: m[1]})
		}
	}
	return out
}

// wordBefore returns the run of letters and digits ending at s[i].
func wordBefore(s string, i int) string {
	j := i
	for j > 0 {
		c := s[j-1]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			break
		}
		j--
	}
	return s[j:i]
}

// preDateRegion returns the part of the window following a PRE-DATE
// keyword at text[start:end] that is searched for a date: from the keyword
// up to the first boundary after it.
func preDateRegion(text string, start, end, window int) string {
	limit := clampEnd(text, end+window)
	region := text[start:limit]
	kwLen := end - start
	for _, c := range findCutoffs(region) {
		if c.start >= kwLen {
			return region[:c.start]
		}
	}
	return region
}

// postDateRegion returns the part of the window preceding a POST-DATE
// keyword at text[start:end] that is searched for a date: from the last
// boundary before the keyword up to the keyword's end.
func postDateRegion(text string, start, end, window int) string {
	from := clampStart(text, start-window)
	region := text[from:end]
	kwStart := start - from
	cut := 0
	for _, c := range findCutoffs(region) {
		if c.end > kwStart {
			break
		}
		cut = c.end
	}
	return region[cut:]
}

// clampStart bounds i to the text and moves it forward onto a rune start.
func clampStart(text string, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(text) {
		return len(text)
	}
	for i < len(text) && !utf8.RuneStart(text[i]) {
		i++
	}
	return i
}

// clampEnd bounds i to the text and moves it back onto a rune start.
func clampEnd(text string, i int) int {
	if i >= len(text) {
		return len(text)
	}
	if i <= 0 {
		return 0
	}
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}
