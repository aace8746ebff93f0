// Package extraction finds candidate event dates in clinical notes using
// keyword proximity.
//
// Each Keyword anchors a window of text either after it (PreDate: the
// keyword precedes the date, as in "diagnosed on May 5, 2008") or before it
// (PostDate: the date precedes the keyword, as in "In 2008 she was
// diagnosed"). The window is cut back to the nearest sentence boundary or
// stop marker and the closest date expression in what remains is parsed.
//
// # Usage
//
//	x := extraction.NewExtractor(keywords,
//	    extraction.WithLogger(logger),
//	)
//	candidates := x.Extract(ctx, notes)
//
// Extraction never deduplicates; every matched window contributes its own
// unscored candidates. Reranking collapses them.
//
// NaiveExtractor turns every date expression in every note into a
// candidate. It is useful as a recall ceiling when evaluating keywords.
package extraction
