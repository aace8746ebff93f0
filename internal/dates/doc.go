// Package dates models calendar dates of partial precision and recognises
// date expressions in free text.
//
// A Date is one of three variants:
//   - Year: only the year is known ("2008")
//   - YearMonth: year and month are known ("May 2008")
//   - FullDate: year, month and day are known ("May 5, 2008")
//
// Two dates fuzzy-match when every field known on the coarser one agrees with
// the finer one, so Year{2008} fuzzy-matches YearMonth{2008, May} and any
// FullDate in 2008.
//
// # Parsing
//
// The Parser interface is the capability the extractor consumes. RegexParser
// is the default implementation; it recognises ISO dates, US numeric dates,
// month-name dates and coordinated lists such as "May 3 and 5, 2008".
package dates
