// Package evaluation scores system output against gold event dates.
//
// Strict measures count only exact date matches. Lenient measures also
// count fuzzy matches, where one date is a less precise form of the other
// (2008 and 2008-05-05, for example).
package evaluation
