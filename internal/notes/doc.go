// Package notes reads and writes the flat tab-delimited files exchanged with
// the extraction pipeline: clinic notes, keyword lists, gold dates and
// system output.
//
// Malformed lines are logged at Warn and skipped; only I/O errors are
// returned. Note and keyword text is normalised to Unicode NFC on load so
// that keyword matching sees composed characters on both sides.
package notes
