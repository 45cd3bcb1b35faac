// Package normalisers provides implementations of the Normaliser interface,
// one per content type. Each normaliser turns raw content into plain text
// lines ready for the chunking pipeline; the transcript normaliser also
// records when each line was spoken.
//
// Notes and summaries may arrive as HTML from a rich-text editor; the html
// subpackage converts them to text first.
//
// Normalisers are registered with the Registry at startup.
package normalisers
