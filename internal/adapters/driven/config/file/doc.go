// Package file provides the file-backed configuration adapters.
//
// Settings live in ~/.clipmind/config.toml, grouped into TOML tables by the
// first segment of their dotted key ([embedding], [storage], ...). Prompt
// templates live as plain text files in ~/.clipmind/prompts. Set
// CLIPMIND_HOME to move both.
package file
