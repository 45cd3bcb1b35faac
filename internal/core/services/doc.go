// Package services implements the driving port interfaces.
// Services hold the indexing, retrieval and answering logic and
// orchestrate calls to driven ports (adapters).
//
// Nothing here talks to a provider, database or network directly.
package services
