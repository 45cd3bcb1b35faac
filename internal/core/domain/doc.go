// Package domain defines the core business entities for clipmind.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - OwnerKey: The principal (user or anonymous session) that owns content
//   - ChunkRecord: A searchable, embedded unit of a video's content
//   - SearchResult: A ranked chunk with its similarity score
//   - Citation: A resolved link from an answer marker back to a chunk
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
