// Package sqlite provides a SQLite-based implementation of the chunk store,
// video catalog and search history ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. All stores share one database connection:
//
//   - ChunkStore: embedded chunk records, vectors stored as little-endian float32 BLOBs
//   - Catalog: videos, categories, favourites and collections
//   - History: recorded searches per owner
//
// SQLite has no vector operators, so ChunkStore does not implement
// driven.VectorSearcher and ranking happens in the search service.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.clipmind/data/clipmind.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
