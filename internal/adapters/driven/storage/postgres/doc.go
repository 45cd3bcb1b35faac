// Package postgres provides a chunk store on PostgreSQL with the pgvector
// extension.
//
// Embeddings live in a vector(n) column and ranking happens in the database
// with the cosine distance operator, so the store implements
// driven.VectorSearcher as well as driven.ChunkStore. The driver is wrapped
// with otelsql for query tracing.
package postgres
