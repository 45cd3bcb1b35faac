package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

const chunkColumns = `id, owner_key, video_id, content_type, chunk_index, content, embedding, metadata, created_at`

// ChunkStore implements driven.ChunkStore on SQLite.
type ChunkStore struct {
	db *sql.DB
}

// Insert stores a single record.
func (s *ChunkStore) Insert(ctx context.Context, rec *domain.ChunkRecord) (string, error) {
	if err := s.insert(ctx, s.db, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// InsertBatch stores all records in one transaction.
func (s *ChunkStore) InsertBatch(ctx context.Context, recs []domain.ChunkRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for i := range recs {
		if err := s.insert(ctx, tx, &recs[i]); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *ChunkStore) insert(ctx context.Context, db execer, rec *domain.ChunkRecord) error {
	if err := rec.Owner.Validate(); err != nil {
		return err
	}
	if rec.Content == "" {
		return fmt.Errorf("%w: empty chunk content", domain.ErrInvalidInput)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	if rec.Metadata == nil {
		metaJSON = []byte("{}")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`, dimensions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Owner.StorageKey(), rec.VideoID, string(rec.ContentType), rec.ChunkIndex, rec.Content,
		float32SliceToBytes(rec.Embedding), string(metaJSON), rec.CreatedAt.UnixNano(), len(rec.Embedding))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: chunk %d of %s/%s", domain.ErrAlreadyExists, rec.ChunkIndex, rec.VideoID, rec.ContentType)
	}
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// DeleteByVideo removes every chunk of a video.
func (s *ChunkStore) DeleteByVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (int, error) {
	return s.delete(ctx, "owner_key = ? AND video_id = ?", owner.StorageKey(), videoID)
}

// DeleteByVideoAndType removes one content stream of a video.
func (s *ChunkStore) DeleteByVideoAndType(
	ctx context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType,
) (int, error) {
	return s.delete(ctx, "owner_key = ? AND video_id = ? AND content_type = ?",
		owner.StorageKey(), videoID, string(ct))
}

func (s *ChunkStore) delete(ctx context.Context, where string, args ...any) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted chunks: %w", err)
	}
	return int(n), nil
}

// Find returns matching records, newest first, capped at the filter limit.
func (s *ChunkStore) Find(ctx context.Context, filter domain.ChunkFilter) ([]domain.ChunkRecord, error) {
	if filter.MatchesNothing() {
		return []domain.ChunkRecord{}, nil
	}

	where, args := buildWhere(filter)
	query := "SELECT " + chunkColumns + " FROM chunks" + where +
		" ORDER BY created_at DESC, video_id, content_type, chunk_index LIMIT ?"
	args = append(args, filter.EffectiveLimit())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	out := make([]domain.ChunkRecord, 0)
	for rows.Next() {
		rec, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// buildWhere renders the filter as a WHERE clause with positional arguments.
func buildWhere(filter domain.ChunkFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Owner.Kind() != domain.OwnerNone {
		conds = append(conds, "owner_key = ?")
		args = append(args, filter.Owner.StorageKey())
	}
	if filter.VideoID != "" {
		conds = append(conds, "video_id = ?")
		args = append(args, filter.VideoID)
	}
	if len(filter.VideoIDs) > 0 {
		conds = append(conds, "video_id IN ("+placeholders(len(filter.VideoIDs))+")")
		for _, id := range filter.VideoIDs {
			args = append(args, id)
		}
	}
	if len(filter.ContentTypes) > 0 {
		conds = append(conds, "content_type IN ("+placeholders(len(filter.ContentTypes))+")")
		for _, ct := range filter.ContentTypes {
			args = append(args, string(ct))
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// NextChunkIndex returns one past the highest index of a stream.
func (s *ChunkStore) NextChunkIndex(
	ctx context.Context, owner domain.OwnerKey, videoID string, ct domain.ContentType,
) (int, error) {
	var next int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(chunk_index) + 1, 0) FROM chunks
		WHERE owner_key = ? AND video_id = ? AND content_type = ?
	`, owner.StorageKey(), videoID, string(ct)).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("querying next chunk index: %w", err)
	}
	return next, nil
}

// Close is a no-op; the owning Store closes the connection.
func (s *ChunkStore) Close() error {
	return nil
}

func scanChunk(rows *sql.Rows) (*domain.ChunkRecord, error) {
	var rec domain.ChunkRecord
	var ownerKey, contentType, metaJSON string
	var embedding []byte
	var createdAt int64

	if err := rows.Scan(&rec.ID, &ownerKey, &rec.VideoID, &contentType, &rec.ChunkIndex,
		&rec.Content, &embedding, &metaJSON, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	owner, err := domain.ParseOwnerKey(ownerKey)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", rec.ID, err)
	}
	rec.Owner = owner
	rec.ContentType = domain.ContentType(contentType)
	rec.Embedding = bytesToFloat32Slice(embedding)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()

	if err := json.Unmarshal([]byte(metaJSON), &rec.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata of chunk %s: %w", rec.ID, err)
	}
	return &rec, nil
}
