package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
	"github.com/custodia-labs/clipmind/internal/core/ports/driving"
	"github.com/custodia-labs/clipmind/internal/logger"
)

// Ensure IndexingService implements the interface.
var _ driving.IndexingService = (*IndexingService)(nil)

// IndexingService runs the write path: normalise, chunk, embed, store.
type IndexingService struct {
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder *EmbeddingGenerator
	store    driven.ChunkStore
	now      func() time.Time
}

// NewIndexingService creates a new indexing service.
func NewIndexingService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder *EmbeddingGenerator,
	store driven.ChunkStore,
) *IndexingService {
	return &IndexingService{
		registry: registry,
		pipeline: pipeline,
		embedder: embedder,
		store:    store,
		now:      time.Now,
	}
}

// IndexContent replaces one content stream of a video.
// Existing chunks of the stream are deleted before the new ones are inserted,
// so re-indexing the same content yields the same chunk set. Chunks whose
// embedding batch failed are left out and counted in the report.
func (s *IndexingService) IndexContent(
	ctx context.Context, owner domain.OwnerKey, raw domain.RawContent,
) (*domain.IndexReport, error) {
	if err := s.precheck(owner, raw.VideoID, raw.ContentType); err != nil {
		return nil, err
	}

	logger.Section("Indexing " + string(raw.ContentType))
	defer logger.Timed("index " + raw.VideoID + "/" + string(raw.ContentType))()

	chunks, err := s.chunk(ctx, &raw)
	if err != nil {
		return nil, err
	}

	report := &domain.IndexReport{
		VideoID:     raw.VideoID,
		ContentType: raw.ContentType,
		Chunks:      len(chunks),
	}

	records, failed, err := s.embed(ctx, owner, raw.VideoID, raw.ContentType, chunks, 0)
	if err != nil {
		return nil, err
	}
	report.FailedBatches = failed

	deleted, err := s.store.DeleteByVideoAndType(ctx, owner, raw.VideoID, raw.ContentType)
	if err != nil {
		return nil, fmt.Errorf("delete previous chunks: %w", err)
	}
	report.Deleted = deleted

	if len(records) > 0 {
		if err := s.store.InsertBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("insert chunks: %w", err)
		}
	}
	report.Indexed = len(records)

	logger.Info("Indexed %s/%s: %d of %d chunks (%d replaced, %d failed batches)",
		raw.VideoID, raw.ContentType, report.Indexed, report.Chunks, report.Deleted, report.FailedBatches)

	return report, nil
}

// IndexVideo indexes each non-empty stream of a video independently.
// A failing stream is reported in its IndexReport.Err and does not stop the others.
func (s *IndexingService) IndexVideo(
	ctx context.Context, owner domain.OwnerKey, video domain.VideoContent,
) ([]domain.IndexReport, error) {
	if err := s.precheck(owner, video.VideoID, domain.ContentTranscript); err != nil {
		return nil, err
	}

	streams := []struct {
		ct  domain.ContentType
		raw domain.RawContent
	}{
		{domain.ContentTranscript, video.Transcript},
		{domain.ContentSummary, video.Summary},
		{domain.ContentNote, video.Notes},
	}

	reports := make([]domain.IndexReport, 0, len(streams))
	for _, st := range streams {
		if len(strings.TrimSpace(string(st.raw.Content))) == 0 {
			continue
		}
		raw := st.raw
		raw.VideoID = video.VideoID
		raw.ContentType = st.ct

		report, err := s.IndexContent(ctx, owner, raw)
		if err != nil {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			logger.Warn("Indexing %s of %s failed: %v", st.ct, video.VideoID, err)
			reports = append(reports, domain.IndexReport{
				VideoID:     video.VideoID,
				ContentType: st.ct,
				Err:         err,
			})
			continue
		}
		reports = append(reports, *report)
	}

	return reports, nil
}

// AppendConversation indexes one Q&A turn after the existing conversation chunks.
// Nothing is deleted.
func (s *IndexingService) AppendConversation(
	ctx context.Context, owner domain.OwnerKey, videoID string, turn domain.ConversationTurn,
) (*domain.IndexReport, error) {
	if err := s.precheck(owner, videoID, domain.ContentConversation); err != nil {
		return nil, err
	}
	if strings.TrimSpace(turn.Question) == "" && strings.TrimSpace(turn.Answer) == "" {
		return nil, fmt.Errorf("%w: empty conversation turn", domain.ErrInvalidInput)
	}

	content, err := jsonTurn(turn)
	if err != nil {
		return nil, err
	}
	raw := domain.RawContent{
		VideoID:     videoID,
		ContentType: domain.ContentConversation,
		Format:      "json",
		Content:     content,
	}

	chunks, err := s.chunk(ctx, &raw)
	if err != nil {
		return nil, err
	}

	next, err := s.store.NextChunkIndex(ctx, owner, videoID, domain.ContentConversation)
	if err != nil {
		return nil, fmt.Errorf("next chunk index: %w", err)
	}

	records, failed, err := s.embed(ctx, owner, videoID, domain.ContentConversation, chunks, next)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		if err := s.store.InsertBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("insert chunks: %w", err)
		}
	}

	logger.Debug("Appended %d conversation chunks to %s at index %d", len(records), videoID, next)

	return &domain.IndexReport{
		VideoID:       videoID,
		ContentType:   domain.ContentConversation,
		Chunks:        len(chunks),
		Indexed:       len(records),
		FailedBatches: failed,
	}, nil
}

// DeleteVideo removes every chunk of a video.
func (s *IndexingService) DeleteVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (int, error) {
	if err := owner.Validate(); err != nil {
		return 0, err
	}
	if videoID == "" {
		return 0, fmt.Errorf("%w: video id required", domain.ErrInvalidInput)
	}
	if s.store == nil {
		return 0, domain.ErrStoreUnavailable
	}

	n, err := s.store.DeleteByVideo(ctx, owner, videoID)
	if err != nil {
		return 0, fmt.Errorf("delete video %s: %w", videoID, err)
	}
	logger.Info("Deleted %d chunks of %s", n, videoID)
	return n, nil
}

// precheck validates the request and fails fast when a dependency is missing,
// before any provider or store call.
func (s *IndexingService) precheck(owner domain.OwnerKey, videoID string, ct domain.ContentType) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if videoID == "" {
		return fmt.Errorf("%w: video id required", domain.ErrInvalidInput)
	}
	if !ct.IsValid() {
		return fmt.Errorf("%w: content type %q", domain.ErrUnsupportedType, ct)
	}
	if !s.embedder.Available() {
		return domain.ErrEmbeddingUnavailable
	}
	if s.store == nil {
		return domain.ErrStoreUnavailable
	}
	return nil
}

// chunk normalises raw content and runs the post-processing pipeline.
func (s *IndexingService) chunk(ctx context.Context, raw *domain.RawContent) ([]driven.Chunk, error) {
	normalised, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.ContentType, err)
	}

	chunks, err := s.pipeline.Process(ctx, normalised)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", raw.ContentType, err)
	}
	logger.Debug("%s: %d lines, %d chunks", raw.ContentType, normalised.LineCount, len(chunks))

	return chunks, nil
}

// embed generates vectors for chunks and builds records for the ones that
// succeeded. Indexes start at offset and keep their original positions, so a
// failed batch leaves a gap rather than shifting later chunks.
func (s *IndexingService) embed(
	ctx context.Context,
	owner domain.OwnerKey,
	videoID string,
	ct domain.ContentType,
	chunks []driven.Chunk,
	offset int,
) ([]domain.ChunkRecord, int, error) {
	if len(chunks) == 0 {
		return nil, 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	run, err := s.embedder.EmbedAll(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("embed chunks: %w", err)
	}

	createdAt := s.now().UTC()
	records := make([]domain.ChunkRecord, 0, run.Embedded())
	for i, c := range chunks {
		if run.Vectors[i] == nil {
			continue
		}
		meta := make(map[string]any, len(c.Metadata)+1)
		maps.Copy(meta, c.Metadata)
		meta[domain.MetaCreatedAt] = createdAt.Format(time.RFC3339)

		records = append(records, domain.ChunkRecord{
			Owner:       owner,
			VideoID:     videoID,
			ContentType: ct,
			ChunkIndex:  offset + c.Index,
			Content:     c.Content,
			Embedding:   run.Vectors[i],
			Metadata:    meta,
			CreatedAt:   createdAt,
		})
	}

	return records, len(run.Failures), nil
}

func jsonTurn(turn domain.ConversationTurn) ([]byte, error) {
	b, err := json.Marshal(turn)
	if err != nil {
		return nil, fmt.Errorf("encode conversation turn: %w", err)
	}
	return b, nil
}
