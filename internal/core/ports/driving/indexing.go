package driving

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// IndexingService builds and maintains the chunk index of videos.
type IndexingService interface {
	// IndexContent (re-)indexes one content stream of a video.
	// Existing chunks of that stream are deleted before the new ones are inserted.
	IndexContent(ctx context.Context, owner domain.OwnerKey, raw domain.RawContent) (*domain.IndexReport, error)

	// IndexVideo indexes every non-empty stream of a video independently.
	// A failing stream is reported in its IndexReport and does not stop the others.
	IndexVideo(ctx context.Context, owner domain.OwnerKey, content domain.VideoContent) ([]domain.IndexReport, error)

	// AppendConversation indexes a question/answer turn after the existing ones.
	AppendConversation(ctx context.Context, owner domain.OwnerKey, videoID string, turn domain.ConversationTurn) (*domain.IndexReport, error)

	// DeleteVideo removes every chunk of a video.
	DeleteVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (int, error)
}
