package driven

import (
	"context"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

// VideoCatalog answers membership questions about videos.
// Video, category and collection CRUD lives outside the core; search only
// needs these lookups to resolve secondary filters into video-id allow-lists.
// Videos are keyed by owner and id: two owners may register the same id.
type VideoCatalog interface {
	// VideoIDsForOwner returns every video owned by the principal.
	VideoIDsForOwner(ctx context.Context, owner domain.OwnerKey) ([]string, error)

	// VideoIDsInCategory returns the owner's videos in a category.
	VideoIDsInCategory(ctx context.Context, owner domain.OwnerKey, categoryID string) ([]string, error)

	// VideoIDsInCollection returns the owner's videos in a collection.
	VideoIDsInCollection(ctx context.Context, owner domain.OwnerKey, collectionID string) ([]string, error)

	// VideoIDsByFavorite returns the owner's videos whose favourite flag equals favorite.
	VideoIDsByFavorite(ctx context.Context, owner domain.OwnerKey, favorite bool) ([]string, error)

	// IsFavorite reports whether one of the owner's videos is marked favourite.
	IsFavorite(ctx context.Context, owner domain.OwnerKey, videoID string) (bool, error)
}

// VideoRegistry populates a catalog. Used by the CLI and HTTP adapters.
type VideoRegistry interface {
	// RegisterVideo inserts or updates a video.
	RegisterVideo(ctx context.Context, video domain.VideoRef) error

	// AddToCollection adds a video to a collection, creating the collection if needed.
	AddToCollection(ctx context.Context, owner domain.OwnerKey, collectionID, videoID string) error

	// GetVideo returns one of the owner's registered videos.
	GetVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (*domain.VideoRef, error)
}
