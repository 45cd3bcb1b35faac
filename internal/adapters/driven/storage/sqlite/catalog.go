package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure Catalog implements the interfaces.
var (
	_ driven.VideoCatalog  = (*Catalog)(nil)
	_ driven.VideoRegistry = (*Catalog)(nil)
)

// Catalog implements the video catalog and registry on SQLite.
type Catalog struct {
	db *sql.DB
}

// RegisterVideo inserts or updates one of the owner's videos.
func (c *Catalog) RegisterVideo(ctx context.Context, video domain.VideoRef) error {
	if video.ID == "" {
		return fmt.Errorf("%w: video id required", domain.ErrInvalidInput)
	}
	if err := video.Owner.Validate(); err != nil {
		return err
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO videos (id, owner_key, title, category_id, is_favorite, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(owner_key, id) DO UPDATE SET
			title = excluded.title,
			category_id = excluded.category_id,
			is_favorite = excluded.is_favorite,
			updated_at = CURRENT_TIMESTAMP
	`, video.ID, video.Owner.StorageKey(), video.Title, video.CategoryID, video.IsFavorite)
	if err != nil {
		return fmt.Errorf("saving video: %w", err)
	}
	return nil
}

// AddToCollection adds one of the owner's videos to a collection.
func (c *Catalog) AddToCollection(ctx context.Context, owner domain.OwnerKey, collectionID, videoID string) error {
	if collectionID == "" {
		return fmt.Errorf("%w: collection id required", domain.ErrInvalidInput)
	}

	var exists int
	err := c.db.QueryRowContext(ctx,
		"SELECT 1 FROM videos WHERE owner_key = ? AND id = ?", owner.StorageKey(), videoID,
	).Scan(&exists)
	if err != nil {
		return notFound(err)
	}

	_, err = c.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO collection_videos (owner_key, collection_id, video_id) VALUES (?, ?, ?)",
		owner.StorageKey(), collectionID, videoID)
	if err != nil {
		return fmt.Errorf("adding to collection: %w", err)
	}
	return nil
}

// GetVideo returns one of the owner's videos.
func (c *Catalog) GetVideo(ctx context.Context, owner domain.OwnerKey, videoID string) (*domain.VideoRef, error) {
	v := domain.VideoRef{Owner: owner}
	err := c.db.QueryRowContext(ctx,
		"SELECT id, title, category_id, is_favorite FROM videos WHERE owner_key = ? AND id = ?",
		owner.StorageKey(), videoID,
	).Scan(&v.ID, &v.Title, &v.CategoryID, &v.IsFavorite)
	if err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// VideoIDsForOwner returns every video owned by the principal.
func (c *Catalog) VideoIDsForOwner(ctx context.Context, owner domain.OwnerKey) ([]string, error) {
	return c.ids(ctx, "SELECT id FROM videos WHERE owner_key = ? ORDER BY id", owner.StorageKey())
}

// VideoIDsInCategory returns the owner's videos in a category.
func (c *Catalog) VideoIDsInCategory(ctx context.Context, owner domain.OwnerKey, categoryID string) ([]string, error) {
	return c.ids(ctx, "SELECT id FROM videos WHERE owner_key = ? AND category_id = ? ORDER BY id",
		owner.StorageKey(), categoryID)
}

// VideoIDsInCollection returns the owner's videos in a collection.
func (c *Catalog) VideoIDsInCollection(ctx context.Context, owner domain.OwnerKey, collectionID string) ([]string, error) {
	return c.ids(ctx, `
		SELECT v.id FROM videos v
		JOIN collection_videos cv ON cv.owner_key = v.owner_key AND cv.video_id = v.id
		WHERE v.owner_key = ? AND cv.collection_id = ?
		ORDER BY v.id
	`, owner.StorageKey(), collectionID)
}

// VideoIDsByFavorite returns the owner's videos whose favourite flag equals favorite.
func (c *Catalog) VideoIDsByFavorite(ctx context.Context, owner domain.OwnerKey, favorite bool) ([]string, error) {
	return c.ids(ctx, "SELECT id FROM videos WHERE owner_key = ? AND is_favorite = ? ORDER BY id",
		owner.StorageKey(), favorite)
}

// IsFavorite reports whether one of the owner's videos is marked favourite.
func (c *Catalog) IsFavorite(ctx context.Context, owner domain.OwnerKey, videoID string) (bool, error) {
	var fav bool
	err := c.db.QueryRowContext(ctx,
		"SELECT is_favorite FROM videos WHERE owner_key = ? AND id = ?", owner.StorageKey(), videoID,
	).Scan(&fav)
	if err != nil {
		return false, notFound(err)
	}
	return fav, nil
}

func (c *Catalog) ids(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying videos: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning video id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
