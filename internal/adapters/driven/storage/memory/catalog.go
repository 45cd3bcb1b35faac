package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/clipmind/internal/core/domain"
	"github.com/custodia-labs/clipmind/internal/core/ports/driven"
)

// Ensure Catalog implements the interfaces.
var (
	_ driven.VideoCatalog  = (*Catalog)(nil)
	_ driven.VideoRegistry = (*Catalog)(nil)
)

// videoKey scopes a video id to its owner.
type videoKey struct {
	owner string
	id    string
}

// Catalog is an in-memory video catalog.
type Catalog struct {
	mu          sync.RWMutex
	videos      map[videoKey]domain.VideoRef
	collections map[videoKey]map[string]struct{} // (owner, collection id) -> video ids
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		videos:      make(map[videoKey]domain.VideoRef),
		collections: make(map[videoKey]map[string]struct{}),
	}
}

func keyOf(owner domain.OwnerKey, id string) videoKey {
	return videoKey{owner: owner.StorageKey(), id: id}
}

// RegisterVideo inserts or updates one of the owner's videos.
func (c *Catalog) RegisterVideo(_ context.Context, video domain.VideoRef) error {
	if video.ID == "" {
		return domain.ErrInvalidInput
	}
	if err := video.Owner.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos[keyOf(video.Owner, video.ID)] = video
	return nil
}

// AddToCollection adds a registered video to one of the owner's collections.
func (c *Catalog) AddToCollection(_ context.Context, owner domain.OwnerKey, collectionID, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.videos[keyOf(owner, videoID)]; !ok {
		return domain.ErrNotFound
	}
	ck := keyOf(owner, collectionID)
	members, ok := c.collections[ck]
	if !ok {
		members = make(map[string]struct{})
		c.collections[ck] = members
	}
	members[videoID] = struct{}{}
	return nil
}

// GetVideo returns one of the owner's videos.
func (c *Catalog) GetVideo(_ context.Context, owner domain.OwnerKey, videoID string) (*domain.VideoRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.videos[keyOf(owner, videoID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

// VideoIDsForOwner returns every video owned by the principal.
func (c *Catalog) VideoIDsForOwner(_ context.Context, owner domain.OwnerKey) ([]string, error) {
	return c.where(owner, func(domain.VideoRef) bool { return true }), nil
}

// VideoIDsInCategory returns the owner's videos in a category.
func (c *Catalog) VideoIDsInCategory(_ context.Context, owner domain.OwnerKey, categoryID string) ([]string, error) {
	return c.where(owner, func(v domain.VideoRef) bool { return v.CategoryID == categoryID }), nil
}

// VideoIDsInCollection returns the owner's videos in a collection.
func (c *Catalog) VideoIDsInCollection(_ context.Context, owner domain.OwnerKey, collectionID string) ([]string, error) {
	c.mu.RLock()
	members := c.collections[keyOf(owner, collectionID)]
	c.mu.RUnlock()

	return c.where(owner, func(v domain.VideoRef) bool {
		_, in := members[v.ID]
		return in
	}), nil
}

// VideoIDsByFavorite returns the owner's videos whose favourite flag equals favorite.
func (c *Catalog) VideoIDsByFavorite(_ context.Context, owner domain.OwnerKey, favorite bool) ([]string, error) {
	return c.where(owner, func(v domain.VideoRef) bool { return v.IsFavorite == favorite }), nil
}

// IsFavorite reports whether one of the owner's videos is marked favourite.
func (c *Catalog) IsFavorite(_ context.Context, owner domain.OwnerKey, videoID string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.videos[keyOf(owner, videoID)]
	if !ok {
		return false, domain.ErrNotFound
	}
	return v.IsFavorite, nil
}

// where lists the owner's video ids that satisfy match, sorted.
func (c *Catalog) where(owner domain.OwnerKey, match func(domain.VideoRef) bool) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	storageKey := owner.StorageKey()
	ids := make([]string, 0)
	for k, v := range c.videos {
		if k.owner == storageKey && match(v) {
			ids = append(ids, k.id)
		}
	}
	sort.Strings(ids)
	return ids
}
