package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clipmind/internal/core/domain"
)

func TestVideoAddCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := run(t, "", "--user", "3", "video", "add", "v1", "--title", "Go Talk", "--category", "talks", "--favorite")

	require.NoError(t, err)
	assert.Contains(t, out, "Registered v1")
	v, err := ts.catalog.GetVideo(context.Background(), domain.UserOwner(3), "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserOwner(3), v.Owner)
	assert.Equal(t, "Go Talk", v.Title)
	assert.Equal(t, "talks", v.CategoryID)
	assert.True(t, v.IsFavorite)
}

func TestVideoAddCmd_SameIDOtherOwner(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()
	require.NoError(t, ts.catalog.RegisterVideo(ctx,
		domain.VideoRef{ID: "v1", Owner: domain.UserOwner(1), Title: "First"}))

	_, err := run(t, "", "--user", "2", "video", "add", "v1", "--title", "Second")
	require.NoError(t, err)

	first, err := ts.catalog.GetVideo(ctx, domain.UserOwner(1), "v1")
	require.NoError(t, err)
	assert.Equal(t, "First", first.Title)

	second, err := ts.catalog.GetVideo(ctx, domain.UserOwner(2), "v1")
	require.NoError(t, err)
	assert.Equal(t, "Second", second.Title)
}

func TestCollectionAddCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()
	owner := domain.UserOwner(3)
	require.NoError(t, ts.catalog.RegisterVideo(ctx, domain.VideoRef{ID: "v1", Owner: owner}))

	out, err := run(t, "", "--user", "3", "collection", "add", "picks", "v1")

	require.NoError(t, err)
	assert.Contains(t, out, "Added v1 to picks")
	ids, err := ts.catalog.VideoIDsInCollection(ctx, owner, "picks")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, ids)
}

func TestCollectionAddCmd_Unregistered(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := run(t, "", "--user", "3", "collection", "add", "picks", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestHistoryCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	owner := domain.UserOwner(3)
	fav := true
	for _, q := range []string{"first", "second"} {
		require.NoError(t, ts.history.Record(context.Background(), domain.SearchHistoryEntry{
			Owner: owner, Query: q, ResultCount: 2, CreatedAt: 1700000000,
			Filters: domain.SearchFilters{VideoID: "v1", IsFavorite: &fav},
		}))
	}

	out, err := run(t, "", "--user", "3", "history", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, `"second"`)
	assert.NotContains(t, out, `"first"`)
	assert.Contains(t, out, "[video=v1 favorite=true]")
}

func TestHistoryCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := run(t, "", "--user", "3", "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No searches yet.")
}

func TestDescribeFilters(t *testing.T) {
	assert.Empty(t, describeFilters(domain.SearchFilters{}))
	assert.Equal(t, "  [type=summary category=c collection=k]", describeFilters(domain.SearchFilters{
		ContentTypes: []domain.ContentType{domain.ContentSummary}, CategoryID: "c", CollectionID: "k",
	}))
}
