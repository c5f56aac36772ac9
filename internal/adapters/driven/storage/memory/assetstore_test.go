package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

func saveAsset(t *testing.T, s *AssetStore, a domain.Asset) {
	t.Helper()
	require.NoError(t, s.Save(context.Background(), &a))
}

func TestAssetStore_Lookups(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStore()
	saveAsset(t, s, domain.Asset{
		ID: "a1", Hash: "deadbeef", StorageURN: "fs://local/photos/cat.jpg",
	})

	t.Run("by id", func(t *testing.T) {
		asset, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "a1", asset.ID)

		_, err = s.Get(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("by hash", func(t *testing.T) {
		asset, err := s.GetByHash(ctx, "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, "a1", asset.ID)

		_, err = s.GetByHash(ctx, "cafebabe")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("duplicate hashes resolve to the oldest record", func(t *testing.T) {
		dup := NewAssetStore()
		now := time.Now().UTC()
		saveAsset(t, dup, domain.Asset{ID: "newer", Hash: "feedface", CreatedAt: now})
		saveAsset(t, dup, domain.Asset{ID: "older", Hash: "feedface", CreatedAt: now.Add(-time.Hour)})

		asset, err := dup.GetByHash(ctx, "feedface")
		require.NoError(t, err)
		assert.Equal(t, "older", asset.ID)
	})

	t.Run("by locator", func(t *testing.T) {
		asset, err := s.GetByURN(ctx, "fs://local/photos/cat.jpg")
		require.NoError(t, err)
		assert.Equal(t, "a1", asset.ID)
	})

	t.Run("by locator prefix", func(t *testing.T) {
		assets, err := s.ListByURNPrefix(ctx, "fs://local/photos/")
		require.NoError(t, err)
		assert.Len(t, assets, 1)

		assets, err = s.ListByURNPrefix(ctx, "fs://local/other/")
		require.NoError(t, err)
		assert.Empty(t, assets)
	})

	t.Run("stored values are isolated from callers", func(t *testing.T) {
		asset, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		asset.Filename = "mutated.jpg"

		again, err := s.Get(ctx, "a1")
		require.NoError(t, err)
		assert.NotEqual(t, "mutated.jpg", again.Filename)
	})
}

func TestAssetStore_SearchText(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStore()
	now := time.Now().UTC()
	saveAsset(t, s, domain.Asset{
		ID: "both", Title: "beach sunset", AICaption: "a sunset over the beach",
		CreatedAt: now.Add(-2 * time.Hour),
	})
	saveAsset(t, s, domain.Asset{
		ID: "one", Title: "beach day", CreatedAt: now.Add(-time.Hour),
	})
	saveAsset(t, s, domain.Asset{
		ID: "tagged", Tags: []string{"sunset"}, CreatedAt: now,
	})
	saveAsset(t, s, domain.Asset{
		ID: "none", Title: "office desk", CreatedAt: now,
	})

	t.Run("more matched terms rank higher", func(t *testing.T) {
		ids, err := s.SearchText(ctx, "beach sunset", domain.AssetFilter{}, 10)
		require.NoError(t, err)
		require.Len(t, ids, 3)
		assert.Equal(t, "both", ids[0])
	})

	t.Run("equal scores break by recency", func(t *testing.T) {
		ids, err := s.SearchText(ctx, "sunset", domain.AssetFilter{}, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"tagged", "both"}, ids)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		ids, err := s.SearchText(ctx, "BEACH", domain.AssetFilter{}, 10)
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("empty query returns nothing", func(t *testing.T) {
		ids, err := s.SearchText(ctx, "   ", domain.AssetFilter{}, 10)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("limit truncates", func(t *testing.T) {
		ids, err := s.SearchText(ctx, "beach", domain.AssetFilter{}, 1)
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})
}

func TestAssetStore_Facets(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStore()
	saveAsset(t, s, domain.Asset{ID: "i1", AssetTypes: []string{"image"}, Tags: []string{"beach", "sun"}})
	saveAsset(t, s, domain.Asset{ID: "i2", AssetTypes: []string{"image"}, Tags: []string{"beach"}})
	saveAsset(t, s, domain.Asset{ID: "v1", AssetTypes: []string{"video"}})
	saveAsset(t, s, domain.Asset{ID: "o1"})

	facets, err := s.Facets(ctx, domain.AssetFilter{})
	require.NoError(t, err)

	assert.Equal(t, []domain.FacetBucket{
		{Value: "image", Count: 2},
		{Value: domain.TypeOther, Count: 1},
		{Value: "video", Count: 1},
	}, facets.AssetTypes)
	assert.Equal(t, []domain.FacetBucket{
		{Value: "beach", Count: 2},
		{Value: "sun", Count: 1},
	}, facets.Tags)
}

func TestAssetStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewAssetStore()
	now := time.Now().UTC()
	saveAsset(t, s, domain.Asset{ID: "old", OwnerID: "owner-1", CreatedAt: now.Add(-time.Hour)})
	saveAsset(t, s, domain.Asset{ID: "new", OwnerID: "owner-1", CreatedAt: now})
	saveAsset(t, s, domain.Asset{ID: "foreign", OwnerID: "owner-2", CreatedAt: now})

	t.Run("newest first", func(t *testing.T) {
		assets, err := s.List(ctx, domain.AssetFilter{OwnerID: "owner-1"}, 0)
		require.NoError(t, err)
		require.Len(t, assets, 2)
		assert.Equal(t, "new", assets[0].ID)
	})

	t.Run("count honours the filter", func(t *testing.T) {
		n, err := s.Count(ctx, domain.AssetFilter{OwnerID: "owner-2"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
