package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testAsset(id string) *domain.Asset {
	a := &domain.Asset{
		ID:         id,
		OwnerID:    "owner-1",
		Filename:   id + ".jpg",
		StorageURN: "fs://local/photos/" + id + ".jpg",
		Size:       1024,
		MIMEType:   "image/jpeg",
		Hash:       "hash-" + id,
		AssetTypes: []string{"image"},
		Status:     domain.StatusReady,
		Visibility: "private",
		Tags:       []string{"holiday", "beach"},
		AITags:     []domain.AITag{{Label: "sand", Confidence: 0.8}},
		Vectors:    map[string][]float32{domain.VectorCLIP: {0.1, 0.2}},
		Metadata:   map[string]any{"image": map[string]any{"width": float64(800)}},
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	a.EnsureMaps()
	return a
}

func TestStore_Migrations(t *testing.T) {
	t.Run("a fresh database migrates cleanly", func(t *testing.T) {
		newTestStore(t)
	})

	t.Run("reopening the same database is idempotent", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(dir)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		again, err := NewStore(dir)
		require.NoError(t, err)
		assert.NoError(t, again.Close())
	})
}

func TestAssetStore_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get round-trip all fields", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		original := testAsset("a1")
		require.NoError(t, assets.Save(ctx, original))

		got, err := assets.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, original.Filename, got.Filename)
		assert.Equal(t, original.Hash, got.Hash)
		assert.Equal(t, original.AssetTypes, got.AssetTypes)
		assert.Equal(t, original.Tags, got.Tags)
		assert.Equal(t, original.AITags, got.AITags)
		assert.Equal(t, original.Vectors, got.Vectors)
		assert.Equal(t, domain.StatusReady, got.Status)
	})

	t.Run("save increments the version", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		asset := testAsset("a1")
		require.NoError(t, assets.Save(ctx, asset))
		require.NoError(t, assets.Save(ctx, asset))

		got, err := assets.Get(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("lookups by hash and locator", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		require.NoError(t, assets.Save(ctx, testAsset("a1")))

		byHash, err := assets.GetByHash(ctx, "hash-a1")
		require.NoError(t, err)
		assert.Equal(t, "a1", byHash.ID)

		byURN, err := assets.GetByURN(ctx, "fs://local/photos/a1.jpg")
		require.NoError(t, err)
		assert.Equal(t, "a1", byURN.ID)

		_, err = assets.GetByHash(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list filters and orders by recency", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		old := testAsset("old")
		old.CreatedAt = time.Now().UTC().Add(-time.Hour)
		require.NoError(t, assets.Save(ctx, old))
		require.NoError(t, assets.Save(ctx, testAsset("new")))
		foreign := testAsset("foreign")
		foreign.OwnerID = "owner-2"
		require.NoError(t, assets.Save(ctx, foreign))

		listed, err := assets.List(ctx, domain.AssetFilter{OwnerID: "owner-1"}, 10)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "new", listed[0].ID)
	})

	t.Run("type and tag filters go through the json columns", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		require.NoError(t, assets.Save(ctx, testAsset("img")))
		video := testAsset("vid")
		video.AssetTypes = []string{"video"}
		video.Tags = []string{"work"}
		require.NoError(t, assets.Save(ctx, video))

		byType, err := assets.List(ctx, domain.AssetFilter{AssetTypes: []string{"video"}}, 10)
		require.NoError(t, err)
		require.Len(t, byType, 1)
		assert.Equal(t, "vid", byType[0].ID)

		byTag, err := assets.List(ctx, domain.AssetFilter{Tags: []string{"beach"}}, 10)
		require.NoError(t, err)
		require.Len(t, byTag, 1)
		assert.Equal(t, "img", byTag[0].ID)
	})

	t.Run("locator prefix listing escapes like wildcards", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		require.NoError(t, assets.Save(ctx, testAsset("a1")))
		other := testAsset("other")
		other.StorageURN = "fs://local/elsewhere/other.jpg"
		require.NoError(t, assets.Save(ctx, other))

		listed, err := assets.ListByURNPrefix(ctx, "fs://local/photos/")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "a1", listed[0].ID)

		listed, err = assets.ListByURNPrefix(ctx, "fs://local/photos/%")
		require.NoError(t, err)
		assert.Empty(t, listed, "a literal percent matches nothing")
	})

	t.Run("text search scores term hits", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		both := testAsset("both")
		both.Title = "beach sunset"
		require.NoError(t, assets.Save(ctx, both))
		one := testAsset("one")
		one.Title = "sunset drive"
		one.Tags = []string{"work"}
		require.NoError(t, assets.Save(ctx, one))
		miss := testAsset("miss")
		miss.Filename = "desk.jpg"
		miss.Tags = []string{"work"}
		require.NoError(t, assets.Save(ctx, miss))

		ids, err := assets.SearchText(ctx, "beach sunset", domain.AssetFilter{}, 10)
		require.NoError(t, err)
		require.NotEmpty(t, ids)
		assert.Equal(t, "both", ids[0])
		assert.NotContains(t, ids, "miss")
	})

	t.Run("facets bucket types and tags", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		require.NoError(t, assets.Save(ctx, testAsset("a1")))
		require.NoError(t, assets.Save(ctx, testAsset("a2")))

		facets, err := assets.Facets(ctx, domain.AssetFilter{})
		require.NoError(t, err)
		require.Len(t, facets.AssetTypes, 1)
		assert.Equal(t, domain.FacetBucket{Value: "image", Count: 2}, facets.AssetTypes[0])
		assert.Len(t, facets.Tags, 2)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		assets := newTestStore(t).AssetStore()
		require.NoError(t, assets.Save(ctx, testAsset("a1")))
		require.NoError(t, assets.Delete(ctx, "a1"))

		_, err := assets.Get(ctx, "a1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLinkStore_SQLite(t *testing.T) {
	ctx := context.Background()

	testLink := func(id, source, target string) *domain.Link {
		return &domain.Link{
			ID:        id,
			SourceID:  source,
			TargetID:  target,
			Relation:  domain.RelationVisuallySimilar,
			Weight:    0.9,
			Metadata:  map[string]any{domain.LinkMetaMethod: "multi_vector_fusion"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("save twice upserts on the tuple", func(t *testing.T) {
		links := newTestStore(t).LinkStore()
		require.NoError(t, links.Save(ctx, testLink("l1", "a", "b")))
		update := testLink("l2", "a", "b")
		update.Weight = 0.95
		require.NoError(t, links.Save(ctx, update))

		listed, err := links.ListBySource(ctx, "a")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, 0.95, listed[0].Weight)
	})

	t.Run("exists and neighbours", func(t *testing.T) {
		links := newTestStore(t).LinkStore()
		require.NoError(t, links.Save(ctx, testLink("l1", "a", "b")))
		require.NoError(t, links.Save(ctx, testLink("l2", "c", "a")))

		ok, err := links.Exists(ctx, "a", "b", domain.RelationVisuallySimilar)
		require.NoError(t, err)
		assert.True(t, ok)

		neighbours, err := links.Neighbors(ctx, []string{"a"})
		require.NoError(t, err)
		assert.Len(t, neighbours, 2)
	})

	t.Run("delete by asset counts both directions", func(t *testing.T) {
		links := newTestStore(t).LinkStore()
		require.NoError(t, links.Save(ctx, testLink("l1", "a", "b")))
		require.NoError(t, links.Save(ctx, testLink("l2", "c", "a")))
		require.NoError(t, links.Save(ctx, testLink("l3", "x", "y")))

		removed, err := links.DeleteByAsset(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 2, removed)
	})
}

func TestAlbumStore_SQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trip with members", func(t *testing.T) {
		albums := newTestStore(t).AlbumStore()
		album := &domain.Album{
			ID:        "alb-1",
			OwnerID:   "owner-1",
			Title:     "Holidays",
			AssetIDs:  []string{"a1", "a2"},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
		require.NoError(t, albums.Save(ctx, album))

		got, err := albums.Get(ctx, "alb-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2"}, got.AssetIDs)
	})

	t.Run("list by member asset", func(t *testing.T) {
		albums := newTestStore(t).AlbumStore()
		require.NoError(t, albums.Save(ctx, &domain.Album{
			ID: "alb-1", OwnerID: "owner-1", Title: "With", AssetIDs: []string{"a1"},
		}))
		require.NoError(t, albums.Save(ctx, &domain.Album{
			ID: "alb-2", OwnerID: "owner-1", Title: "Without",
		}))

		listed, err := albums.ListByAsset(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "alb-1", listed[0].ID)
	})

	t.Run("list children", func(t *testing.T) {
		albums := newTestStore(t).AlbumStore()
		require.NoError(t, albums.Save(ctx, &domain.Album{ID: "root", OwnerID: "owner-1", Title: "Root"}))
		require.NoError(t, albums.Save(ctx, &domain.Album{ID: "child", OwnerID: "owner-1", Title: "Child", ParentID: "root"}))

		listed, err := albums.ListChildren(ctx, "root")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "child", listed[0].ID)
	})
}
