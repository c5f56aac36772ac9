package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/adapters/driven/storage/memory"
	"github.com/Sanali209/webos-dam/internal/core/domain"
)

type albumFixture struct {
	service *AlbumService
	albums  *memory.AlbumStore
	assets  *memory.AssetStore
}

func newAlbumFixture(t *testing.T) *albumFixture {
	t.Helper()
	f := &albumFixture{
		albums: memory.NewAlbumStore(),
		assets: memory.NewAssetStore(),
	}
	f.service = NewAlbumService(f.albums, f.assets)
	return f
}

func (f *albumFixture) seedAsset(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, f.assets.Save(context.Background(), &domain.Asset{
		ID:        id,
		Filename:  id + ".jpg",
		CreatedAt: time.Now().UTC(),
	}))
}

func TestAlbumService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a root album", func(t *testing.T) {
		f := newAlbumFixture(t)

		album, err := f.service.Create(ctx, "Holidays", "owner-1", "")
		require.NoError(t, err)

		assert.NotEmpty(t, album.ID)
		assert.Equal(t, "Holidays", album.Title)
		assert.Empty(t, album.ParentID)
	})

	t.Run("creates a nested album", func(t *testing.T) {
		f := newAlbumFixture(t)
		parent, err := f.service.Create(ctx, "Holidays", "owner-1", "")
		require.NoError(t, err)

		child, err := f.service.Create(ctx, "2026", "owner-1", parent.ID)
		require.NoError(t, err)
		assert.Equal(t, parent.ID, child.ParentID)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		f := newAlbumFixture(t)

		_, err := f.service.Create(ctx, "Orphan", "owner-1", "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		f := newAlbumFixture(t)

		_, err := f.service.Create(ctx, "", "owner-1", "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestAlbumService_Membership(t *testing.T) {
	ctx := context.Background()

	t.Run("add preserves order and skips duplicates", func(t *testing.T) {
		f := newAlbumFixture(t)
		f.seedAsset(t, "a1")
		f.seedAsset(t, "a2")
		album, err := f.service.Create(ctx, "Mix", "owner-1", "")
		require.NoError(t, err)

		require.NoError(t, f.service.AddAsset(ctx, album.ID, "a1"))
		require.NoError(t, f.service.AddAsset(ctx, album.ID, "a2"))
		require.NoError(t, f.service.AddAsset(ctx, album.ID, "a1"))

		stored, err := f.albums.Get(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2"}, stored.AssetIDs)
	})

	t.Run("adding an unknown asset fails", func(t *testing.T) {
		f := newAlbumFixture(t)
		album, err := f.service.Create(ctx, "Mix", "owner-1", "")
		require.NoError(t, err)

		assert.ErrorIs(t, f.service.AddAsset(ctx, album.ID, "ghost"), domain.ErrNotFound)
	})

	t.Run("remove keeps the remaining order", func(t *testing.T) {
		f := newAlbumFixture(t)
		for _, id := range []string{"a1", "a2", "a3"} {
			f.seedAsset(t, id)
		}
		album, err := f.service.Create(ctx, "Mix", "owner-1", "")
		require.NoError(t, err)
		for _, id := range []string{"a1", "a2", "a3"} {
			require.NoError(t, f.service.AddAsset(ctx, album.ID, id))
		}

		require.NoError(t, f.service.RemoveAsset(ctx, album.ID, "a2"))

		stored, err := f.albums.Get(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a3"}, stored.AssetIDs)
	})

	t.Run("cover must be a member", func(t *testing.T) {
		f := newAlbumFixture(t)
		f.seedAsset(t, "a1")
		f.seedAsset(t, "outsider")
		album, err := f.service.Create(ctx, "Mix", "owner-1", "")
		require.NoError(t, err)
		require.NoError(t, f.service.AddAsset(ctx, album.ID, "a1"))

		assert.ErrorIs(t, f.service.SetCover(ctx, album.ID, "outsider"), domain.ErrInvalidInput)

		require.NoError(t, f.service.SetCover(ctx, album.ID, "a1"))
		stored, err := f.albums.Get(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, "a1", stored.CoverAssetID)
	})
}

func TestAlbumService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("children re-parent to the grandparent", func(t *testing.T) {
		f := newAlbumFixture(t)
		grand, err := f.service.Create(ctx, "Root", "owner-1", "")
		require.NoError(t, err)
		parent, err := f.service.Create(ctx, "Middle", "owner-1", grand.ID)
		require.NoError(t, err)
		child, err := f.service.Create(ctx, "Leaf", "owner-1", parent.ID)
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, parent.ID))

		_, err = f.albums.Get(ctx, parent.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		stored, err := f.albums.Get(ctx, child.ID)
		require.NoError(t, err)
		assert.Equal(t, grand.ID, stored.ParentID)
	})

	t.Run("member assets survive album deletion", func(t *testing.T) {
		f := newAlbumFixture(t)
		f.seedAsset(t, "a1")
		album, err := f.service.Create(ctx, "Mix", "owner-1", "")
		require.NoError(t, err)
		require.NoError(t, f.service.AddAsset(ctx, album.ID, "a1"))

		require.NoError(t, f.service.Delete(ctx, album.ID))

		_, err = f.assets.Get(ctx, "a1")
		assert.NoError(t, err)
	})
}
