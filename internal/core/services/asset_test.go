package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/adapters/driven/bus"
	"github.com/Sanali209/webos-dam/internal/adapters/driven/storage/memory"
	vectormem "github.com/Sanali209/webos-dam/internal/adapters/driven/vector/memory"
	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// --- Mock implementations ---

// memBlobStore implements driven.BlobStore in memory for testing.
type memBlobStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	writeErr error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: make(map[string][]byte)}
}

func (m *memBlobStore) Read(_ context.Context, locator string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[locator]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, locator)
	}
	return b, nil
}

func (m *memBlobStore) Write(_ context.Context, locator string, r io.Reader) (int64, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[locator] = b
	return int64(len(b)), nil
}

func (m *memBlobStore) Delete(_ context.Context, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, locator)
	return nil
}

type assetFixture struct {
	service *AssetService
	assets  *memory.AssetStore
	links   *memory.LinkStore
	albums  *memory.AlbumStore
	blobs   *memBlobStore
	vectors *vectormem.Index
	signals *bus.Channel
}

func newAssetFixture(t *testing.T) *assetFixture {
	t.Helper()
	f := &assetFixture{
		assets:  memory.NewAssetStore(),
		links:   memory.NewLinkStore(),
		albums:  memory.NewAlbumStore(),
		blobs:   newMemBlobStore(),
		vectors: vectormem.NewIndex(),
		signals: bus.NewChannel(16),
	}
	f.service = NewAssetService(f.assets, f.links, f.albums, f.blobs, NewBuiltinTypeRegistry(), f.signals, f.vectors)
	return f
}

func TestAssetService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("ingests new content", func(t *testing.T) {
		f := newAssetFixture(t)

		asset, err := f.service.Ingest(ctx, strings.NewReader("abcdefghij"), "note.txt", "owner-1")
		require.NoError(t, err)

		assert.NotEmpty(t, asset.ID)
		assert.Equal(t, "note.txt", asset.Filename)
		assert.Equal(t, "owner-1", asset.OwnerID)
		assert.Equal(t, int64(10), asset.Size)
		assert.Equal(t, domain.StatusProcessing, asset.Status)
		assert.Equal(t, "document", asset.PrimaryType())
		assert.Len(t, asset.Hash, 64)

		// Locator follows the content-addressed layout.
		assert.Equal(t,
			fmt.Sprintf("fs://local/dam/%s/%s/note.txt", asset.Hash[:2], asset.Hash),
			asset.StorageURN)

		content, err := f.blobs.Read(ctx, asset.StorageURN)
		require.NoError(t, err)
		assert.Equal(t, "abcdefghij", string(content))

		// The pipeline signal went out.
		sig := <-f.signals.Signals()
		assert.Equal(t, asset.ID, sig.AssetID)
	})

	t.Run("byte-identical content deduplicates", func(t *testing.T) {
		f := newAssetFixture(t)

		first, err := f.service.Ingest(ctx, strings.NewReader("abcdefghij"), "a.txt", "owner-1")
		require.NoError(t, err)
		second, err := f.service.Ingest(ctx, strings.NewReader("abcdefghij"), "b.txt", "owner-1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "a.txt", second.Filename, "existing record is returned unchanged")

		count, err := f.assets.Count(ctx, domain.AssetFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		// Exactly one signal: the dedup path publishes nothing.
		<-f.signals.Signals()
		select {
		case sig := <-f.signals.Signals():
			t.Fatalf("unexpected second signal for %s", sig.AssetID)
		default:
		}
	})

	t.Run("empty filename rejected", func(t *testing.T) {
		f := newAssetFixture(t)

		_, err := f.service.Ingest(ctx, strings.NewReader("x"), "", "owner-1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("blob write failure persists the asset as errored", func(t *testing.T) {
		f := newAssetFixture(t)
		f.blobs.writeErr = fmt.Errorf("disk full")

		asset, err := f.service.Ingest(ctx, strings.NewReader("payload"), "doomed.bin", "owner-1")
		require.NoError(t, err, "the failure is recorded, not returned")

		assert.Equal(t, domain.StatusError, asset.Status)
		assert.Contains(t, asset.ErrorMessage, "disk full")

		stored, err := f.assets.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusError, stored.Status)
	})
}

func TestAssetService_RegisterPath(t *testing.T) {
	ctx := context.Background()

	t.Run("indexes the file without moving it", func(t *testing.T) {
		f := newAssetFixture(t)
		path := writeTempFile(t, "photo.png", "not really a png")

		asset, err := f.service.RegisterPath(ctx, path, "owner-1")
		require.NoError(t, err)

		assert.Equal(t, "photo.png", asset.Filename)
		assert.Equal(t, urnForPath(path), asset.StorageURN)
		assert.Equal(t, domain.StatusProcessing, asset.Status)
		assert.FileExists(t, path)
	})

	t.Run("second registration of the same path is a no-op", func(t *testing.T) {
		f := newAssetFixture(t)
		path := writeTempFile(t, "doc.txt", "hello")

		first, err := f.service.RegisterPath(ctx, path, "owner-1")
		require.NoError(t, err)
		second, err := f.service.RegisterPath(ctx, path, "owner-1")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		count, err := f.assets.Count(ctx, domain.AssetFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestAssetService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh rehashes and re-arms processing", func(t *testing.T) {
		f := newAssetFixture(t)
		path := writeTempFile(t, "doc.txt", "version one")
		asset, err := f.service.RegisterPath(ctx, path, "owner-1")
		require.NoError(t, err)
		oldHash := asset.Hash

		require.NoError(t, os.WriteFile(path, []byte("version two, longer"), 0o644))
		require.NoError(t, f.service.RefreshAsset(ctx, path))

		refreshed, err := f.assets.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.NotEqual(t, oldHash, refreshed.Hash)
		assert.Equal(t, int64(19), refreshed.Size)
		assert.Equal(t, domain.StatusProcessing, refreshed.Status)
	})

	t.Run("refresh of an unknown path is silent", func(t *testing.T) {
		f := newAssetFixture(t)

		assert.NoError(t, f.service.RefreshAsset(ctx, "/nowhere/ghost.txt"))
	})

	t.Run("move preserves identity and rewrites the locator", func(t *testing.T) {
		f := newAssetFixture(t)
		oldPath := writeTempFile(t, "before.txt", "content")
		asset, err := f.service.RegisterPath(ctx, oldPath, "owner-1")
		require.NoError(t, err)

		newPath := filepath.Join(filepath.Dir(oldPath), "after.txt")
		require.NoError(t, f.service.UpdateStorageURN(ctx, oldPath, newPath))

		moved, err := f.assets.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, urnForPath(newPath), moved.StorageURN)
		assert.Equal(t, "after.txt", moved.Filename)
	})

	t.Run("mark missing is reversible by refresh", func(t *testing.T) {
		f := newAssetFixture(t)
		path := writeTempFile(t, "doc.txt", "content")
		asset, err := f.service.RegisterPath(ctx, path, "owner-1")
		require.NoError(t, err)

		require.NoError(t, f.service.MarkMissing(ctx, path))
		missing, err := f.assets.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMissing, missing.Status)

		require.NoError(t, f.service.RefreshAsset(ctx, path))
		revived, err := f.assets.Get(ctx, asset.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessing, revived.Status)
	})
}

func TestAssetService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to links, albums, vectors and blob", func(t *testing.T) {
		f := newAssetFixture(t)

		victim, err := f.service.Ingest(ctx, strings.NewReader("victim content"), "victim.txt", "owner-1")
		require.NoError(t, err)
		other, err := f.service.Ingest(ctx, strings.NewReader("other content"), "other.txt", "owner-1")
		require.NoError(t, err)

		// A link in each direction, an album membership and a vector.
		require.NoError(t, f.links.Save(ctx, &domain.Link{
			ID: "l1", SourceID: victim.ID, TargetID: other.ID, Relation: "related_to",
		}))
		require.NoError(t, f.links.Save(ctx, &domain.Link{
			ID: "l2", SourceID: other.ID, TargetID: victim.ID, Relation: "related_to",
		}))
		album := &domain.Album{ID: "alb-1", OwnerID: "owner-1", Title: "Stuff", AssetIDs: []string{victim.ID, other.ID}}
		require.NoError(t, f.albums.Save(ctx, album))
		require.NoError(t, f.vectors.Upsert(ctx, domain.VectorCLIP, victim.ID, []float32{1, 0}, nil))

		require.NoError(t, f.service.Delete(ctx, victim.ID))

		_, err = f.assets.Get(ctx, victim.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		neighbours, err := f.links.Neighbors(ctx, []string{victim.ID})
		require.NoError(t, err)
		assert.Empty(t, neighbours)

		updated, err := f.albums.Get(ctx, album.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{other.ID}, updated.AssetIDs)

		hits, err := f.vectors.Search(ctx, domain.VectorCLIP, []float32{1, 0}, 10, domain.AssetFilter{})
		require.NoError(t, err)
		assert.Empty(t, hits)

		_, err = f.blobs.Read(ctx, victim.StorageURN)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		f := newAssetFixture(t)

		assert.ErrorIs(t, f.service.Delete(ctx, "ghost"), domain.ErrNotFound)
	})
}

func TestPathForURN(t *testing.T) {
	t.Run("round-trips a local path", func(t *testing.T) {
		path := filepath.FromSlash("/data/photos/cat.jpg")
		got, ok := PathForURN(urnForPath(path))
		require.True(t, ok)
		assert.Equal(t, path, got)
	})

	t.Run("managed locators do not resolve", func(t *testing.T) {
		_, ok := PathForURN("fs://local/dam/ab/abcd/cat.jpg")
		assert.False(t, ok)
	})

	t.Run("foreign schemes do not resolve", func(t *testing.T) {
		_, ok := PathForURN("s3://bucket/key")
		assert.False(t, ok)
	})
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
