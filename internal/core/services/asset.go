package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure AssetService implements the interface.
var _ driving.AssetService = (*AssetService)(nil)

// localScheme prefixes locators for files living on the watched
// filesystem rather than in managed storage.
const localScheme = "fs://local/"

// managedPrefix is the locator prefix of managed (ingested) blobs.
const managedPrefix = localScheme + "dam/"

// sniffLen bounds how many leading bytes feed MIME detection.
const sniffLen = 3072

// AssetService manages physical file indexing, ingestion deduplication
// and lifecycle transitions. It is the backbone bridging the blob store
// and the catalog.
type AssetService struct {
	assets  driven.AssetStore
	links   driven.LinkStore
	albums  driven.AlbumStore
	blobs   driven.BlobStore
	types   *TypeRegistry
	bus     driven.IngestBus
	vectors driven.VectorIndex // optional, cleaned on delete
}

// NewAssetService creates an asset service. The vector index is
// optional; when nil, deletes skip vector cleanup.
func NewAssetService(
	assets driven.AssetStore,
	links driven.LinkStore,
	albums driven.AlbumStore,
	blobs driven.BlobStore,
	types *TypeRegistry,
	bus driven.IngestBus,
	vectors driven.VectorIndex,
) *AssetService {
	return &AssetService{
		assets:  assets,
		links:   links,
		albums:  albums,
		blobs:   blobs,
		types:   types,
		bus:     bus,
		vectors: vectors,
	}
}

// Ingest streams a new binary payload into managed storage and indexes
// it. The content hash is computed in one streaming pass while the
// payload spools to a temp file, so large inputs are never buffered
// twice in memory. Byte-identical content returns the existing asset
// unchanged: no new record, no second ingest signal.
func (s *AssetService) Ingest(ctx context.Context, content io.Reader, filename, ownerID string) (*domain.Asset, error) {
	if filename == "" {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}

	spool, err := os.CreateTemp("", "dam-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("spool ingest payload: %w", err)
	}
	defer os.Remove(spool.Name())
	defer spool.Close()

	hasher := sha256.New()
	head := &bytes.Buffer{}
	size, err := io.Copy(io.MultiWriter(spool, hasher, headWriter{head}), content)
	if err != nil {
		return nil, fmt.Errorf("read ingest payload: %w", err)
	}
	sum := hex.EncodeToString(hasher.Sum(nil))

	// Dedup: at most one live asset per content hash.
	if existing, err := s.assets.GetByHash(ctx, sum); err == nil {
		logger.Info("asset service: deduplicated upload resolving to %s (hash %s)", existing.ID, sum)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}

	mime := sniffMIME(head.Bytes())
	primary := s.types.Resolve(mime)

	// Layout: fs://local/dam/{hash[:2]}/{hash}/{filename}
	urn := fmt.Sprintf("%s%s/%s/%s", managedPrefix, sum[:2], sum, filename)

	asset := &domain.Asset{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Filename:   filename,
		StorageURN: urn,
		Size:       size,
		MIMEType:   mime,
		Hash:       sum,
		AssetTypes: []string{primary},
		Visibility: "private",
		CreatedAt:  time.Now().UTC(),
	}
	asset.EnsureMaps()

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind spool: %w", err)
	}
	if _, err := s.blobs.Write(ctx, urn, spool); err != nil {
		// Failures are visible, not dropped: persist the asset with
		// status error and the reason.
		logger.Error("asset service: blob write failed for %s: %v", filename, err)
		asset.Status = domain.StatusError
		asset.ErrorMessage = fmt.Sprintf("storage write failed: %v", err)
		if saveErr := s.assets.Save(ctx, asset); saveErr != nil {
			return nil, fmt.Errorf("persist errored asset: %w", saveErr)
		}
		return asset, nil
	}

	return s.createAndDispatch(ctx, asset)
}

// RegisterPath indexes an existing unmanaged file discovered by the
// watcher or reconciler. The file is not moved; the locator derives
// from the path. Idempotent: a second call for the same path returns
// the existing asset untouched.
func (s *AssetService) RegisterPath(ctx context.Context, path, ownerID string) (*domain.Asset, error) {
	urn := urnForPath(path)

	if existing, err := s.assets.GetByURN(ctx, urn); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register lookup: %w", err)
	}

	sum, size, mime, err := hashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}
	primary := s.types.Resolve(mime)

	asset := &domain.Asset{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Filename:   filepath.Base(path),
		StorageURN: urn,
		Size:       size,
		MIMEType:   mime,
		Hash:       sum,
		AssetTypes: []string{primary},
		Visibility: "private",
		CreatedAt:  time.Now().UTC(),
	}
	asset.EnsureMaps()

	return s.createAndDispatch(ctx, asset)
}

// createAndDispatch persists the asset as processing and publishes the
// ingest signal for the pipeline to pick up.
func (s *AssetService) createAndDispatch(ctx context.Context, asset *domain.Asset) (*domain.Asset, error) {
	asset.Status = domain.StatusProcessing
	if err := s.assets.Save(ctx, asset); err != nil {
		return nil, fmt.Errorf("persist asset: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, domain.IngestSignal{AssetID: asset.ID}); err != nil {
			// Signal delivery is best-effort; reconciliation or a
			// manual refresh re-arms the pipeline.
			logger.Warn("asset service: ingest signal dropped for %s: %v", asset.ID, err)
		}
	}

	logger.Info("asset service: indexed %s as %s (%s)", asset.Filename, asset.ID, asset.PrimaryType())
	return asset, nil
}

// RefreshAsset recomputes hash and size for the registered file at the
// path and re-arms it to processing, re-triggering enrichment. Unknown
// paths are a silent no-op (the watcher races deletes routinely).
func (s *AssetService) RefreshAsset(ctx context.Context, path string) error {
	asset, err := s.assets.GetByURN(ctx, urnForPath(path))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("refresh lookup: %w", err)
	}

	sum, size, _, err := hashFile(path)
	if err != nil {
		return fmt.Errorf("rehash %s: %w", path, err)
	}

	asset.Hash = sum
	asset.Size = size
	asset.Status = domain.StatusProcessing
	asset.ErrorMessage = ""
	if err := s.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("persist refreshed asset: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, domain.IngestSignal{AssetID: asset.ID}); err != nil {
			logger.Warn("asset service: refresh signal dropped for %s: %v", asset.ID, err)
		}
	}
	return nil
}

// UpdateStorageURN rewrites locator and filename in place after a
// rename or move. Identity, links and album membership are preserved.
func (s *AssetService) UpdateStorageURN(ctx context.Context, oldPath, newPath string) error {
	asset, err := s.assets.GetByURN(ctx, urnForPath(oldPath))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("move lookup: %w", err)
	}

	asset.StorageURN = urnForPath(newPath)
	asset.Filename = filepath.Base(newPath)
	if err := s.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("persist moved asset: %w", err)
	}
	return nil
}

// MarkMissing flags the asset at the path as missing without deleting
// the record, preserving its relationships. A later refresh of the
// same path reverses it.
func (s *AssetService) MarkMissing(ctx context.Context, path string) error {
	asset, err := s.assets.GetByURN(ctx, urnForPath(path))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("missing lookup: %w", err)
	}

	asset.Status = domain.StatusMissing
	if err := s.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("persist missing asset: %w", err)
	}
	return nil
}

// Get retrieves an asset by id.
func (s *AssetService) Get(ctx context.Context, id string) (*domain.Asset, error) {
	return s.assets.Get(ctx, id)
}

// Delete removes the asset and cascades: every link where it is source
// or target goes, its id leaves every album member list, its vectors
// leave the index, its managed blob is deleted, and finally the record
// itself. No collaborator is left holding a dangling reference.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	asset, err := s.assets.Get(ctx, id)
	if err != nil {
		return err
	}

	// Phase 1: storage and index cleanup. Non-fatal.
	if strings.HasPrefix(asset.StorageURN, managedPrefix) {
		if err := s.blobs.Delete(ctx, asset.StorageURN); err != nil {
			logger.Warn("asset service: blob cleanup failed for %s: %v", id, err)
		}
	}
	if s.vectors != nil {
		if err := s.vectors.Delete(ctx, id); err != nil {
			logger.Warn("asset service: vector cleanup failed for %s: %v", id, err)
		}
	}

	// Phase 2: graph and album cleanup.
	removed, err := s.links.DeleteByAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	if removed > 0 {
		logger.Debug("asset service: removed %d links for %s", removed, id)
	}

	albums, err := s.albums.ListByAsset(ctx, id)
	if err != nil {
		return fmt.Errorf("list albums: %w", err)
	}
	for i := range albums {
		if albums[i].RemoveAsset(id) {
			if err := s.albums.Save(ctx, &albums[i]); err != nil {
				return fmt.Errorf("update album %s: %w", albums[i].ID, err)
			}
		}
	}

	// Phase 3: the record itself.
	if err := s.assets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	logger.Info("asset service: asset %s deleted", id)
	return nil
}

// urnForPath derives the canonical locator for a watched-filesystem
// path. Paths are normalized to forward slashes so the same file maps
// to the same locator on every platform.
func urnForPath(path string) string {
	return localScheme + filepath.ToSlash(path)
}

// PathForURN is the inverse of urnForPath for fs://local locators.
// Returns false for managed or foreign schemes.
func PathForURN(urn string) (string, bool) {
	if !strings.HasPrefix(urn, localScheme) || strings.HasPrefix(urn, managedPrefix) {
		return "", false
	}
	return filepath.FromSlash(strings.TrimPrefix(urn, localScheme)), true
}

// hashFile computes the SHA-256 digest, size and sniffed MIME type of a
// file in one chunked pass.
func hashFile(path string) (sum string, size int64, mime string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, "", err
	}
	defer f.Close()

	hasher := sha256.New()
	head := &bytes.Buffer{}
	size, err = io.Copy(io.MultiWriter(hasher, headWriter{head}), f)
	if err != nil {
		return "", 0, "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), size, sniffMIME(head.Bytes()), nil
}

// sniffMIME detects a MIME type from leading content bytes, falling
// back to a generic binary type.
func sniffMIME(head []byte) string {
	if len(head) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(head).String()
}

// headWriter tees the first sniffLen bytes of a stream.
type headWriter struct {
	buf *bytes.Buffer
}

func (w headWriter) Write(p []byte) (int, error) {
	if remaining := sniffLen - w.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
