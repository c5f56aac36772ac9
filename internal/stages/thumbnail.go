package stages

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"

	_ "image/gif" // register decoder
	_ "image/png" // register decoder

	xdraw "golang.org/x/image/draw"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
	"github.com/Sanali209/webos-dam/internal/logger"
)

var _ driven.PipelineStage = (*Thumbnail)(nil)

// DefaultThumbnailSizes are the preset bounding boxes, in pixels.
var DefaultThumbnailSizes = []int{200, 640}

// thumbnailPrefix is the locator scheme for cached previews.
const thumbnailPrefix = "fs://cache/dam/"

// jpegQuality for encoded previews.
const jpegQuality = 85

// Thumbnail renders downscaled previews into a content-addressed cache.
// Each preset size yields one JPEG under
// cacheDir/<hash[:2]>/<hash>/<size>.jpg, and the asset records the
// cache locator per preset. Reprocessing overwrites in place, so the
// cache never goes stale against the content hash.
type Thumbnail struct {
	blobs    driven.BlobStore
	cacheDir string
	sizes    []int
}

// NewThumbnail creates the stage. An empty sizes slice selects the
// defaults; an empty cacheDir disables the stage.
func NewThumbnail(blobs driven.BlobStore, cacheDir string, sizes []int) *Thumbnail {
	if len(sizes) == 0 {
		sizes = DefaultThumbnailSizes
	}
	return &Thumbnail{blobs: blobs, cacheDir: cacheDir, sizes: sizes}
}

func (s *Thumbnail) Name() string { return "thumbnail" }

func (s *Thumbnail) AppliesTo() []string { return []string{"image"} }

func (s *Thumbnail) Process(ctx context.Context, asset *domain.Asset) error {
	if s.cacheDir == "" {
		logger.Debug("thumbnail: no cache directory configured, skipping %s", asset.ID)
		return nil
	}
	if len(asset.Hash) < 2 {
		logger.Debug("thumbnail: %s has no content hash, skipping", asset.ID)
		return nil
	}

	content, err := s.blobs.Read(ctx, asset.StorageURN)
	if err != nil {
		return fmt.Errorf("read content: %w", err)
	}
	src, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	dir := filepath.Join(s.cacheDir, asset.Hash[:2], asset.Hash)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create thumbnail dir: %w", err)
	}

	asset.EnsureMaps()
	for _, size := range s.sizes {
		name := strconv.Itoa(size) + ".jpg"
		if err := writeThumbnail(filepath.Join(dir, name), src, size); err != nil {
			return fmt.Errorf("thumbnail %dpx: %w", size, err)
		}
		asset.Thumbnails[strconv.Itoa(size)] = thumbnailPrefix + asset.Hash[:2] + "/" + asset.Hash + "/" + name
	}
	return nil
}

// writeThumbnail scales src to fit a max×max box and commits the JPEG
// through a temp file and a rename, so a crash never leaves a
// half-written preview at the final path.
func writeThumbnail(path string, src image.Image, max int) error {
	dst := image.NewRGBA(fitWithin(src.Bounds(), max))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	err = jpeg.Encode(tmp, dst, &jpeg.Options{Quality: jpegQuality})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// fitWithin computes the bounds of b scaled to fit a max×max box,
// preserving aspect ratio. Images already inside the box keep their
// dimensions; previews never upscale.
func fitWithin(b image.Rectangle, max int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= max {
		return image.Rect(0, 0, w, h)
	}
	scale := float64(max) / float64(longest)
	sw := int(float64(w)*scale + 0.5)
	sh := int(float64(h)*scale + 0.5)
	if sw < 1 {
		sw = 1
	}
	if sh < 1 {
		sh = 1
	}
	return image.Rect(0, 0, sw, sh)
}
