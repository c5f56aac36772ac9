// Package image extracts technical metadata from raster images using
// the standard library decoders.
package image

import (
	"context"
	"fmt"
	"image"
	"os"

	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Driver implements the interface.
var _ driven.Driver = (*Driver)(nil)

// Driver extracts pixel dimensions and the container format. Dimensions
// are written both into the metadata namespace and onto the asset's
// Width/Height fields, which the structured filter and facets read.
type Driver struct{}

// New creates the image driver.
func New() *Driver { return &Driver{} }

// TypeID returns the asset type this driver processes.
func (d *Driver) TypeID() string { return "image" }

// ExtractMetadata decodes the image header only; pixel data is never
// loaded.
func (d *Driver) ExtractMetadata(ctx context.Context, asset *domain.Asset, localPath string) (map[string]any, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}

	asset.Width = cfg.Width
	asset.Height = cfg.Height

	return map[string]any{
		"width":  cfg.Width,
		"height": cfg.Height,
		"format": format,
	}, nil
}
