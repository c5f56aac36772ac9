// Package video extracts container-level metadata from video files.
// Without a demuxer dependency the probe is shallow: container brand
// from the file header plus size on disk. Duration stays zero until an
// external transcoder fills it in.
package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Driver implements the interface.
var _ driven.Driver = (*Driver)(nil)

// Driver probes video containers.
type Driver struct{}

// New creates the video driver.
func New() *Driver { return &Driver{} }

// TypeID returns the asset type this driver processes.
func (d *Driver) TypeID() string { return "video" }

// ExtractMetadata reads the leading bytes and classifies the container.
func (d *Driver) ExtractMetadata(ctx context.Context, asset *domain.Asset, localPath string) (map[string]any, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	head := make([]byte, 16)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read video header: %w", err)
	}
	head = head[:n]

	return map[string]any{
		"container":  containerBrand(head),
		"size_bytes": info.Size(),
	}, nil
}

// containerBrand recognises the common container signatures.
func containerBrand(head []byte) string {
	switch {
	case len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")):
		return "mp4/" + string(bytes.TrimRight(head[8:12], "\x00 "))
	case bytes.HasPrefix(head, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "matroska"
	case bytes.HasPrefix(head, []byte("RIFF")):
		return "avi"
	case bytes.HasPrefix(head, []byte("OggS")):
		return "ogg"
	default:
		return "unknown"
	}
}
