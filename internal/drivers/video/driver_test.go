package video

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

func writeVideo(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestDriver_ExtractMetadata(t *testing.T) {
	ctx := context.Background()
	driver := New()

	t.Run("mp4 brand from the ftyp box", func(t *testing.T) {
		head := []byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0, 0, 0, 1}
		path := writeVideo(t, "clip.mp4", head)

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)

		assert.Equal(t, "mp4/isom", meta["container"])
		assert.Equal(t, int64(16), meta["size_bytes"])
	})

	t.Run("matroska by EBML magic", func(t *testing.T) {
		path := writeVideo(t, "clip.mkv", []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0})

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)
		assert.Equal(t, "matroska", meta["container"])
	})

	t.Run("short files do not fail the probe", func(t *testing.T) {
		path := writeVideo(t, "tiny.avi", []byte("RI"))

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)
		assert.Equal(t, "unknown", meta["container"])
	})
}
