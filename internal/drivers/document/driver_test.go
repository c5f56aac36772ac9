package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

func writeDoc(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestDriver_ExtractMetadata(t *testing.T) {
	ctx := context.Background()
	driver := New()

	t.Run("counts lines and words in text", func(t *testing.T) {
		path := writeDoc(t, "notes.txt", []byte("first line here\nsecond line\n"))

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)

		assert.Equal(t, true, meta["is_text"])
		assert.Equal(t, 2, meta["line_count"])
		assert.Equal(t, 5, meta["word_count"])
		assert.Equal(t, int64(28), meta["size_bytes"])
	})

	t.Run("binary content is flagged, not counted", func(t *testing.T) {
		path := writeDoc(t, "blob.pdf", []byte{'%', 'P', 'D', 'F', 0, 1, 2, 0xff})

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)

		assert.Equal(t, false, meta["is_text"])
		assert.NotContains(t, meta, "line_count")
	})

	t.Run("empty file is text with zero counts", func(t *testing.T) {
		path := writeDoc(t, "empty.txt", nil)

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)

		assert.Equal(t, true, meta["is_text"])
		assert.Equal(t, 0, meta["line_count"])
	})
}
