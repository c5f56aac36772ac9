package audio

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanali209/webos-dam/internal/core/domain"
)

// wavFile builds a canonical 44-byte WAV header followed by payload
// seconds of silence at the given rate.
func wavFile(t *testing.T, sampleRate, channels int, payloadSeconds float64) string {
	t.Helper()
	byteRate := sampleRate * channels * 2
	payload := make([]byte, int(float64(byteRate)*payloadSeconds))

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(payload)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(channels*2))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(payload)))

	path := filepath.Join(t.TempDir(), "test.wav")
	require.NoError(t, os.WriteFile(path, append(header, payload...), 0o644))
	return path
}

func TestDriver_ExtractMetadata(t *testing.T) {
	ctx := context.Background()
	driver := New()

	t.Run("wav header yields rate, channels and duration", func(t *testing.T) {
		path := wavFile(t, 44100, 2, 1.5)
		asset := &domain.Asset{ID: "a1"}

		meta, err := driver.ExtractMetadata(ctx, asset, path)
		require.NoError(t, err)

		assert.Equal(t, "wav", meta["format"])
		assert.Equal(t, 44100, meta["sample_rate"])
		assert.Equal(t, 2, meta["channels"])
		assert.InDelta(t, 1.5, meta["duration_seconds"], 0.01)
		assert.InDelta(t, 1.5, asset.Duration, 0.01)
	})

	t.Run("flac is recognised without duration", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.flac")
		require.NoError(t, os.WriteFile(path, []byte("fLaC and some stream data"), 0o644))
		asset := &domain.Asset{}

		meta, err := driver.ExtractMetadata(ctx, asset, path)
		require.NoError(t, err)

		assert.Equal(t, "flac", meta["format"])
		assert.NotContains(t, meta, "duration_seconds")
		assert.Zero(t, asset.Duration)
	})

	t.Run("mp3 by ID3 tag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.mp3")
		require.NoError(t, os.WriteFile(path, []byte("ID3\x04\x00 and frames"), 0o644))

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)
		assert.Equal(t, "mp3", meta["format"])
	})

	t.Run("unrecognised content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.bin")
		require.NoError(t, os.WriteFile(path, []byte("???"), 0o644))

		meta, err := driver.ExtractMetadata(ctx, &domain.Asset{}, path)
		require.NoError(t, err)
		assert.Equal(t, "unknown", meta["format"])
	})
}
