// Package audio extracts technical metadata from audio files. WAV
// headers are parsed directly, which also yields the duration; other
// formats get a shallow probe.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Driver implements the interface.
var _ driven.Driver = (*Driver)(nil)

// Driver probes audio files.
type Driver struct{}

// New creates the audio driver.
func New() *Driver { return &Driver{} }

// TypeID returns the asset type this driver processes.
func (d *Driver) TypeID() string { return "audio" }

// ExtractMetadata reads format-level metadata. For WAV the duration is
// computed from the fmt chunk and written onto the asset.
func (d *Driver) ExtractMetadata(ctx context.Context, asset *domain.Asset, localPath string) (map[string]any, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}

	head := make([]byte, 44)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read audio header: %w", err)
	}
	head = head[:n]

	meta := map[string]any{
		"size_bytes": info.Size(),
		"format":     audioFormat(head),
	}

	if wav, ok := parseWAV(head, info.Size()); ok {
		meta["sample_rate"] = wav.sampleRate
		meta["channels"] = wav.channels
		meta["duration_seconds"] = wav.duration
		asset.Duration = wav.duration
	}
	return meta, nil
}

func audioFormat(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= 12 && bytes.Equal(head[8:12], []byte("WAVE")):
		return "wav"
	case bytes.HasPrefix(head, []byte("fLaC")):
		return "flac"
	case bytes.HasPrefix(head, []byte("ID3")) || (len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0):
		return "mp3"
	case bytes.HasPrefix(head, []byte("OggS")):
		return "ogg"
	default:
		return "unknown"
	}
}

type wavInfo struct {
	sampleRate int
	channels   int
	duration   float64
}

// parseWAV reads the canonical 44-byte header layout; files with a
// non-standard chunk order are skipped.
func parseWAV(head []byte, fileSize int64) (wavInfo, bool) {
	if len(head) < 44 || !bytes.HasPrefix(head, []byte("RIFF")) ||
		!bytes.Equal(head[8:12], []byte("WAVE")) || !bytes.Equal(head[12:16], []byte("fmt ")) {
		return wavInfo{}, false
	}

	channels := int(binary.LittleEndian.Uint16(head[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(head[24:28]))
	byteRate := int64(binary.LittleEndian.Uint32(head[28:32]))
	if channels == 0 || sampleRate == 0 || byteRate == 0 {
		return wavInfo{}, false
	}

	return wavInfo{
		sampleRate: sampleRate,
		channels:   channels,
		duration:   float64(fileSize-44) / float64(byteRate),
	}, true
}
