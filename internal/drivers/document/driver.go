// Package document extracts technical metadata from text documents.
package document

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Driver implements the interface.
var _ driven.Driver = (*Driver)(nil)

// maxScan bounds how much of a document the probe reads.
const maxScan = 4 << 20

// Driver probes text documents: line and word counts plus a text/binary
// verdict. Binary formats (pdf, office containers) get size only.
type Driver struct{}

// New creates the document driver.
func New() *Driver { return &Driver{} }

// TypeID returns the asset type this driver processes.
func (d *Driver) TypeID() string { return "document" }

// ExtractMetadata counts lines and words in the leading window of the
// file when it looks like text.
func (d *Driver) ExtractMetadata(ctx context.Context, asset *domain.Asset, localPath string) (map[string]any, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}

	meta := map[string]any{"size_bytes": info.Size()}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lines, words := 0, 0
	scanned := 0
	text := true
	for scanner.Scan() {
		line := scanner.Text()
		if !utf8.ValidString(line) || strings.ContainsRune(line, 0) {
			text = false
			break
		}
		lines++
		words += len(strings.Fields(line))
		scanned += len(line)
		if scanned >= maxScan {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		text = false
	}

	meta["is_text"] = text
	if text {
		meta["line_count"] = lines
		meta["word_count"] = words
	}
	return meta, nil
}
