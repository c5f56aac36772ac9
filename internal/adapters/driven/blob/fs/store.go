// Package fs stores blobs on the local filesystem behind "fs://local/"
// locators. Managed content ("fs://local/dam/...") lives under the
// store's root directory; other locators address watched files in place
// by their absolute path.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.BlobStore    = (*Store)(nil)
	_ driven.PathResolver = (*Store)(nil)
)

const (
	scheme        = "fs://local/"
	managedPrefix = scheme + "dam/"
)

// Store is a filesystem-backed driven.BlobStore.
type Store struct {
	root string
}

// NewStore creates a blob store rooted at dir. Managed blobs are laid
// out under dir exactly as their locator path after the scheme.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Read returns the full content at the locator.
func (s *Store) Read(ctx context.Context, locator string) ([]byte, error) {
	path, err := s.LocalPath(locator)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("blob %s: %w", locator, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", locator, err)
	}
	return content, nil
}

// Write streams content to the locator, creating parent directories.
// The write goes through a temp file and a rename so a crash never
// leaves a half-written blob at the final path.
func (s *Store) Write(ctx context.Context, locator string, r io.Reader) (int64, error) {
	path, err := s.LocalPath(locator)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create blob dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return 0, fmt.Errorf("create blob temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write blob %s: %w", locator, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("commit blob %s: %w", locator, err)
	}
	return n, nil
}

// Delete removes the content at the locator. Missing content is not an
// error. Empty hash directories are pruned opportunistically.
func (s *Store) Delete(ctx context.Context, locator string) error {
	path, err := s.LocalPath(locator)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", locator, err)
	}
	if strings.HasPrefix(locator, managedPrefix) {
		os.Remove(filepath.Dir(path))
	}
	return nil
}

// LocalPath maps a locator onto a local filesystem path. Managed
// locators resolve under the store root; other fs://local locators are
// absolute paths in place. Foreign schemes return domain.ErrNotFound.
func (s *Store) LocalPath(locator string) (string, error) {
	switch {
	case strings.HasPrefix(locator, managedPrefix):
		rel := filepath.FromSlash(strings.TrimPrefix(locator, managedPrefix))
		return filepath.Join(s.root, rel), nil
	case strings.HasPrefix(locator, scheme):
		return filepath.FromSlash(strings.TrimPrefix(locator, scheme)), nil
	default:
		return "", fmt.Errorf("locator %q: %w", locator, domain.ErrNotFound)
	}
}
