package driven

import (
	"context"
	"io"
)

// BlobStore is the byte-oriented storage port. Locators are opaque
// strings with a scheme prefix identifying the backend,
// e.g. "fs://local/dam/ab/abcd.../photo.jpg".
type BlobStore interface {
	// Read returns the full content at the locator.
	Read(ctx context.Context, locator string) ([]byte, error)

	// Write streams content to the locator, creating parents as needed.
	// Returns the number of bytes written.
	Write(ctx context.Context, locator string, r io.Reader) (int64, error)

	// Delete removes the content at the locator. Missing content is
	// not an error.
	Delete(ctx context.Context, locator string) error
}

// PathResolver maps a locator onto a local filesystem path so drivers
// can hand files to blocking extraction tools. Backends without local
// paths return domain.ErrNotFound.
type PathResolver interface {
	LocalPath(locator string) (string, error)
}
