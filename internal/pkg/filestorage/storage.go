package filestorage

import (
	"context"
	"io"
)

// ObjectStorage stores an uploaded payload and returns a durable URL for
// it. It is a collaborator of the file-send path only; the durable URL
// ends up both in the local message log and in the caption sent through
// the external provider.
type ObjectStorage interface {
	// Upload stores the content and returns a durable, publicly
	// resolvable URL.
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
}
