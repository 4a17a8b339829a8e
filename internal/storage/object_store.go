package storage

import (
	"context"
	"io"
)

type ObjectStore interface {
	// PutObject writes data under key with the given content type. The
	// write is not resumable; a failed transfer leaves nothing for
	// callers to reference.
	PutObject(ctx context.Context, key, contentType string, data io.Reader) error

	// PublicURL returns the URL under which key is served once written.
	// Derived by convention, no ACL handling.
	PublicURL(key string) string
}
