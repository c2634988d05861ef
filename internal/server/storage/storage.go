// Package storage is the asset store: binary objects (original images,
// thumbnails, the published manifest) addressed by key.
package storage

import (
	"context"
	"time"
)

// Object is a blob to write.
type Object struct {
	Key          string
	ContentType  string
	CacheControl string
	Body         []byte
}

// AssetStore is implemented by S3Store and MemoryStore.
type AssetStore interface {
	// PresignPut returns a URL a client may PUT the object to until expires
	// elapses. The upload must carry the given content type.
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	// Put writes the object.
	Put(ctx context.Context, obj Object) error
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL is the public address of key.
	URL(key string) string
}
