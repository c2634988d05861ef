package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// MemoryStore keeps objects in memory. Presigned URLs it hands out are not
// dereferenceable; it exists for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]Object
	now     func() time.Time
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{bucket: bucket, objects: make(map[string]Object), now: time.Now}
}

func (m *MemoryStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	q := url.Values{}
	q.Set("content-type", contentType)
	q.Set("expires", m.now().Add(expires).UTC().Format(time.RFC3339))
	return fmt.Sprintf("memory://%s/%s?%s", m.bucket, key, q.Encode()), nil
}

func (m *MemoryStore) Put(ctx context.Context, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj.Body = append([]byte(nil), obj.Body...)
	m.objects[obj.Key] = obj
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) URL(key string) string {
	return "memory://" + m.bucket + "/" + key
}

// Get returns a stored object.
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	return obj, ok
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
