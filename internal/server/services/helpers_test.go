package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gallery/internal/logging"
	sc "github.com/dmitrijs2005/gallery/internal/server/config"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gallery/internal/server/storage"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func testConfig(policy string) *sc.Config {
	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.BucketName = "gallery"
	cfg.TableName = "gallery_entries"
	cfg.UploadPolicy = policy
	cfg.ThumbnailWidth = 40
	cfg.ThumbnailHeight = 40
	return cfg
}

// faultyStore wraps a MemoryStore and fails selected calls.
type faultyStore struct {
	*storage.MemoryStore
	failPresign bool
	failPutKey  string
	failDelete  bool
	deleted     []string
}

func (f *faultyStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	if f.failPresign {
		return "", errBackend
	}
	return f.MemoryStore.PresignPut(ctx, key, contentType, expires)
}

func (f *faultyStore) Put(ctx context.Context, obj storage.Object) error {
	if f.failPutKey != "" && strings.HasPrefix(obj.Key, f.failPutKey) {
		return errBackend
	}
	return f.MemoryStore.Put(ctx, obj)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.failDelete {
		return errBackend
	}
	return f.MemoryStore.Delete(ctx, key)
}

// faultyRepo fails Create, which is the record write of a new entry.
type faultyRepo struct {
	*entries.MemoryRepository
}

func (faultyRepo) Create(context.Context, int64, *models.Entry) (int64, error) {
	return 0, errBackend
}

type fixture struct {
	repo   *entries.MemoryRepository
	assets *faultyStore
	svc    *EntryService
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	repo := entries.NewMemoryRepository()
	assets := &faultyStore{MemoryStore: storage.NewMemoryStore("gallery")}
	svc := NewEntryService(repo, assets, logging.Nop{}, testConfig(policy))

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	svc.nowFunc = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return &fixture{repo: repo, assets: assets, svc: svc}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
