package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/logging"
	sc "github.com/dmitrijs2005/gallery/internal/server/config"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/ordering"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gallery/internal/server/storage"
)

const manifestCacheControl = "public, max-age=60"

// PublishResult tells where the manifest went and how many items it has.
type PublishResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// PublishService renders the current entry set into the public manifest.
type PublishService struct {
	repo   entries.Repository
	assets storage.AssetStore
	logger logging.Logger
	key    string
}

func NewPublishService(repo entries.Repository, assets storage.AssetStore, logger logging.Logger, config *sc.Config) *PublishService {
	return &PublishService{repo: repo, assets: assets, logger: logger, key: config.ManifestKey}
}

// Manifest builds the manifest items from a single snapshot, highest order
// first.
func Manifest(snap *models.Snapshot) []models.ManifestItem {
	list := append([]*models.Entry(nil), snap.Entries...)
	ordering.SortDescending(list)

	items := make([]models.ManifestItem, 0, len(list))
	for _, e := range list {
		items = append(items, models.ManifestItem{N: e.Name, I: e.ImageKey, O: e.Order})
	}
	return items
}

func (s *PublishService) Publish(ctx context.Context) (*PublishResult, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, upstream(err)
	}

	items := Manifest(snap)
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("%w: encode manifest: %v", common.ErrorInternal, err)
	}

	err = s.assets.Put(ctx, storage.Object{
		Key:          s.key,
		ContentType:  common.ManifestContentType,
		CacheControl: manifestCacheControl,
		Body:         body,
	})
	if err != nil {
		return nil, upstream(err)
	}

	s.logger.Info(ctx, "manifest published", "key", s.key, "count", len(items), "revision", snap.Revision)
	return &PublishResult{Key: s.key, Count: len(items)}, nil
}
