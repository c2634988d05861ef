// Package services holds the gallery business logic: entry management on
// top of the ordering engine and the asset store, and manifest publishing.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/imaging"
	"github.com/dmitrijs2005/gallery/internal/logging"
	sc "github.com/dmitrijs2005/gallery/internal/server/config"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/ordering"
	"github.com/dmitrijs2005/gallery/internal/server/repositories/entries"
	"github.com/dmitrijs2005/gallery/internal/server/storage"
	"github.com/google/uuid"
)

// Directions accepted by ReorderEntry.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// CreateRequest describes a new entry. MimeType is used with the presign
// upload policy, Image (base64) with the inline one.
type CreateRequest struct {
	Name        string
	MimeType    string
	Image       string
	DateCreated *time.Time
}

// CreateResult is the created entry plus, for presigned uploads, the URLs
// the client must PUT the image and thumbnail to.
type CreateResult struct {
	Entry      *models.Entry
	SignedURLs *models.UploadTargets
}

// UpdateRequest carries the optional fields of an entry update.
type UpdateRequest struct {
	Name  *string
	Order *int
}

type EntryService struct {
	repo    entries.Repository
	engine  *ordering.Engine
	assets  storage.AssetStore
	thumbs  imaging.Thumbnailer
	logger  logging.Logger
	config  *sc.Config
	newID   func() string
	nowFunc func() time.Time
}

func NewEntryService(repo entries.Repository, assets storage.AssetStore, logger logging.Logger, config *sc.Config) *EntryService {
	return &EntryService{
		repo:    repo,
		engine:  ordering.NewEngine(repo, logger, config.ConflictRetries),
		assets:  assets,
		thumbs:  imaging.NewImageThumbnailer(config.ThumbnailWidth, config.ThumbnailHeight),
		logger:  logger,
		config:  config,
		newID:   func() string { return uuid.NewString() },
		nowFunc: time.Now,
	}
}

// upstream tags errors from the store or asset store that are not one of
// the domain sentinels.
func upstream(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrVersionConflict),
		errors.Is(err, context.Canceled):
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorUpstream, err)
}

func assetKeys(id, contentType string) (image, thumb string) {
	ext := common.ImageExtensions[contentType]
	return fmt.Sprintf("images/%s.%s", id, ext), fmt.Sprintf("thumbnails/%s.%s", id, ext)
}

// ListEntries returns all entries, most prominent first.
func (s *EntryService) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	ordering.SortDescending(snap.Entries)
	return snap.Entries, nil
}

func (s *EntryService) GetEntry(ctx context.Context, id string) (*models.Entry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	e, err := s.repo.Get(ctx, id)
	return e, upstream(err)
}

// CreateEntry validates req, prepares the assets according to the upload
// policy and stores the entry at the top of the ordering.
func (s *EntryService) CreateEntry(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}

	if s.config.UploadPolicy == sc.UploadInline {
		return s.createInline(ctx, name, req)
	}
	return s.createPresigned(ctx, name, req)
}

func (s *EntryService) newEntry(name, contentType string, dateCreated *time.Time) *models.Entry {
	id := s.newID()
	imageKey, thumbKey := assetKeys(id, contentType)
	if dateCreated == nil {
		now := s.nowFunc().UTC()
		dateCreated = &now
	}
	return &models.Entry{
		ID:           id,
		Name:         name,
		ImageKey:     imageKey,
		ImageURL:     s.assets.URL(imageKey),
		ThumbnailKey: thumbKey,
		ThumbnailURL: s.assets.URL(thumbKey),
		DateCreated:  dateCreated,
	}
}

func (s *EntryService) createPresigned(ctx context.Context, name string, req CreateRequest) (*CreateResult, error) {
	if _, ok := common.ImageExtensions[req.MimeType]; !ok {
		return nil, fmt.Errorf("%w: mimeType must be %s or %s", common.ErrorValidation, common.MimeJPEG, common.MimePNG)
	}

	e := s.newEntry(name, req.MimeType, req.DateCreated)

	imageURL, err := s.assets.PresignPut(ctx, e.ImageKey, req.MimeType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, upstream(err)
	}
	thumbURL, err := s.assets.PresignPut(ctx, e.ThumbnailKey, req.MimeType, s.config.UploadURLExpiry)
	if err != nil {
		return nil, upstream(err)
	}

	if err := s.engine.Insert(ctx, e); err != nil {
		return nil, upstream(err)
	}
	s.logger.Info(ctx, "entry created", "id", e.ID, "order", e.Order, "policy", sc.UploadPresign)

	return &CreateResult{
		Entry:      e,
		SignedURLs: &models.UploadTargets{ImageURL: imageURL, ThumbnailURL: thumbURL},
	}, nil
}

func (s *EntryService) createInline(ctx context.Context, name string, req CreateRequest) (*CreateResult, error) {
	if req.Image == "" {
		return nil, fmt.Errorf("%w: image is required", common.ErrorValidation)
	}
	data, err := base64.StdEncoding.DecodeString(stripDataURL(req.Image))
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", common.ErrorValidation)
	}
	contentType, err := imaging.DetectType(data)
	if err != nil {
		return nil, err
	}
	thumb, err := s.thumbs.Thumbnail(data, contentType)
	if err != nil {
		return nil, err
	}

	e := s.newEntry(name, contentType, req.DateCreated)

	if err := s.assets.Put(ctx, storage.Object{Key: e.ImageKey, ContentType: contentType, Body: data}); err != nil {
		return nil, upstream(err)
	}
	if err := s.assets.Put(ctx, storage.Object{Key: e.ThumbnailKey, ContentType: contentType, Body: thumb}); err != nil {
		s.dropAssets(ctx, e.ImageKey)
		return nil, upstream(err)
	}

	if err := s.engine.Insert(ctx, e); err != nil {
		s.dropAssets(ctx, e.ImageKey, e.ThumbnailKey)
		return nil, upstream(err)
	}
	s.logger.Info(ctx, "entry created", "id", e.ID, "order", e.Order, "policy", sc.UploadInline, "bytes", len(data))

	return &CreateResult{Entry: e}, nil
}

// stripDataURL accepts both bare base64 and "data:image/png;base64,..." forms.
func stripDataURL(s string) string {
	if strings.HasPrefix(s, "data:") {
		if _, rest, ok := strings.Cut(s, ","); ok {
			return rest
		}
	}
	return s
}

// dropAssets deletes keys, logging failures. It reports whether every
// delete succeeded.
func (s *EntryService) dropAssets(ctx context.Context, keys ...string) bool {
	ok := true
	for _, k := range keys {
		if k == "" {
			continue
		}
		if err := s.assets.Delete(ctx, k); err != nil {
			s.logger.Warn(ctx, "asset delete failed", "key", k, "error", err)
			ok = false
		}
	}
	return ok
}

// UpdateEntry renames an entry and/or moves it to a new order. Moving onto
// an order held by another entry swaps the two.
func (s *EntryService) UpdateEntry(ctx context.Context, id string, req UpdateRequest) (*models.Entry, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	var name string
	if req.Name != nil {
		if name = strings.TrimSpace(*req.Name); name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
		}
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, upstream(err)
	}

	// order first, so a rejected move leaves the name untouched
	if req.Order != nil {
		changes, err := s.engine.Move(ctx, id, *req.Order)
		if err != nil {
			return nil, upstream(err)
		}
		if len(changes) > 0 {
			s.logger.Info(ctx, "entry moved", "id", id, "order", *req.Order)
		}
	}
	if req.Name != nil {
		if err := s.repo.Rename(ctx, id, name); err != nil {
			return nil, upstream(err)
		}
	}

	e, err := s.repo.Get(ctx, id)
	return e, upstream(err)
}

// ReorderEntry moves an entry one step up or down. Moving the topmost entry
// up, or the bottommost down, leaves everything unchanged.
func (s *EntryService) ReorderEntry(ctx context.Context, id, direction string) (*models.Entry, error) {
	var delta int
	switch direction {
	case DirectionUp:
		delta = 1
	case DirectionDown:
		delta = -1
	default:
		return nil, fmt.Errorf("%w: direction must be %q or %q", common.ErrorValidation, DirectionUp, DirectionDown)
	}

	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, upstream(err)
	}
	cur := snap.Find(id)
	if cur == nil {
		return nil, common.ErrorNotFound
	}
	lo, hi, _ := ordering.Bounds(snap.Entries)
	if target := cur.Order + delta; target > hi || target < max(lo, 1) {
		return cur, nil
	}

	if _, err := s.engine.Reorder(ctx, id, delta); err != nil {
		return nil, upstream(err)
	}
	e, err := s.repo.Get(ctx, id)
	return e, upstream(err)
}

// DeleteEntry removes the entry record, renormalizes the remaining orders
// and then deletes both assets. Asset failures are logged and reported in
// the result but never undo the metadata delete.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) (*models.DeleteResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, upstream(err)
	}

	if err := s.engine.RenormalizeAfterDelete(ctx, id); err != nil {
		return nil, upstream(err)
	}

	res := &models.DeleteResult{MetadataDeleted: true}
	res.AssetsDeleted = s.dropAssets(ctx, e.ImageKey, e.ThumbnailKey)
	s.logger.Info(ctx, "entry deleted", "id", id, "assetsDeleted", res.AssetsDeleted)
	return res, nil
}
