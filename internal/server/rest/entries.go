package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/server/metrics"
	"github.com/dmitrijs2005/gallery/internal/server/models"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/gin-gonic/gin"
)

// EntryService is what the entry handlers need from the service layer.
type EntryService interface {
	ListEntries(ctx context.Context) ([]*models.Entry, error)
	GetEntry(ctx context.Context, id string) (*models.Entry, error)
	CreateEntry(ctx context.Context, req services.CreateRequest) (*services.CreateResult, error)
	UpdateEntry(ctx context.Context, id string, req services.UpdateRequest) (*models.Entry, error)
	ReorderEntry(ctx context.Context, id, direction string) (*models.Entry, error)
	DeleteEntry(ctx context.Context, id string) (*models.DeleteResult, error)
}

type EntryHandler struct {
	svc EntryService
}

func NewEntryHandler(svc EntryService) *EntryHandler {
	return &EntryHandler{svc: svc}
}

type createEntryRequest struct {
	Name        string `json:"name"`
	MimeType    string `json:"mimeType"`
	Image       string `json:"image"`
	DateCreated string `json:"dateCreated"`
}

// dateLayouts are tried in order; a bare date is taken as UTC midnight.
var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

// parseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date, as sent by
// a date input. An empty string means no date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: dateCreated %q is neither RFC 3339 nor YYYY-MM-DD", common.ErrorValidation, s)
}

type createEntryResponse struct {
	Entry      *models.Entry         `json:"entry"`
	SignedURLs *models.UploadTargets `json:"signedUrls,omitempty"`
}

type updateEntryRequest struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

type idRequest struct {
	ID string `json:"id"`
}

type moveRequest struct {
	Direction string `json:"direction"`
}

// bind decodes the JSON body into dst. An empty body leaves dst untouched.
func bind(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", common.ErrorTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", common.ErrorValidation, err)
	}
	return nil
}

// pickID prefers the id in the path over the one in the body.
func pickID(c *gin.Context, fromBody string) string {
	if id := c.Param("id"); id != "" {
		return id
	}
	return fromBody
}

func (h *EntryHandler) List(c *gin.Context) {
	list, err := h.svc.ListEntries(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": list})
}

func (h *EntryHandler) Get(c *gin.Context) {
	e, err := h.svc.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *EntryHandler) Create(c *gin.Context) {
	var req createEntryRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}

	dateCreated, err := parseDate(req.DateCreated)
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := h.svc.CreateEntry(c.Request.Context(), services.CreateRequest{
		Name:        req.Name,
		MimeType:    req.MimeType,
		Image:       req.Image,
		DateCreated: dateCreated,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, createEntryResponse{Entry: res.Entry, SignedURLs: res.SignedURLs})
}

func (h *EntryHandler) Update(c *gin.Context) {
	var req updateEntryRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}

	e, err := h.svc.UpdateEntry(c.Request.Context(), pickID(c, req.ID), services.UpdateRequest{
		Name:  req.Name,
		Order: req.Order,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *EntryHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}

	e, err := h.svc.ReorderEntry(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": e})
}

func (h *EntryHandler) Delete(c *gin.Context) {
	var req idRequest
	if err := bind(c, &req); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.svc.DeleteEntry(c.Request.Context(), pickID(c, req.ID))
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.RecordAssetCleanup(res.AssetsDeleted)
	c.JSON(http.StatusOK, res)
}
