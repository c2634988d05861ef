package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gallery/internal/server/metrics"
	"github.com/dmitrijs2005/gallery/internal/server/services"
	"github.com/gin-gonic/gin"
)

type Publisher interface {
	Publish(ctx context.Context) (*services.PublishResult, error)
}

type PublishHandler struct {
	svc Publisher
}

func NewPublishHandler(svc Publisher) *PublishHandler {
	return &PublishHandler{svc: svc}
}

func (h *PublishHandler) Publish(c *gin.Context) {
	res, err := h.svc.Publish(c.Request.Context())
	if err != nil {
		metrics.RecordPublish(err, 0)
		writeError(c, err)
		return
	}
	metrics.RecordPublish(nil, res.Count)
	c.JSON(http.StatusOK, gin.H{
		"message": "Published successfully",
		"key":     res.Key,
		"count":   res.Count,
	})
}
