// Package rest exposes the gallery services over HTTP using gin.
package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Entries *EntryHandler
	Publish *PublishHandler
	Logger  logging.Logger

	// TokenSecret enables bearer authentication on the API routes when set.
	TokenSecret string

	// MaxBodyBytes limits API request bodies; zero means defaultMaxBodyBytes.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 16 << 20

// NewRouter builds the gin engine with CORS, access logging, metrics and
// the entry and publish routes.
func NewRouter(opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	metrics.MustRegister()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	if opts.Logger != nil {
		r.Use(accessLog(opts.Logger))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	api := r.Group("")
	api.Use(limitBody(maxBody))
	if opts.TokenSecret != "" {
		api.Use(bearerAuth([]byte(opts.TokenSecret)))
	}

	if opts.Entries != nil {
		entries := api.Group("/entries")
		entries.GET("", opts.Entries.List)
		entries.PUT("", opts.Entries.Create)
		entries.POST("", opts.Entries.Update)
		entries.DELETE("", opts.Entries.Delete)
		entries.GET("/:id", opts.Entries.Get)
		entries.POST("/:id", opts.Entries.Update)
		entries.DELETE("/:id", opts.Entries.Delete)
		entries.POST("/:id/move", opts.Entries.Move)
	}
	if opts.Publish != nil {
		api.POST("/publish", opts.Publish.Publish)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRouteMessage})
	})

	return r
}
