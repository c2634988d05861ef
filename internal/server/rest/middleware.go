package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gallery/internal/common"
	"github.com/dmitrijs2005/gallery/internal/logging"
	"github.com/dmitrijs2005/gallery/internal/server/auth"
	"github.com/dmitrijs2005/gallery/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const subjectKey = "subject"

// bearerAuth rejects requests without a valid HMAC bearer token.
func bearerAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthorized.Error()})
			return
		}

		subject, err := auth.SubjectFromToken(strings.TrimSpace(header[7:]), secret)
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// limitBody caps how much of a request body handlers may read.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

const requestIDHeader = "X-Request-ID"

// accessLog tags the request context with a request id, logs each request
// and feeds the HTTP metrics.
func accessLog(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logging.WithFields(c.Request.Context(), "request_id", id))

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveRequest(c.FullPath(), c.Request.Method, status, elapsed)

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", elapsed,
		}
		if s := c.GetString(subjectKey); s != "" {
			args = append(args, "subject", s)
		}
		if status >= http.StatusInternalServerError {
			logger.Error(c.Request.Context(), "request failed", append(args, "errors", c.Errors.String())...)
			return
		}
		logger.Info(c.Request.Context(), "request", args...)
	}
}
