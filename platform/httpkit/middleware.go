// Package httpkit holds the gin plumbing shared by every module: request
// correlation, access logging, auth, rate limiting and error responses.
package httpkit

import (
	"context"
	"net/http"
	"time"

	"sakkanal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	headerVisitorID = "X-Visitor-ID"
	maxHeaderIDLen  = 128
)

// RequestID propagates X-Request-ID or assigns a fresh one, storing it on
// the request context for logger.WithContext. The anonymous X-Visitor-ID sent
// by the qualification site is attached as well when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" || len(id) > maxHeaderIDLen {
			id = uuid.NewString()
		}
		c.Header(headerRequestID, id)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		if visitor := c.GetHeader(headerVisitorID); visitor != "" && len(visitor) <= maxHeaderIDLen {
			ctx = context.WithValue(ctx, logger.VisitorIDKey, visitor)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLogger writes one access line per request. Errors recorded by
// HandleError are logged as well when the response is a 5xx.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		reqLog := log.WithContext(c.Request.Context())
		if status >= http.StatusInternalServerError && len(c.Errors) > 0 {
			reqLog.HTTPError(c.Request.Method, path, status, c.Errors.Last().Err, c.ClientIP())
		}
		reqLog.HTTPRequest(c.Request.Method, path, status, float64(time.Since(start).Milliseconds()), c.ClientIP())
	}
}

// SecurityHeaders sets headers for a JSON and document API: nothing served
// here is meant to be framed or to load sub-resources.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src data:; frame-ancestors 'none'")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
