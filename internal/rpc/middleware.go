package rpc

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pairup/pairup/internal/activity"
)

const (
	RequestIDHeader = "X-Request-Id"

	requestIDKey = "request_id"
	recordIDKey  = "record_id"
)

// corsMiddleware allows every origin when origins is empty or contains "*"
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cors.New(cfg)
}

// RequestIDMiddleware reuses an incoming X-Request-Id or assigns a new UUID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLoggerMiddleware logs every request once it completes
func RequestLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}

		if status >= http.StatusInternalServerError {
			logger.Error("http.request", fields...)
			return
		}
		logger.Info("http.request", fields...)
	}
}

// RecoveryMiddleware turns a panic into a logged 500
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("error", recovered),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	})
}

// ActivityMiddleware records each procedure call in the activity log. Reads of
// the log itself and health checks are not recorded.
func ActivityMiddleware(as *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		if as.Activity == nil {
			return
		}
		operation := strings.TrimPrefix(c.FullPath(), rpcPrefix+"/")
		if operation == "" || operation == c.FullPath() || operation == "listActivity" || operation == "health" {
			return
		}

		entry := &activity.Entry{
			Operation:  operation,
			Success:    c.Writer.Status() < http.StatusBadRequest,
			RequestID:  c.GetString(requestIDKey),
			RemoteAddr: c.ClientIP(),
			Timestamp:  startTime.UTC(),
		}
		if id, ok := c.Get(recordIDKey); ok {
			if recordID, ok := id.(int64); ok && recordID > 0 {
				entry.RecordID = &recordID
			}
		}
		if len(c.Errors) > 0 {
			entry.ErrorMsg = c.Errors.Last().Error()
		}

		as.Activity.RecordAsync(entry)
	}
}
