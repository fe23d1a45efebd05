package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "respcache:"

// cacheKey derives the cache key for a request path (query included).
func cacheKey(c *gin.Context) string {
	sum := sha1.Sum([]byte(c.Request.URL.RequestURI()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// bodyCaptureWriter tees the response body so it can be cached after the
// handler runs.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

// CachePage serves GET responses from the cache when present and stores
// successful responses with the given TTL. A nil cache service makes this
// a no-op.
func CachePage(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		cache := services.GetCacheService()
		if cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if cached, err := cache.Get(c.Request.Context(), key); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")
		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 && len(writer.body) > 0 {
			if err := cache.Set(c.Request.Context(), key, writer.body, ttl); err != nil {
				logger.L().Warn("failed to store response in cache", zap.Error(err))
			}
		}
	}
}

// InvalidateCache drops every cached response after a successful mutating
// request. Wire it on write routes of cached resources.
func InvalidateCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		cache := services.GetCacheService()
		if cache == nil {
			return
		}

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			if err := cache.DeletePrefix(c.Request.Context(), cacheKeyPrefix); err != nil {
				logger.L().Warn("failed to invalidate response cache", zap.Error(err))
			}
		}
	}
}
