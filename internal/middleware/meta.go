package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	queryKey        = "query"
	processingKey   = "processing_time_ms"
	startedKey      = "response_started"
)

// WithResponseMeta initialises per-request response metadata and stamps the processing time.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Set(startedKey, time.Now())
		c.Next()
	}
}

// SetCacheHit records whether the payload came from the report cache.
func SetCacheHit(c *gin.Context, hit bool) {
	ensureMeta(c)[cacheHitKey] = hit
}

// SetQuery echoes the normalized filter so the view can be bookmarked.
func SetQuery(c *gin.Context, query url.Values) {
	ensureMeta(c)[queryKey] = query.Encode()
}

// ResponseMeta returns the metadata collected so far with processing_time_ms filled in.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	meta := ensureMeta(c)
	started := time.Now()
	if value, ok := c.Get(startedKey); ok {
		if t, ok := value.(time.Time); ok {
			started = t
		}
	}
	meta[processingKey] = time.Since(started).Milliseconds()
	return meta
}

func ensureMeta(c *gin.Context) map[string]interface{} {
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
