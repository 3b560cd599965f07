package api

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/killallgit/transcribe-relay/api/types"
	apperrors "github.com/killallgit/transcribe-relay/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"

	// multipartOverhead covers boundaries and part headers around the audio bytes
	multipartOverhead = 1 << 20

	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

// limiterScopes gives every PerClientRateLimit instance its own key space
var limiterScopes atomic.Int64

// clientLimiter holds a rate limiter and its last accessed time
type clientLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (cl *clientLimiter) touch(now time.Time) {
	cl.mu.Lock()
	cl.lastSeen = now
	cl.mu.Unlock()
}

func (cl *clientLimiter) idleSince(now time.Time) time.Duration {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return now.Sub(cl.lastSeen)
}

// CORS allows browser clients from the configured origins
func CORS(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+requestIDHeader)
		c.Header("Access-Control-Expose-Headers", requestIDHeader)
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestID tags each request with an id, reusing one supplied by the caller
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// SecurityHeaders sets conservative response headers for an API-only service
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// RequestSizeLimitForUploads caps request bodies at the upload limit plus multipart overhead
func RequestSizeLimitForUploads(maxUpload int64) gin.HandlerFunc {
	return RequestSizeLimitWithSize(maxUpload + multipartOverhead)
}

func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost ||
			c.Request.Method == http.MethodPut ||
			c.Request.Method == http.MethodPatch {
			if c.Request.ContentLength > maxBytes {
				err := apperrors.Newf(apperrors.ErrCodePayloadTooLarge, "request body exceeds %d bytes", maxBytes).
					WithDetail("max_size", maxBytes)
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.NewErrorResponse(err))
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rps int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go cleanupOldRateLimiters(rateLimiters, cleanupStop, limiterSweepInterval)
	})

	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = rps
	}

	scope := strconv.FormatInt(limiterScopes.Add(1), 10)

	return func(c *gin.Context) {
		key := scope + "|" + c.ClientIP()
		now := time.Now()

		limiterInterface, _ := rateLimiters.LoadOrStore(key, &clientLimiter{
			limiter:  rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
			lastSeen: now,
		})

		cl := limiterInterface.(*clientLimiter)
		cl.touch(now)

		if !cl.limiter.Allow() {
			err := apperrors.New(apperrors.ErrCodeRateLimited, "rate limit exceeded, please slow down your requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.NewErrorResponse(err))
			return
		}
		c.Next()
	}
}

func cleanupOldRateLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			evictIdleLimiters(rateLimiters, time.Now(), limiterIdleTTL)
		case <-cleanupStop:
			return
		}
	}
}

// evictIdleLimiters drops limiters unused for longer than ttl and returns how many were removed
func evictIdleLimiters(rateLimiters *sync.Map, now time.Time, ttl time.Duration) int {
	removed := 0
	rateLimiters.Range(func(key, value interface{}) bool {
		cl, ok := value.(*clientLimiter)
		if !ok || cl.idleSince(now) > ttl {
			rateLimiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
