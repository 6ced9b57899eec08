package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/yashrajoria/car-rental/backend/services/common/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerAuth(t *testing.T) {
	r := gin.New()
	r.Use(BearerAuth(auth.NewVerifier("super-secret-token")))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/ok", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	w = do(r, http.MethodGet, "/ok", http.Header{"Authorization": {"Bearer super-secret-token"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBearerAuthDisabledWithoutSecret(t *testing.T) {
	r := gin.New()
	r.Use(BearerAuth(auth.NewVerifier("")))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", nil).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2, time.Minute)
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"))
}

func TestRateLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimiter(rate.Every(time.Hour), 1, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("2.2.2.2"))
	assert.NotContains(t, rl.ips, "1.1.1.1")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(60, 1))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ok", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/ok", nil).Code)
}

func TestCORSAllowsAnyOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/ok", http.Header{"Origin": {"https://example.com"}})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := do(r, http.MethodGet, "/missing", http.Header{RequestIDHeader: {"rid-1"}})
	assert.Equal(t, "rid-1", w.Header().Get(RequestIDHeader))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zap.WarnLevel, entries[0].Level)
		assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	}
}

type recordingRecorder struct {
	mu     sync.Mutex
	counts []string
	done   chan struct{}
}

func (r *recordingRecorder) RecordCount(_ context.Context, name string, _ map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, name)
	if len(r.counts) == 2 {
		close(r.done)
	}
	return nil
}

func (r *recordingRecorder) RecordLatency(context.Context, string, time.Duration, map[string]string) error {
	return nil
}

func TestMetricsMiddleware(t *testing.T) {
	rec := &recordingRecorder{done: make(chan struct{})}
	r := gin.New()
	r.Use(MetricsMiddleware(rec, "car-service"))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	do(r, http.MethodGet, "/boom", nil)

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("metrics not recorded")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ElementsMatch(t, []string{"HTTPRequests", "HTTP5xxErrors"}, rec.counts)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(204))
	assert.Equal(t, "4xx", statusClass(402))
	assert.Equal(t, "unknown", statusClass(0))
}
