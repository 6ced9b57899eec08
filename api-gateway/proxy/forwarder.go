package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/car-rental/backend/services/common/middleware"
)

// hopHeaders are connection-scoped and never copied across the proxy.
var hopHeaders = map[string]struct{}{
	"connection":          {},
	"keep-alive":          {},
	"proxy-authenticate":  {},
	"proxy-authorization": {},
	"te":                  {},
	"trailers":            {},
	"transfer-encoding":   {},
	"upgrade":             {},
}

// Forwarder relays a gateway request to one backend service, keeping the
// path and query as received.
type Forwarder struct {
	client *http.Client
	logger *zap.Logger
}

func NewForwarder(timeout time.Duration, logger *zap.Logger) *Forwarder {
	return &Forwarder{client: &http.Client{Timeout: timeout}, logger: logger}
}

// To returns a handler that forwards to targetBase (scheme://host:port).
func (f *Forwarder) To(targetBase string) gin.HandlerFunc {
	base := strings.TrimRight(targetBase, "/")
	return func(c *gin.Context) {
		f.forward(c, base)
	}
}

func (f *Forwarder) forward(c *gin.Context, base string) {
	targetURL := base + c.Request.URL.Path
	if c.Request.URL.RawQuery != "" {
		targetURL += "?" + c.Request.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
	if err != nil {
		f.logger.Error("Failed to create forward request", zap.String("url", targetURL), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}
	req.ContentLength = c.Request.ContentLength
	copyHeaders(req.Header, c.Request.Header)
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Failed to forward request",
			zap.String("method", c.Request.Method),
			zap.String("url", targetURL),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Service unreachable"})
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		lk := strings.ToLower(k)
		// CORS and security headers come from the gateway's own middleware.
		if strings.HasPrefix(lk, "access-control-") || isHop(lk) {
			continue
		}
		c.Writer.Header()[k] = v
	}
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		f.logger.Warn("Failed to copy response body", zap.String("url", targetURL), zap.Error(err))
	}
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		if isHop(strings.ToLower(k)) {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
}

func isHop(lowerKey string) bool {
	_, ok := hopHeaders[lowerKey]
	return ok
}
