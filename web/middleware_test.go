package web

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(RateLimitMiddleware(rl))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(10), 20)

	if rl.rate != rate.Limit(10) {
		t.Errorf("Expected rate 10, got %v", rl.rate)
	}
	if rl.burst != 20 {
		t.Errorf("Expected burst 20, got %d", rl.burst)
	}
	if rl.visitors == nil {
		t.Error("Visitors map should be initialized")
	}
}

func TestGetLimiter(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(10), 20)

	limiter1 := rl.getLimiter("192.168.1.1")
	limiter2 := rl.getLimiter("192.168.1.1")
	if limiter1 != limiter2 {
		t.Error("getLimiter should return the same limiter for the same IP")
	}

	if limiter1 == rl.getLimiter("192.168.1.2") {
		t.Error("getLimiter should return different limiters for different IPs")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestCount   int
		rateLimit      rate.Limit
		burst          int
		expectedStatus int
	}{
		{name: "under limit", requestCount: 5, rateLimit: rate.Limit(10), burst: 10, expectedStatus: http.StatusOK},
		{name: "at burst limit", requestCount: 10, rateLimit: rate.Limit(1), burst: 10, expectedStatus: http.StatusOK},
		{name: "over limit", requestCount: 15, rateLimit: rate.Limit(1), burst: 10, expectedStatus: http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := limitedRouter(NewRateLimiter(tt.rateLimit, tt.burst))

			var lastStatus int
			for i := 0; i < tt.requestCount; i++ {
				lastStatus = hit(router, "192.168.1.100").Code
			}

			if lastStatus != tt.expectedStatus {
				t.Errorf("Expected final status %d, got %d", tt.expectedStatus, lastStatus)
			}
		})
	}
}

func TestRateLimitMiddlewareErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := limitedRouter(NewRateLimiter(rate.Limit(1), 1))

	if w := hit(router, "192.168.1.100"); w.Code != http.StatusOK {
		t.Errorf("First request should succeed, got status %d", w.Code)
	}

	w := hit(router, "192.168.1.100")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Second request should be rate limited, got status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Muitas requisições") {
		t.Errorf("Expected rate limit message, got: %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareDifferentIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := limitedRouter(NewRateLimiter(rate.Limit(1), 1))

	if w := hit(router, "192.168.1.1"); w.Code != http.StatusOK {
		t.Errorf("First IP should succeed, got status %d", w.Code)
	}
	if w := hit(router, "192.168.1.2"); w.Code != http.StatusOK {
		t.Errorf("Second IP should succeed, got status %d", w.Code)
	}
}

func TestEvictIdle(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(10), 20)
	clock := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 50; i++ {
		rl.getLimiter(fmt.Sprintf("10.0.0.%d", i))
	}

	clock = clock.Add(limiterIdleTTL / 2)
	rl.getLimiter("10.0.0.1")

	clock = clock.Add(limiterIdleTTL/2 + time.Second)
	if removed := rl.evictIdle(limiterIdleTTL); removed != 49 {
		t.Errorf("Expected 49 idle visitors removed, got %d", removed)
	}

	rl.mu.Lock()
	_, kept := rl.visitors["10.0.0.1"]
	count := len(rl.visitors)
	rl.mu.Unlock()

	if count != 1 || !kept {
		t.Errorf("Expected only the recent visitor to remain, got %d", count)
	}
}

func TestMaxBytesMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		maxBytes       int64
		bodySize       int
		expectedStatus int
	}{
		{name: "under limit", maxBytes: 1024, bodySize: 512, expectedStatus: http.StatusOK},
		{name: "at limit", maxBytes: 1024, bodySize: 1024, expectedStatus: http.StatusOK},
		{name: "over limit by content-length", maxBytes: 1024, bodySize: 2048, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(MaxBytesMiddleware(tt.maxBytes))
			router.POST("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/test", strings.NewReader(strings.Repeat("x", tt.bodySize)))
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusRequestEntityTooLarge && !strings.Contains(w.Body.String(), "muito grande") {
				t.Errorf("Expected body size message, got: %s", w.Body.String())
			}
		})
	}
}
