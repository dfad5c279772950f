package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func newLimitedRouter(limit rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(limit, burst))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func getWithIP(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	router := newLimitedRouter(1, 2)

	for i := 0; i < 2; i++ {
		if w := getWithIP(router, "192.0.2.1"); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, w.Code)
		}
	}

	if w := getWithIP(router, "192.0.2.1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected 429 after burst exhausted, got %d", w.Code)
	}
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	router := newLimitedRouter(1, 1)

	if w := getWithIP(router, "192.0.2.1"); w.Code != http.StatusOK {
		t.Fatalf("Expected first IP to pass, got %d", w.Code)
	}
	if w := getWithIP(router, "192.0.2.1"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected first IP to be limited, got %d", w.Code)
	}
	if w := getWithIP(router, "192.0.2.2"); w.Code != http.StatusOK {
		t.Errorf("Expected second IP to have its own bucket, got %d", w.Code)
	}
}

func newDistributedRouter(t *testing.T, client *redis.Client, limit *RateLimit) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rl := NewDistributedRateLimiter(client)
	r := gin.New()
	r.POST("/login", rl.CreateMiddleware("login", limit), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func postWithIP(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/login", nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestDistributedRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	router := newDistributedRouter(t, client, &RateLimit{
		Rate:    3,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	})

	for i := 0; i < 3; i++ {
		if w := postWithIP(router, "192.0.2.1"); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d", i, w.Code)
		}
	}

	w := postWithIP(router, "192.0.2.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 over the window limit, got %d", w.Code)
	}
	if w.Header().Get("X-RateLimit-Limit") != "3" {
		t.Errorf("Expected X-RateLimit-Limit header, got %q", w.Header().Get("X-RateLimit-Limit"))
	}

	if w := postWithIP(router, "192.0.2.2"); w.Code != http.StatusOK {
		t.Errorf("Expected a different IP to be unaffected, got %d", w.Code)
	}
}

// Login must stay available when Redis is down.
func TestDistributedRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	router := newDistributedRouter(t, client, &RateLimit{
		Rate:    1,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	})

	for i := 0; i < 3; i++ {
		w := postWithIP(router, "192.0.2.1")
		if w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected fail-open 200, got %d", i, w.Code)
		}
		if w.Header().Get("X-RateLimit-Error") != "true" {
			t.Errorf("Request %d: expected X-RateLimit-Error header", i)
		}
	}
}
