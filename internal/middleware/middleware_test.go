// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/guardops/internal/authz"
	"github.com/carterperez-dev/guardops/internal/config"
	"github.com/carterperez-dev/guardops/internal/core"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || w.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("incoming id not kept: %q", seen)
	}
}

func TestRecovererReturns500(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "boom") {
		t.Error("panic value leaked to client")
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	if !strings.Contains(buf.String(), `"status":418`) {
		t.Errorf("log line missing status: %s", buf.String())
	}
}

func TestCORS(t *testing.T) {
	h := CORS(config.CORSConfig{
		AllowedOrigins:   []string{"https://console.example"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           60,
	})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/auth/me", nil)
	req.Header.Set("Origin", "https://console.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://console.example" {
		t.Errorf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("foreign origin allowed")
	}
}

func TestRateLimiterFallsBackToLocal(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, RateLimitConfig{
		Limit:   PerMinute(1, 2),
		KeyFunc: KeyWithScope("login", KeyByIP),
	})
	h := rl.Handler(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := core.NewMetrics("test")

	h := Metrics(m)(http.HandlerFunc(okHandler))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(w.Body.String(), `test_http_requests_total{method="GET",route="unmatched",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", w.Body.String())
	}
}

func TestRateLimitKeys(t *testing.T) {
	proxied := httptest.NewRequest(http.MethodGet, "/guard/shifts/current", nil)
	proxied.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.2")
	if got := KeyByIP(proxied); got != "ratelimit:ip:10.0.0.2" {
		t.Errorf("KeyByIP(proxied) = %q", got)
	}

	anon := httptest.NewRequest(http.MethodGet, "/guard/shifts/current", nil)
	anon.RemoteAddr = "203.0.113.7:5555"
	if got := KeyByPrincipal(anon); got != "ratelimit:ip:203.0.113.7" {
		t.Errorf("KeyByPrincipal(anonymous) = %q", got)
	}

	authed := anon.WithContext(WithPrincipal(anon.Context(), &authz.Principal{
		UserID:   "guard-1",
		Role:     authz.RoleGuard,
		TenantID: "tenant-a",
	}))
	if got := KeyWithScope("caller", KeyByPrincipal)(authed); got != "caller:ratelimit:user:guard-1" {
		t.Errorf("scoped principal key = %q", got)
	}
}

func TestBucketStoreRefillsAndSweeps(t *testing.T) {
	s := newBucketStore()
	limit := PerMinute(60, 2)
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	for i, want := range []int{1, 1, 0} {
		if got := s.take("k", limit, start).Allowed; got != want {
			t.Errorf("take %d allowed = %d, want %d", i, got, want)
		}
	}

	blocked := s.take("k", limit, start)
	if blocked.RetryAfter != time.Second {
		t.Errorf("retry after = %v, want 1s", blocked.RetryAfter)
	}
	if s.take("k", limit, start.Add(time.Second)).Allowed != 1 {
		t.Error("token not refilled after one interval")
	}

	s.take("other", limit, start.Add(20*time.Minute))
	if _, ok := s.buckets["k"]; ok {
		t.Error("idle bucket survived the sweep")
	}
}
