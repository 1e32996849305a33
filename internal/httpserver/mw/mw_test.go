package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/teachstack/edudir/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdmin(t *testing.T) {
	log := logger.New("error", false)
	handler := RequireAdmin("secret", false, log)(okHandler())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic secret", want: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer secret", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/reload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS()(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/bookmarks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing allow-origin header")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("plain request status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("cors headers must also be set on plain requests")
	}
}

func TestRateLimitBurstThenReject(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 1})(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/metadata", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d within burst: status = %d", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/metadata", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over burst: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Errorf("429 must carry Retry-After")
	}

	// A different client IP gets its own bucket.
	req = httptest.NewRequest(http.MethodGet, "/api/metadata", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", rec.Code)
	}
}

func TestLimiterRefills(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 60})

	now := time.Now()
	if ok, _, _ := l.allow("ip", now); !ok {
		t.Fatal("first request must pass")
	}
	if ok, _, _ := l.allow("ip", now); ok {
		t.Fatal("bucket should be empty")
	}
	if ok, _, _ := l.allow("ip", now.Add(time.Second)); !ok {
		t.Errorf("one token per second should have refilled")
	}
}
