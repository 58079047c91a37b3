package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("throttles a client past its burst", func(t *testing.T) {
		rl := NewRateLimiter(1, 2)
		handler := rl.Limit("/api")(okHandler())

		statuses := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest("POST", "/api/urls", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			statuses = append(statuses, rr.Code)
		}

		if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
			t.Errorf("first two requests = %v, want 200s", statuses[:2])
		}
		if statuses[2] != http.StatusTooManyRequests {
			t.Errorf("third request = %d, want 429", statuses[2])
		}
	})

	t.Run("tracks clients independently", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		handler := rl.Limit("/api")(okHandler())

		first := httptest.NewRequest("POST", "/api/urls", nil)
		first.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, first)
		if rr.Code != http.StatusOK {
			t.Fatalf("first client status = %d, want 200", rr.Code)
		}

		second := httptest.NewRequest("POST", "/api/urls", nil)
		second.RemoteAddr = "10.0.0.2:1234"
		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, second)
		if rr.Code != http.StatusOK {
			t.Errorf("second client status = %d, want 200", rr.Code)
		}
	})

	t.Run("skips paths outside the prefix", func(t *testing.T) {
		rl := NewRateLimiter(1, 1)
		handler := rl.Limit("/api")(okHandler())

		// Redirect traffic is never throttled.
		for range 5 {
			req := httptest.NewRequest("GET", "/abc123", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != http.StatusOK {
				t.Fatalf("redirect path status = %d, want 200", rr.Code)
			}
		}
	})
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{
			name:       "remote addr host",
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "prefers x-forwarded-for",
			remoteAddr: "10.0.0.1:1234",
			forwarded:  "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "takes first forwarded hop",
			remoteAddr: "10.0.0.1:1234",
			forwarded:  "203.0.113.9, 198.51.100.2",
			want:       "203.0.113.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
