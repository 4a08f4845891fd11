package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimitKey(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{remote: "198.51.100.10:1234", want: "198.51.100.10"},
		{remote: "203.0.113.1", want: "203.0.113.1"},
		{remote: net.JoinHostPort("::ffff:198.51.100.10", "80"), want: "198.51.100.10"},
		{remote: net.JoinHostPort("2001:db8:1:2:aaaa::1", "443"), want: "2001:db8:1:2::/64"},
		{remote: net.JoinHostPort("2001:db8:1:2:bbbb::9", "443"), want: "2001:db8:1:2::/64"},
		{remote: "not-an-ip", want: "not-an-ip"},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remote
		if got := limitKey(req); got != tc.want {
			t.Errorf("limitKey(%q) = %q, want %q", tc.remote, got, tc.want)
		}
	}
}

func TestIPLimiterBurstAndRefill(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPLimiter(60, 2)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("203.0.113.1"); !ok {
			t.Fatalf("request %d denied inside burst", i+1)
		}
	}
	ok, wait := l.Allow("203.0.113.1")
	if ok || wait <= 0 || wait > time.Second {
		t.Fatalf("Allow() = %v, %v, want denied with wait <= 1s", ok, wait)
	}
	if ok, _ := l.Allow("203.0.113.2"); !ok {
		t.Fatal("other ip should have its own bucket")
	}

	now = now.Add(time.Second)
	if ok, _ := l.Allow("203.0.113.1"); !ok {
		t.Fatal("token should refill after one second")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	l := NewIPLimiter(1, 1)
	h := RateLimit(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.7:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}
