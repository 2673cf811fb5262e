package handler

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(1, 1)
	l.now = func() time.Time { return now }

	if !l.allow("a") {
		t.Fatal("first request should pass")
	}
	if l.allow("a") {
		t.Fatal("second request within a second should be limited")
	}
	if !l.allow("b") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Second)
	if !l.allow("a") {
		t.Fatal("bucket should refill after a second")
	}

	now = now.Add(visitorIdle + time.Second)
	l.allow("c")
	if _, ok := l.visitors["a"]; ok {
		t.Error("idle visitor should be pruned")
	}
}

func TestIPLimiterUnlimited(t *testing.T) {
	l := newIPLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.allow("a") {
			t.Fatalf("request %d limited with rate 0", i)
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:80", "2001:db8::1"},
		{"192.0.2.7", "192.0.2.7"},
	}
	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remote, got, tt.want)
			}
		})
	}
}
