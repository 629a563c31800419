package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/httpjson"
)

func TestLimiter_AllowAndReset(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	if !l.Allow("u1") || !l.Allow("u1") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("u1") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("u2") {
		t.Fatal("other keys are independent")
	}
	if got := l.Remaining("u1"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	if l.RetryAfter("u1") <= 0 {
		t.Error("RetryAfter should be positive while limited")
	}

	l.Reset("u1")
	if !l.Allow("u1") {
		t.Error("Reset should clear the window")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("u1")
	if l.Allow("u1") {
		t.Fatal("should be limited inside the window")
	}
	now = now.Add(61 * time.Second)
	if !l.Allow("u1") {
		t.Fatal("should pass once the window expires")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	if got := ClientIP(r); got != "10.0.0.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}
	r.Header.Set("X-Real-IP", "10.0.0.8")
	if got := ClientIP(r); got != "10.0.0.8" {
		t.Errorf("X-Real-IP: got %q", got)
	}
	r.Header.Set("X-Forwarded-For", " 203.0.113.4 , 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.4" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	h := Middleware(l, func(r *http.Request) string { return r.Header.Get("X-User") }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(user string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/meetups/x/join", nil)
		r.Header.Set("X-User", user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	if rec := do("u1"); rec.Code != http.StatusNoContent {
		t.Fatalf("first: got %d", rec.Code)
	}
	rec := do("u1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	var body httpjson.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error.Code != "rate_limited" {
		t.Errorf("unexpected error body %q", rec.Body.String())
	}
	if rec := do("u2"); rec.Code != http.StatusNoContent {
		t.Fatalf("other user: got %d", rec.Code)
	}
}

func TestMiddleware_NilLimiter(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Middleware(nil, func(*http.Request) string { return "" }, nil)(next)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("nil limiter should pass, got %d", rec.Code)
		}
	}
}
