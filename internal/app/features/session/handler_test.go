package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/courtside/internal/app/features/errors"
	"github.com/dalemusser/courtside/internal/app/features/session"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

// newServer mounts the session routes and a /whoami probe behind LoadUser.
func newServer(t *testing.T) (http.Handler, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager(testKey, "courtside-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	h := session.NewHandler(sm, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())

	r := chi.NewRouter()
	r.Use(sm.LoadUser)
	r.Mount("/session", session.Routes(h))
	r.With(sm.RequireSignedIn).Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(auth.UserID(r)))
	})
	return r, sm
}

func TestSignIn_RequiresBearer(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/session", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSignInThenCookie(t *testing.T) {
	srv, sm := newServer(t)
	tok, err := sm.MintToken("user-1")
	if err != nil {
		t.Fatalf("MintToken: %v", err)
	}

	req := httptest.NewRequest("POST", "/session", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req = httptest.NewRequest("GET", "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "user-1" {
		t.Fatalf("cookie auth: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestSignOut(t *testing.T) {
	srv, _ := newServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("DELETE", "/session", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "courtside-session" && c.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected an expiring session cookie")
	}
}
