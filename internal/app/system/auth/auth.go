package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/httpjson"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity                                                                   |
|                                                                            |
| Callers prove who they are in one of two ways:                             |
|   - mobile: "Authorization: Bearer <token>", a securecookie-signed uid     |
|     minted by the identity front door with the shared key                  |
|   - web: a cookie session created by exchanging a token at POST /session   |
| Both carry the same uid. Handlers only ever see *SessionUser.              |
*─────────────────────────────────────────────────────────────────────────────*/

const uidKey = "uid"

// ErrInvalidToken is returned by VerifyToken for any bad or expired token.
var ErrInvalidToken = errors.New("invalid token")

// SessionUser is the signed-in caller injected into r.Context().
type SessionUser struct {
	ID string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil && u.ID != ""
}

// UserID returns the signed-in uid or "".
func UserID(r *http.Request) string {
	if u, ok := CurrentUser(r); ok {
		return u.ID
	}
	return ""
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// WithTestUser returns r signed in as uid. For handler tests.
func WithTestUser(r *http.Request, uid string) *http.Request {
	return withUser(r, uid)
}

func withUser(r *http.Request, uid string) *http.Request {
	return r.WithContext(WithUser(r.Context(), &SessionUser{ID: uid}))
}

// SessionManager verifies bearer tokens and manages cookie sessions.
type SessionManager struct {
	store     *sessions.CookieStore
	tokens    *securecookie.SecureCookie
	name      string
	tokenName string
	log       *zap.Logger
}

// NewSessionManager builds a SessionManager. key signs both tokens and
// session cookies and must be at least 32 bytes. maxAge bounds token and
// session lifetime. secure marks cookies Secure + SameSite=None; use false
// for local development over http.
func NewSessionManager(key, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("auth token key must be at least 32 characters (got %d)", len(key))
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store := sessions.NewCookieStore([]byte(key))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	tokens := securecookie.New([]byte(key), nil)
	tokens.MaxAge(int(maxAge.Seconds()))

	logger.Info("session manager initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.Duration("max_age", maxAge))

	return &SessionManager{
		store:     store,
		tokens:    tokens,
		name:      name,
		tokenName: name + "-token",
		log:       logger,
	}, nil
}

// MintToken signs uid into a bearer token.
func (sm *SessionManager) MintToken(uid string) (string, error) {
	if strings.TrimSpace(uid) == "" {
		return "", fmt.Errorf("uid is empty")
	}
	return sm.tokens.Encode(sm.tokenName, uid)
}

// VerifyToken returns the uid inside a token minted by MintToken.
func (sm *SessionManager) VerifyToken(token string) (string, error) {
	var uid string
	if err := sm.tokens.Decode(sm.tokenName, token, &uid); err != nil || uid == "" {
		return "", ErrInvalidToken
	}
	return uid, nil
}

// LoadUser injects the user into context when the request carries a valid
// bearer token or session cookie. An invalid bearer token is not an error
// here; RequireSignedIn decides.
func (sm *SessionManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok, ok := bearer(r); ok {
			if uid, err := sm.VerifyToken(tok); err == nil {
				r = withUser(r, uid)
			} else {
				sm.log.Debug("bearer token rejected", zap.String("path", r.URL.Path))
			}
			next.ServeHTTP(w, r)
			return
		}

		if sess, err := sm.store.Get(r, sm.name); err == nil {
			if uid, _ := sess.Values[uidKey].(string); uid != "" {
				r = withUser(r, uid)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn answers 401 unless LoadUser found a user.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="courtside"`)
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized", "Sign in required.")
	})
}

// SignIn stores uid in the cookie session.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, uid string) error {
	sess, _ := sm.store.Get(r, sm.name) // a tampered cookie yields a fresh session
	sess.Values[uidKey] = uid
	return sess.Save(r, w)
}

// SignOut expires the cookie session.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	delete(sess.Values, uidKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// helpers

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}
