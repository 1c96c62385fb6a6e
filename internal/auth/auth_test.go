package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

// fakeGoogle serves a token endpoint and the userinfo API.
func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","refresh_token":"rt-1","expires_in":3600}`))
		case "refresh_token":
			_, _ = w.Write([]byte(`{"access_token":"at-2","token_type":"Bearer","expires_in":3600}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	})
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id": "u-1", "email": "ada@example.com", "name": "Ada", "picture": "https://example.com/ada.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newAuthenticator(t *testing.T) (*Authenticator, *MemoryStore) {
	t.Helper()
	srv := fakeGoogle(t)
	store := NewMemoryStore()
	a := New(Config{
		ClientID:         "client",
		ClientSecret:     "secret",
		RedirectURL:      "http://localhost:8080/oauth2/callback",
		Endpoint:         &oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		UserInfoEndpoint: srv.URL + "/",
		HTTPClient:       srv.Client(),
	}, store, logger.NewNop())
	return a, store
}

func stateOf(t *testing.T, loginURL string) string {
	t.Helper()
	u, err := url.Parse(loginURL)
	require.NoError(t, err)
	assert.Equal(t, "offline", u.Query().Get("access_type"))
	assert.Contains(t, u.Query().Get("scope"), "https://www.googleapis.com/auth/drive.file")
	return u.Query().Get("state")
}

func TestLoginAndComplete(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthenticator(t)

	loginURL, err := a.LoginURL(ctx)
	require.NoError(t, err)
	state := stateOf(t, loginURL)
	require.NotEmpty(t, state)

	sess, err := a.Complete(ctx, state, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "u-1", sess.UserID)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.Equal(t, "at-1", sess.AccessToken)
	assert.Equal(t, "rt-1", sess.RefreshToken)
	assert.True(t, sess.Credential().Valid())

	stored, err := store.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, sess.Email, stored.Email)

	_, err = a.Complete(ctx, state, "good-code")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthorized), "state is single use")
}

func TestCompleteRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	a, _ := newAuthenticator(t)

	_, err := a.Complete(ctx, "unknown", "good-code")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthorized))

	_, err = a.Complete(ctx, "", "")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthorized))

	loginURL, err := a.LoginURL(ctx)
	require.NoError(t, err)
	_, err = a.Complete(ctx, stateOf(t, loginURL), "bad-code")
	assert.True(t, apperr.Is(err, apperr.ErrUnauthorized))
}

func TestCredentialRefreshesExpiredToken(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthenticator(t)

	now := time.Now()
	sess := &Session{
		ID:           "s-1",
		AccessToken:  "stale",
		RefreshToken: "rt-1",
		TokenExpiry:  now.Add(-time.Minute),
		ExpiresAt:    now.Add(time.Hour),
	}

	cred, err := a.Credential(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "at-2", cred.AccessToken)
	assert.Equal(t, "rt-1", sess.RefreshToken)

	stored, err := store.GetSession(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "at-2", stored.AccessToken)
}

func TestCredentialKeepsValidToken(t *testing.T) {
	a, _ := newAuthenticator(t)
	sess := &Session{AccessToken: "fresh", RefreshToken: "rt-1", TokenExpiry: time.Now().Add(time.Hour)}

	cred, err := a.Credential(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "fresh", cred.AccessToken)
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthenticator(t)
	require.NoError(t, store.SaveSession(ctx, &Session{ID: "s-1", Email: "ada@example.com"}, time.Hour))

	var seen *Session
	h := a.LoadSession(RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "s-1"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ada@example.com", seen.Email)

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer s-1")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "unknown"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	ctx := context.Background()
	a, store := newAuthenticator(t)
	sess := &Session{ID: "s-1"}
	require.NoError(t, store.SaveSession(ctx, sess, time.Hour))

	rec := httptest.NewRecorder()
	require.NoError(t, a.Logout(ctx, rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)

	got, err := store.GetSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.SaveSession(ctx, &Session{ID: "s"}, time.Minute))
	require.NoError(t, store.SaveState(ctx, "st", time.Minute))

	now = now.Add(2 * time.Minute)
	got, err := store.GetSession(ctx, "s")
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err := store.TakeState(ctx, "st")
	require.NoError(t, err)
	assert.False(t, ok)
}
