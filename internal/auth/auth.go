// Package auth signs users in with Google and keeps their delegated
// Drive credential in a server-side session.
package auth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	apperr "github.com/MrSnakeDoc/drivemark/internal/errors"
	"github.com/MrSnakeDoc/drivemark/internal/filestore"
	"github.com/MrSnakeDoc/drivemark/internal/logger"
)

const (
	DefaultCookieName = "drivemark_session"
	DefaultSessionTTL = 7 * 24 * time.Hour
	stateTTL          = 10 * time.Minute

	// refreshSkew renews tokens slightly before they expire.
	refreshSkew = time.Minute
)

// DefaultScopes grants identity plus access to files the app creates.
var DefaultScopes = []string{"openid", "email", "profile", drive.DriveFileScope}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration

	// Endpoint and UserInfoEndpoint override Google's, for tests.
	Endpoint         *oauth2.Endpoint
	UserInfoEndpoint string
	HTTPClient       *http.Client
}

type Authenticator struct {
	oauth    *oauth2.Config
	cfg      Config
	sessions SessionStore
	log      logger.Logger
	now      func() time.Time
}

func New(cfg Config, sessions SessionStore, log logger.Logger) *Authenticator {
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	endpoint := google.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}

	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		cfg:      cfg,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// Sessions exposes the underlying store for readiness checks.
func (a *Authenticator) Sessions() SessionStore { return a.sessions }

func (a *Authenticator) ctx(ctx context.Context) context.Context {
	if a.cfg.HTTPClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, a.cfg.HTTPClient)
	}
	return ctx
}

// LoginURL starts the authorization code flow. The returned URL carries
// a one-time state value that Complete consumes.
func (a *Authenticator) LoginURL(ctx context.Context) (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := a.sessions.SaveState(ctx, state, stateTTL); err != nil {
		return "", apperr.StoreUnavailable("session store unavailable")
	}
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

// Complete exchanges the authorization code and opens a session.
func (a *Authenticator) Complete(ctx context.Context, state, code string) (*Session, error) {
	if state == "" || code == "" {
		return nil, apperr.Unauthorized("missing oauth state or code")
	}
	ok, err := a.sessions.TakeState(ctx, state)
	if err != nil {
		return nil, apperr.StoreUnavailable("session store unavailable")
	}
	if !ok {
		return nil, apperr.Unauthorized("invalid oauth state")
	}

	tok, err := a.oauth.Exchange(a.ctx(ctx), code)
	if err != nil {
		a.log.Warn("oauth code exchange failed", logger.Error(err))
		return nil, apperr.Unauthorized("oauth code exchange failed")
	}

	info, err := a.userInfo(ctx, tok)
	if err != nil {
		return nil, apperr.RemoteCallFailed("fetch user info", err)
	}

	id, err := randomToken()
	if err != nil {
		return nil, err
	}
	now := a.now()
	sess := &Session{
		ID:           id,
		UserID:       info.Id,
		Email:        info.Email,
		Name:         info.Name,
		Picture:      info.Picture,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenExpiry:  tok.Expiry,
		CreatedAt:    now,
		ExpiresAt:    now.Add(a.cfg.SessionTTL),
	}
	if err := a.sessions.SaveSession(ctx, sess, a.cfg.SessionTTL); err != nil {
		return nil, apperr.StoreUnavailable("session store unavailable")
	}

	a.log.Info("user signed in", logger.String("email", sess.Email))
	return sess, nil
}

func (a *Authenticator) userInfo(ctx context.Context, tok *oauth2.Token) (*oauth2api.Userinfo, error) {
	opts := []option.ClientOption{option.WithTokenSource(a.oauth.TokenSource(a.ctx(ctx), tok))}
	if a.cfg.UserInfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(a.cfg.UserInfoEndpoint))
	}
	svc, err := oauth2api.NewService(a.ctx(ctx), opts...)
	if err != nil {
		return nil, err
	}
	return svc.Userinfo.Get().Context(ctx).Do()
}

// Credential returns the session's Drive credential, refreshing the
// access token when it has expired and a refresh token is available.
func (a *Authenticator) Credential(ctx context.Context, sess *Session) (filestore.Credential, error) {
	if sess.TokenExpiry.IsZero() || a.now().Add(refreshSkew).Before(sess.TokenExpiry) || sess.RefreshToken == "" {
		return sess.Credential(), nil
	}

	tok, err := a.oauth.TokenSource(a.ctx(ctx), &oauth2.Token{
		RefreshToken: sess.RefreshToken,
		Expiry:       sess.TokenExpiry,
	}).Token()
	if err != nil {
		a.log.Warn("token refresh failed", logger.String("email", sess.Email), logger.Error(err))
		return filestore.Credential{}, apperr.StoreUnavailable("drive credential expired")
	}

	sess.AccessToken = tok.AccessToken
	sess.TokenExpiry = tok.Expiry
	if tok.RefreshToken != "" {
		sess.RefreshToken = tok.RefreshToken
	}
	if err := a.Persist(ctx, sess); err != nil {
		a.log.Warn("persist refreshed session failed", logger.Error(err))
	}
	return sess.Credential(), nil
}

// Persist saves session changes for the rest of its lifetime.
func (a *Authenticator) Persist(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(a.now())
	if ttl <= 0 {
		return nil
	}
	return a.sessions.SaveSession(ctx, sess, ttl)
}

// Logout deletes the session and clears the cookie.
func (a *Authenticator) Logout(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	a.ClearCookie(w)
	if sess == nil {
		return nil
	}
	return a.sessions.DeleteSession(ctx, sess.ID)
}

func (a *Authenticator) SetCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
