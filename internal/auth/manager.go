package auth

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/browser"
	"github.com/zalando/go-keyring"

	"github.com/readnote/readnote/internal/notes"
	"github.com/readnote/readnote/internal/state"
)

const (
	keyringService = "readnote"
	keyringUser    = "auth_token"
)

// Info is the locally persisted auth state: who is signed in, and (when the
// OS keyring is unavailable) the bearer token itself.
type Info struct {
	User  notes.User `json:"userInfo"`
	Token string     `json:"authToken,omitempty"`
}

// Manager owns the bearer token and the signed-in user record. The token
// goes to the OS keyring when possible and falls back to the auth state
// file otherwise.
type Manager struct {
	client notes.Client
	store  *state.Store[Info]

	openURL func(string) error
}

// NewManager creates an auth manager persisted under dataDir.
func NewManager(client notes.Client, dataDir string) *Manager {
	return &Manager{
		client:  client,
		store:   state.NewStore(filepath.Join(dataDir, "auth.json"), Info{}),
		openURL: browser.OpenURL,
	}
}

// Token returns the stored bearer token, or "" when signed out.
func (m *Manager) Token() string {
	if token, err := keyring.Get(keyringService, keyringUser); err == nil && token != "" {
		return token
	}
	return m.store.Get().Token
}

// User returns the stored user record.
func (m *Manager) User() notes.User {
	return m.store.Get().User
}

// SignedIn reports whether a live token is present.
func (m *Manager) SignedIn() bool {
	token := m.Token()
	return token != "" && !Expired(token)
}

// Expired does a best-effort unverified check of the token's exp claim.
// Opaque (non-JWT) tokens are treated as live; the backend is the judge.
func Expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// HandleCallback stores the token and user delivered by the backend's auth
// success callback.
func (m *Manager) HandleCallback(token string, user notes.User) error {
	info := Info{User: user}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		// No keyring on this machine. Keep the token in the state file.
		info.Token = token
	}
	if err := m.store.Set(info); err != nil {
		return fmt.Errorf("failed to persist auth state: %w", err)
	}
	return nil
}

// BeginLogin fetches the backend's authorization URL and opens it in the
// system browser. The URL is returned so callers can print it when the
// browser cannot be opened.
func (m *Manager) BeginLogin(ctx context.Context) (string, error) {
	loginURL, err := m.client.Login(ctx)
	if err != nil {
		return "", err
	}
	if err := m.openURL(loginURL); err != nil {
		return loginURL, fmt.Errorf("could not open browser: %w", err)
	}
	return loginURL, nil
}

// Refresh asks the backend who is signed in and stores the answer. It is
// how login completion is observed: the authorization flow sets the session
// cookie server-side, after which /profile starts answering.
func (m *Manager) Refresh(ctx context.Context) (notes.User, error) {
	user, err := m.client.Profile(ctx)
	if err != nil {
		return notes.User{}, err
	}

	err = m.store.Update(func(info Info) Info {
		info.User = user
		return info
	})
	if err != nil {
		return user, fmt.Errorf("failed to persist user info: %w", err)
	}
	return user, nil
}

// Clear wipes local auth state. Used for logout and after a 401.
func (m *Manager) Clear() error {
	// Keyring may be absent entirely; the state file is the fallback.
	_ = keyring.Delete(keyringService, keyringUser)
	return m.store.Clear()
}
