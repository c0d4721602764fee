package nhost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/tavisz/chatterbox/chat"
)

const authRequestTimeout = 30 * time.Second

// AuthClient talks to the Nhost auth API.
type AuthClient struct {
	url        string
	httpClient *http.Client
}

// NewAuthClient instantiates an auth client for the given backend.
func NewAuthClient(config Config) *AuthClient {
	return &AuthClient{
		url:        config.authURL(),
		httpClient: &http.Client{Timeout: authRequestTimeout},
	}
}

// AuthSession is an authenticated session with its bearer credentials.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
}

// Expired reports whether the access token needs a refresh. A small margin
// keeps us from presenting a token that dies mid-request.
func (s *AuthSession) Expired() bool {
	return time.Now().After(s.ExpiresAt.Add(-30 * time.Second))
}

// User returns the session's user context for the controller.
func (s *AuthSession) User() *chat.Session {
	return &chat.Session{
		UserID:      s.UserID,
		Email:       s.Email,
		DisplayName: s.DisplayName,
	}
}

// Save persists the session to the given path.
func (s *AuthSession) Save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling session")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating session directory")
	}
	// Credentials: keep the file private.
	return errors.Wrap(os.WriteFile(path, raw, 0600), "writing session file")
}

// LoadSession reads a persisted session. A missing file returns nil with no
// error: not being logged in is a normal state.
func LoadSession(path string) (*AuthSession, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading session file")
	}
	session := &AuthSession{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, errors.Wrap(err, "unmarshaling session")
	}
	return session, nil
}

// RemoveSession deletes the persisted session, ignoring a missing file.
func RemoveSession(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type wireSession struct {
	Session *struct {
		AccessToken          string `json:"accessToken"`
		AccessTokenExpiresIn int64  `json:"accessTokenExpiresIn"`
		RefreshToken         string `json:"refreshToken"`
		User                 struct {
			ID          string `json:"id"`
			Email       string `json:"email"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
	} `json:"session"`
}

// SignIn performs an email+password sign-in.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	body := map[string]any{"email": email, "password": password}
	return c.sessionRequest(ctx, "/signin/email-password", body)
}

// SignUp registers a new user. The backend may require email verification
// before a session is issued, in which case the returned session is nil.
func (c *AuthClient) SignUp(ctx context.Context, email, password, displayName string) (*AuthSession, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"options":  map[string]any{"displayName": displayName},
	}
	return c.sessionRequest(ctx, "/signup/email-password", body)
}

// Refresh exchanges a refresh token for a fresh session.
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*AuthSession, error) {
	body := map[string]any{"refreshToken": refreshToken}
	return c.sessionRequest(ctx, "/token", body)
}

// SignOut invalidates the refresh token server-side.
func (c *AuthClient) SignOut(ctx context.Context, refreshToken string) error {
	_, err := c.post(ctx, "/signout", map[string]any{"refreshToken": refreshToken})
	return err
}

func (c *AuthClient) sessionRequest(ctx context.Context, path string, body map[string]any) (*AuthSession, error) {
	raw, err := c.post(ctx, path, body)
	if err != nil {
		return nil, err
	}

	response := &wireSession{}
	if err := json.Unmarshal(raw, response); err != nil {
		return nil, errors.Wrap(err, "unmarshaling session response")
	}
	if response.Session == nil {
		return nil, nil
	}

	return &AuthSession{
		AccessToken:  response.Session.AccessToken,
		RefreshToken: response.Session.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(response.Session.AccessTokenExpiresIn) * time.Second),
		UserID:       response.Session.User.ID,
		Email:        response.Session.User.Email,
		DisplayName:  response.Session.User.DisplayName,
	}, nil
}

func (c *AuthClient) post(ctx context.Context, path string, body map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling request")
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "performing request")
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response")
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth request failed with status %d: %s", response.StatusCode, raw)
	}
	return raw, nil
}
