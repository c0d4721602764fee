package nhost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignInParsesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signin/email-password", r.URL.Path)
		w.Write([]byte(`{"session":{
			"accessToken": "access-1",
			"accessTokenExpiresIn": 900,
			"refreshToken": "refresh-1",
			"user": {"id": "user-1", "email": "a@b.c", "displayName": "Ada"}
		},"mfa":null}`))
	}))
	defer server.Close()

	client := &AuthClient{url: server.URL, httpClient: server.Client()}
	session, err := client.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	require.Equal(t, "access-1", session.AccessToken)
	require.Equal(t, "user-1", session.UserID)
	require.Equal(t, "Ada", session.User().DisplayName)
	require.False(t, session.Expired())
}

func TestSignInWithoutSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unverified accounts get a 200 with a null session.
		w.Write([]byte(`{"session":null,"mfa":null}`))
	}))
	defer server.Close()

	client := &AuthClient{url: server.URL, httpClient: server.Client()}
	session, err := client.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	require.Nil(t, session)
}

func TestSignInFailureSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := &AuthClient{url: server.URL, httpClient: server.Client()}
	_, err := client.SignIn(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	missing, err := LoadSession(path)
	require.NoError(t, err)
	require.Nil(t, missing)

	session := &AuthSession{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Now().Add(15 * time.Minute),
		UserID:       "user-1",
		Email:        "a@b.c",
		DisplayName:  "Ada",
	}
	require.NoError(t, session.Save(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	require.Equal(t, session.AccessToken, loaded.AccessToken)
	require.Equal(t, session.UserID, loaded.UserID)

	require.NoError(t, RemoveSession(path))
	gone, err := LoadSession(path)
	require.NoError(t, err)
	require.Nil(t, gone)
	require.NoError(t, RemoveSession(path))
}

func TestExpiredSession(t *testing.T) {
	session := &AuthSession{ExpiresAt: time.Now().Add(-time.Minute)}
	require.True(t, session.Expired())
}
