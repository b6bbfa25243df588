package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewClient(srv.URL, "anon-key", log)
}

func TestValidateTokenSuccess(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("unexpected authorization header: %q", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("unexpected apikey header: %q", got)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         userID.String(),
			"email":      "user@example.com",
			"created_at": "2026-01-15T10:00:00Z",
		})
	})

	user, err := client.ValidateToken(context.Background(), "token-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Errorf("user id mismatch: got %v want %v", user.ID, userID)
	}
	if user.Email != "user@example.com" {
		t.Errorf("email mismatch: got %q", user.Email)
	}
}

func TestValidateTokenRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ValidateToken(context.Background(), "bad-token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenEmpty(t *testing.T) {
	client := newTestClient(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Error("expected no request for empty token")
	})

	_, err := client.ValidateToken(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenUnconfigured(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client := NewClient("", "", log)

	_, err := client.ValidateToken(context.Background(), "token")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSignInSuccess(t *testing.T) {
	userID := uuid.New()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "password" {
			t.Errorf("unexpected grant type: %q", got)
		}

		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("failed to decode credentials: %v", err)
		}
		if creds["email"] != "user@example.com" {
			t.Errorf("unexpected email: %q", creds["email"])
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "granted-token",
			"token_type":   "bearer",
			"user": map[string]any{
				"id":         userID.String(),
				"email":      "user@example.com",
				"created_at": "2026-01-15T10:00:00Z",
			},
		})
	})

	session, err := client.SignIn(context.Background(), "user@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AccessToken != "granted-token" {
		t.Errorf("token mismatch: got %q", session.AccessToken)
	}
	if session.User.ID != userID {
		t.Errorf("user id mismatch: got %v", session.User.ID)
	}
}

func TestSignInRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.SignIn(context.Background(), "user@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignUpSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/signup" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "new-user-token",
			"token_type":   "bearer",
			"user": map[string]any{
				"id":         uuid.New().String(),
				"email":      "new@example.com",
				"created_at": "2026-01-15T10:00:00Z",
			},
		})
	})

	session, err := client.SignUp(context.Background(), "new@example.com", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.AccessToken != "new-user-token" {
		t.Errorf("token mismatch: got %q", session.AccessToken)
	}
}

func TestSignOutBestEffort(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/logout" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.SignOut(context.Background(), "token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
