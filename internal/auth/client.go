// Package auth is a thin client for a hosted GoTrue-style identity
// provider. Passwords are never hashed and tokens are never minted
// locally; the provider owns the whole credential lifecycle and this
// package only forwards credentials and validates bearer tokens.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reviewhub/internal/models"
)

const clientTimeout = 10 * time.Second

var (
	// ErrInvalidToken is returned when the provider rejects a bearer token.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrInvalidCredentials is returned when sign-in is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotConfigured is returned when no provider URL is configured.
	ErrNotConfigured = errors.New("identity provider is not configured")
)

// Session is the provider's token grant: an access token plus the user
// it belongs to.
type Session struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(baseURL, anonKey string, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		anonKey:    strings.TrimSpace(anonKey),
		httpClient: &http.Client{Timeout: clientTimeout},
		log:        log,
	}
}

// Configured reports whether a provider URL is set. An unconfigured
// client fails every call without network activity.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// SignUp registers a new user with the provider and returns the granted
// session.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.passwordGrant(ctx, "/auth/v1/signup", email, password)
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	return c.passwordGrant(ctx, "/auth/v1/token?grant_type=password", email, password)
}

// SignOut revokes the token with the provider. Best-effort: the caller
// discards the token regardless.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// ValidateToken asks the provider who the bearer token belongs to.
func (c *Client) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validate token: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}

	return &user, nil
}

func (c *Client) passwordGrant(ctx context.Context, path, email, password string) (*Session, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request grant: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if session.AccessToken == "" {
		return nil, errors.New("identity provider granted no access token")
	}
	if session.TokenType == "" {
		session.TokenType = "bearer"
	}

	return &session, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("apikey", c.anonKey)
	}

	return req, nil
}
