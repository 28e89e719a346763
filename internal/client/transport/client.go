package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/facturapp/billing-system/internal/core/domain"
)

const defaultRequestTimeout = 15 * time.Second

// Client is the REST client for the billing API. Authenticated calls go
// through AuthTransport, so the bearer header always tracks the session.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a client rooted at baseURL. Timeouts are the transport's
// responsibility; callers pass a context only for cancellation.
func NewClient(baseURL string, session sessionSource, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &AuthTransport{Session: session},
			Timeout:   defaultRequestTimeout,
		},
		log: log,
	}
}

// LoginResponse is the login endpoint's payload.
type LoginResponse struct {
	Token     string             `json:"token"`
	TokenType string             `json:"tokenType"`
	User      *domain.UserRecord `json:"user"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the current token server-side. The session store is still
// responsible for clearing local state afterwards.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// FetchPrivileges retrieves the permission matrix for one role. Satisfies
// privilege.Fetcher.
func (c *Client) FetchPrivileges(ctx context.Context, roleID string) (*domain.PrivilegeSet, error) {
	var set domain.PrivilegeSet
	path := "/users-rol/" + url.PathEscape(roleID) + "/privileges"
	if err := c.do(ctx, http.MethodGet, path, nil, &set); err != nil {
		return nil, err
	}
	return &set, nil
}

// SavePrivileges replaces the permission matrix for the set's role.
func (c *Client) SavePrivileges(ctx context.Context, set domain.PrivilegeSet) error {
	body, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode privileges: %w", err)
	}
	path := "/users-rol/" + url.PathEscape(set.RoleID) + "/privileges"
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(body), nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(method, path, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// apiError extracts the server's {"error": "..."} envelope when present.
func apiError(method, path string, resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil && envelope.Error != "" {
		return fmt.Errorf("%s %s: %s (status %d)", method, path, envelope.Error, resp.StatusCode)
	}
	return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
}
