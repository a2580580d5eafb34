// Package upstream is the client for the SkillBridge REST backend. Every
// method maps to exactly one backend endpoint; calls are single-shot with no
// retries, and any non-2xx response surfaces as an *Error.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skillbridge-web/internal/domain"
	"skillbridge-web/internal/observability"
)

const basePath = "/api/v1"

// Error is a failure reported by the backend. Message is the backend's own
// human-readable reason when one could be parsed, otherwise a generic fallback.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream: %s (status %d)", e.Message, e.Status)
}

// Client talks to the SkillBridge backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. baseURL is the backend origin without
// the /api/v1 prefix.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type jwtResponse struct {
	Token string `json:"token"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var resp jwtResponse
	err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", "", creds, &resp, "Invalid credentials")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Register creates an account. The backend speaks plain text on this endpoint,
// both for the success message and for errors. No session is established.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (string, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return "", fmt.Errorf("failed to encode registration: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/register", "", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do("register", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", fmt.Errorf("failed to read register response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(text))
		if msg == "" {
			msg = "Registration failed"
		}
		return "", &Error{Status: resp.StatusCode, Message: msg}
	}
	return strings.TrimSpace(string(text)), nil
}

// Me resolves the profile behind a token. A rejection here means the session
// is no longer valid; callers cannot tell an expired token from a network
// failure, and are expected to treat both as "must re-authenticate".
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", token, nil, &user,
		"Session expired or invalid. Please log in again.")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Ping probes backend reachability. Any HTTP answer counts as reachable,
// including 401; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/me", "", nil)
	if err != nil {
		return err
	}
	resp, err := c.do("ping", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	return nil
}

// newRequest builds a request against the backend, attaching the bearer token
// when one is supplied.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes a request and records upstream metrics for it
func (c *Client) do(operation string, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveUpstreamRequest(operation, 0, time.Since(start))
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	observability.ObserveUpstreamRequest(operation, resp.StatusCode, time.Since(start))
	return resp, nil
}

// doJSON performs a JSON round trip. On a non-2xx status it parses the
// backend's {"message": ...} error body, falling back to the supplied generic
// message when the body is empty or not JSON. out may be nil for endpoints
// whose response body the caller does not need.
func (c *Client) doJSON(ctx context.Context, operation, method, path, token string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(operation, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: parseErrorMessage(resp.Body, fallback)}
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseErrorMessage extracts the backend's message from a JSON error body
func parseErrorMessage(body io.Reader, fallback string) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<16)).Decode(&parsed); err != nil || parsed.Message == "" {
		return fallback
	}
	return parsed.Message
}
