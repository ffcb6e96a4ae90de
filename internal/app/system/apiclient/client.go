// Package apiclient talks to the club backend's REST API.
//
// Every path is resolved under <base>/admin. Requests carry the signed-in
// admin's bearer token (when there is one), mutations are sent as
// multipart/form-data, and responses are unwrapped from the backend's
// {data, message, total} envelope. Nothing is retried: a failed mutation is
// reported to the caller once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 16 << 20

// TokenSource returns the bearer token for the request carried by ctx,
// or "" when the request is anonymous.
type TokenSource func(ctx context.Context) string

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Tokens supplies the bearer token per request.
	Tokens TokenSource

	// OnAuthFailure runs after any 401/403 response, before the error is
	// returned. It is where the session token gets revoked.
	OnAuthFailure func(ctx context.Context)

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Envelope is the backend's response wrapper.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Total   int             `json:"total"`
}

// Client is safe for concurrent use.
type Client struct {
	base          string
	hc            *http.Client
	tokens        TokenSource
	onAuthFailure func(ctx context.Context)
	log           *zap.Logger
}

// New validates the base URL and builds a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("api base url must be an absolute http(s) url, got %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		base:          strings.TrimRight(u.String(), "/") + "/admin",
		hc:            hc,
		tokens:        opts.Tokens,
		onAuthFailure: opts.OnAuthFailure,
		log:           log.With(zap.String("component", "api_client")),
	}, nil
}

// BaseURL returns the resolved <base>/admin prefix.
func (c *Client) BaseURL() string { return c.base }

// Request describes one backend call.
type Request struct {
	Method string
	Path   string // relative to /admin, e.g. "/users/12"
	Query  url.Values
	Form   *Form // multipart body
	JSON   any   // JSON body, used only when Form is nil

	// Resource labels the call in logs and metrics ("users", "clubs", ...).
	Resource string
}

// Do performs req and decodes the envelope's data into out (when out is non-nil).
func (c *Client) Do(ctx context.Context, req Request, out any) (*Envelope, error) {
	target := c.base + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("encode form for %s %s: %w", req.Method, req.Path, err)
		}
		body, contentType = buf, ct
	case req.JSON != nil:
		b, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("encode json for %s %s: %w", req.Method, req.Path, err)
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.Path, err)
	}
	reqID := uuid.NewString()
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("X-Request-ID", reqID)
	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if tok := c.tokens(ctx); tok != "" {
			(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(hreq)
		}
	}

	resource := req.Resource
	if resource == "" {
		resource = resourceOf(req.Path)
	}

	start := time.Now()
	resp, err := c.hc.Do(hreq)
	elapsed := time.Since(start)
	if err != nil {
		observe(resource, req.Method, "error", elapsed)
		c.log.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	observe(resource, req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	c.log.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed),
		zap.String("request_id", reqID))
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", req.Method, req.Path, err)
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Method: req.Method, Path: req.Path, Message: env.Message}
		if decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		if apiErr.IsAuth() && c.onAuthFailure != nil {
			c.onAuthFailure(ctx)
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode envelope %s %s: %w", req.Method, req.Path, decodeErr)
	}
	if out != nil && hasData(env.Data) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &env, fmt.Errorf("decode data %s %s: %w", req.Method, req.Path, err)
		}
	}
	return &env, nil
}

// Ping checks that the backend answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func hasData(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) > 0 && !bytes.Equal(s, []byte("null"))
}

// resourceOf returns the first path segment: "/users/12/approve" -> "users".
func resourceOf(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}
