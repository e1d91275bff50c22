// Package wrapp is the client of the Wrapp invoicing JSON API
package wrapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/rezonia/mydata-gateway/internal/model"
)

const (
	DefaultBaseURL = "https://wrapp.ai/api/v1"
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 10 << 20
)

// Credentials identify the account used to log in. Either Email or UserID
// must be set; Email wins when both are.
type Credentials struct {
	APIKey string
	Email  string
	UserID string
}

// Client calls the invoicing provider with a cached bearer token
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	tokens     *TokenCache
	login      singleflight.Group
	log        zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tokens     *TokenCache
	log        zerolog.Logger
}

// WithBaseURL sets a custom base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.baseURL = baseURL
	}
}

// WithTimeout sets custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client; the timeout option is ignored
func WithHTTPClient(client *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = client
	}
}

// WithTokenCache sets the cache holding the bearer token
func WithTokenCache(cache *TokenCache) ClientOption {
	return func(cfg *clientConfig) {
		cfg.tokens = cache
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(log zerolog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.log = log
	}
}

// NewClient creates a provider client
func NewClient(creds Credentials, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}
	tokens := cfg.tokens
	if tokens == nil {
		tokens = NewTokenCache(nil)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		creds:      creds,
		httpClient: httpClient,
		tokens:     tokens,
		log:        cfg.log,
	}
}

type loginResponse struct {
	Data struct {
		Attributes struct {
			JWT string `json:"jwt"`
		} `json:"attributes"`
	} `json:"data"`
}

// Token returns a usable bearer token, logging in when the cached one is
// missing or about to expire. Concurrent refreshes share a single login,
// which outlives the cancellation of the caller that started it; each caller
// still stops waiting when its own ctx is done.
func (c *Client) Token(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	loginCtx := context.WithoutCancel(ctx)
	ch := c.login.DoChan("login", func() (any, error) {
		if token, ok := c.tokens.Get(); ok {
			return token, nil
		}
		return c.authenticate(loginCtx)
	})

	select {
	case <-ctx.Done():
		return "", model.NewProviderError("login", 0, "", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	const op = "login"

	payload := map[string]string{"api_key": c.creds.APIKey}
	switch {
	case c.creds.Email != "":
		payload["email"] = c.creds.Email
	case c.creds.UserID != "":
		payload["wrapp_user_id"] = c.creds.UserID
	default:
		return "", model.NewProviderError(op, http.StatusInternalServerError, "", model.ErrMissingCredentials)
	}

	var resp loginResponse
	if err := c.do(ctx, op, http.MethodPost, "/login", "", payload, &resp); err != nil {
		return "", err
	}
	token := resp.Data.Attributes.JWT
	if token == "" {
		return "", model.NewProviderError(op, http.StatusOK, "",
			model.NewMalformedResponseError(op, errors.New("missing data.attributes.jwt")))
	}

	now := c.tokens.Now()
	expiresAt := now.Add(DefaultTokenLifetime)
	if exp, ok := tokenExpiry(token); ok && exp.Before(expiresAt) {
		// A token expiring inside the refresh buffer would never be served
		// from the cache; keep the default lifetime and rely on the 401 path.
		if exp.After(now.Add(c.tokens.buffer)) {
			expiresAt = exp
		} else {
			c.log.Warn().Time("exp", exp).Msg("provider token expires within the refresh buffer")
		}
	}
	c.tokens.Set(token, expiresAt)

	c.log.Debug().Time("expires_at", expiresAt).Msg("logged in to invoicing provider")
	return token, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// token is only ever sent back to its issuer
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// CreateInvoice issues an invoice. The response may be an issued invoice, a
// pending acknowledgement or an error envelope; see model.InvoiceResponse.
func (c *Client) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.InvoiceResponse, error) {
	var resp model.InvoiceResponse
	if err := c.authorized(ctx, "CreateInvoice", http.MethodPost, "/invoices", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBillingBooks returns every billing book of the account
func (c *Client) ListBillingBooks(ctx context.Context) ([]model.BillingBook, error) {
	var books []model.BillingBook
	if err := c.authorized(ctx, "ListBillingBooks", http.MethodGet, "/billing_books", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateBillingBook creates a billing book
func (c *Client) CreateBillingBook(ctx context.Context, req *model.CreateBillingBookRequest) (*model.BillingBook, error) {
	var book model.BillingBook
	if err := c.authorized(ctx, "CreateBillingBook", http.MethodPost, "/billing_books", req, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// ResolveBillingBook finds the billing book for an invoice type code: an
// exact match first, then the "<major>.1" umbrella book
func (c *Client) ResolveBillingBook(ctx context.Context, code string) (*model.BillingBook, error) {
	books, err := c.ListBillingBooks(ctx)
	if err != nil {
		return nil, err
	}
	book, ok := model.FindBillingBook(books, code)
	if !ok {
		return nil, fmt.Errorf("invoice type code %s: %w", code, model.ErrBillingBookNotFound)
	}
	return &book, nil
}

func (c *Client) authorized(ctx context.Context, op, method, path string, in, out any) error {
	token, err := c.Token(ctx)
	if err != nil {
		return err
	}
	err = c.do(ctx, op, method, path, token, in, out)

	var apiErr *model.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		// Force a fresh login on the next call
		c.tokens.Invalidate()
	}
	return err
}

// do performs one JSON call and translates every failure into a provider error
func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := encodePayload(in)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return model.NewProviderError(op, 0, "", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("request failed")
		return model.NewProviderError(op, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.NewProviderError(op, resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err))
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("invoicing provider call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.NewProviderError(op, resp.StatusCode, string(data), nil)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return model.NewProviderError(op, resp.StatusCode, string(data), model.NewMalformedResponseError(op, err))
	}
	return nil
}
