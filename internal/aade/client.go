// Package aade is the client of the myDATA Digital Clientele (DCL) XML API
package aade

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/mydata-gateway/internal/dclxml"
	"github.com/rezonia/mydata-gateway/internal/model"
)

const (
	DefaultBaseURL = "https://mydataapidev.aade.gr/DCL"
	DefaultTimeout = 30 * time.Second

	maxResponseSize = 10 << 20
)

// Client submits DCL documents to the tax authority
type Client struct {
	baseURL         string
	userID          string
	subscriptionKey string
	httpClient      *http.Client
	log             zerolog.Logger
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
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

// WithLogger sets the logger used for request tracing
func WithLogger(log zerolog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.log = log
	}
}

// NewClient creates a DCL client authenticated by a user id and subscription key
func NewClient(userID, subscriptionKey string, opts ...ClientOption) *Client {
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

	return &Client{
		baseURL:         strings.TrimRight(cfg.baseURL, "/"),
		userID:          userID,
		subscriptionKey: subscriptionKey,
		httpClient:      httpClient,
		log:             cfg.log,
	}
}

// SendClient registers a new rental client entry
func (c *Client) SendClient(ctx context.Context, req *model.SendClientRequest) (*model.SubmitResponse, error) {
	body, err := dclxml.BuildSendClient(req)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "SendClient", http.MethodPost, nil, body)
}

// UpdateClient updates an existing client entry
func (c *Client) UpdateClient(ctx context.Context, req *model.UpdateClientRequest) (*model.SubmitResponse, error) {
	body, err := dclxml.BuildUpdateClient(req)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "UpdateClient", http.MethodPost, nil, body)
}

// ClientCorrelations links client entries to a mark or a fiscal receipt
func (c *Client) ClientCorrelations(ctx context.Context, req *model.ClientCorrelationsRequest) (*model.SubmitResponse, error) {
	body, err := dclxml.BuildClientCorrelations(req)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, "ClientCorrelations", http.MethodPost, nil, body)
}

// CancelClient cancels a client entry. The call carries no body.
func (c *Client) CancelClient(ctx context.Context, params model.CancelClientParams) (*model.SubmitResponse, error) {
	query := url.Values{}
	query.Set("DCLID", strconv.FormatInt(params.DclID, 10))
	if params.EntityVatNumber != "" {
		query.Set("entityVatNumber", params.EntityVatNumber)
	}
	return c.submit(ctx, "CancelClient", http.MethodPost, query, nil)
}

// RequestClients fetches client entries starting at params.DclID
func (c *Client) RequestClients(ctx context.Context, params model.RequestClientsParams) (*model.RequestedDoc, error) {
	const op = "RequestClients"

	query := url.Values{}
	query.Set("DCLID", strconv.FormatInt(params.DclID, 10))
	if params.MaxDclID != nil {
		query.Set("maxdclid", strconv.FormatInt(*params.MaxDclID, 10))
	}
	if params.EntityVatNumber != "" {
		query.Set("entityVatNumber", params.EntityVatNumber)
	}
	if params.ContinuationToken != "" {
		query.Set("continuationToken", params.ContinuationToken)
	}

	status, data, err := c.do(ctx, op, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}
	doc, err := dclxml.ParseRequestedDoc(data)
	if err != nil {
		return nil, model.NewTaxAuthorityError(op, status, string(data), err)
	}
	return doc, nil
}

func (c *Client) submit(ctx context.Context, op, method string, query url.Values, body []byte) (*model.SubmitResponse, error) {
	status, data, err := c.do(ctx, op, method, query, body)
	if err != nil {
		return nil, err
	}
	resp, err := dclxml.ParseSubmitResponse(data)
	if err != nil {
		return nil, model.NewTaxAuthorityError(op, status, string(data), err)
	}
	return resp, nil
}

// do performs one call and translates every failure into a tax-authority error
func (c *Client) do(ctx context.Context, op, method string, query url.Values, body []byte) (int, []byte, error) {
	endpoint := c.baseURL + "/" + op
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
		c.log.Trace().Str("op", op).Bytes("body", body).Msg("request document")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, model.NewTaxAuthorityError(op, 0, "", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("aade-user-id", c.userID)
	req.Header.Set("ocp-apim-subscription-key", c.subscriptionKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Msg("request failed")
		return 0, nil, model.NewTaxAuthorityError(op, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, nil, model.NewTaxAuthorityError(op, resp.StatusCode, "", fmt.Errorf("failed to read response: %w", err))
	}

	c.log.Debug().
		Str("op", op).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("tax authority call")
	c.log.Trace().Str("op", op).Bytes("body", data).Msg("response document")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, data, model.NewTaxAuthorityError(op, resp.StatusCode, string(data), nil)
	}
	return resp.StatusCode, data, nil
}
