package mydata

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/mydata-gateway/internal/aade"
	"github.com/rezonia/mydata-gateway/internal/gateway"
	"github.com/rezonia/mydata-gateway/internal/wrapp"
)

// Options configures a Client
type Options struct {
	// Tax authority (DCL)
	AADEUserID          string
	AADESubscriptionKey string
	AADEBaseURL         string

	// Invoicing provider; either WrappEmail or WrappUserID is required
	WrappAPIKey  string
	WrappEmail   string
	WrappUserID  string
	WrappBaseURL string

	Timeout time.Duration

	// BatchConcurrency bounds the concurrent calls of batch operations (default: 4)
	BatchConcurrency int

	// Logger receives request tracing; nil discards it
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used for unset fields
func DefaultOptions() Options {
	return Options{
		AADEBaseURL:      aade.DefaultBaseURL,
		WrappBaseURL:     wrapp.DefaultBaseURL,
		Timeout:          aade.DefaultTimeout,
		BatchConcurrency: 4,
	}
}

// Client validates requests and sends them to the DCL API or the invoicing provider
type Client struct {
	svc     *gateway.Service
	options Options
}

// NewClient creates a client. Zero fields of opts take their DefaultOptions value.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.AADEBaseURL == "" {
		opts.AADEBaseURL = def.AADEBaseURL
	}
	if opts.WrappBaseURL == "" {
		opts.WrappBaseURL = def.WrappBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = def.BatchConcurrency
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	tax := aade.NewClient(opts.AADEUserID, opts.AADESubscriptionKey,
		aade.WithBaseURL(opts.AADEBaseURL),
		aade.WithTimeout(opts.Timeout),
		aade.WithLogger(log),
	)
	provider := wrapp.NewClient(
		wrapp.Credentials{APIKey: opts.WrappAPIKey, Email: opts.WrappEmail, UserID: opts.WrappUserID},
		wrapp.WithBaseURL(opts.WrappBaseURL),
		wrapp.WithTimeout(opts.Timeout),
		wrapp.WithLogger(log),
	)

	return &Client{
		svc:     gateway.NewService(tax, provider, gateway.WithLogger(log)),
		options: opts,
	}
}

// SendClient registers a new rental client entry
func (c *Client) SendClient(ctx context.Context, req *SendClientRequest) (*SubmitResponse, error) {
	return c.svc.SendClient(ctx, req)
}

// UpdateClient updates the client entry req.InitialDclID
func (c *Client) UpdateClient(ctx context.Context, req *UpdateClientRequest) (*SubmitResponse, error) {
	return c.svc.UpdateClient(ctx, 0, req)
}

// CancelClient cancels a client entry
func (c *Client) CancelClient(ctx context.Context, dclID int64, entityVatNumber string) (*SubmitResponse, error) {
	return c.svc.CancelClient(ctx, formatID(dclID), entityVatNumber)
}

// RequestClients fetches client entries
func (c *Client) RequestClients(ctx context.Context, params RequestClientsParams) (*RequestedDoc, error) {
	q := queryOf(params)
	return c.svc.RequestClients(ctx, q)
}

// ClientCorrelations links client entries to a mark or a fiscal receipt
func (c *Client) ClientCorrelations(ctx context.Context, req *ClientCorrelationsRequest) (*SubmitResponse, error) {
	return c.svc.ClientCorrelations(ctx, req)
}

// CreateInvoice issues an invoice. Warnings are the non-blocking findings of
// validation, such as totals that disagree with the lines.
func (c *Client) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (resp *InvoiceResponse, warnings []string, err error) {
	result, err := c.svc.CreateInvoice(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return result.Response, result.Warnings, nil
}

// ListBillingBooks returns every billing book of the account
func (c *Client) ListBillingBooks(ctx context.Context) ([]BillingBook, error) {
	return c.svc.ListBillingBooks(ctx)
}

// CreateBillingBook creates a billing book
func (c *Client) CreateBillingBook(ctx context.Context, req *CreateBillingBookRequest) (*BillingBook, error) {
	return c.svc.CreateBillingBook(ctx, req)
}

// ResolveBillingBook returns the billing book for an invoice type code
func (c *Client) ResolveBillingBook(ctx context.Context, code string) (*BillingBook, error) {
	return c.svc.ResolveBillingBook(ctx, code)
}

// SendClientBatch registers several entries concurrently. Results are in
// input order; a failed entry leaves a nil result and the first error is
// returned after every entry has been attempted.
func (c *Client) SendClientBatch(ctx context.Context, reqs []*SendClientRequest) ([]*SubmitResponse, error) {
	results := make([]*SubmitResponse, len(reqs))

	var g errgroup.Group
	g.SetLimit(c.options.BatchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			resp, err := c.svc.SendClient(ctx, req)
			if err != nil {
				return err
			}
			results[i] = resp
			return nil
		})
	}

	return results, g.Wait()
}
