// Package gateway runs every request through validation before handing it
// to the tax authority or the invoicing provider
package gateway

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

// TaxAuthority is the DCL API
type TaxAuthority interface {
	SendClient(ctx context.Context, req *model.SendClientRequest) (*model.SubmitResponse, error)
	UpdateClient(ctx context.Context, req *model.UpdateClientRequest) (*model.SubmitResponse, error)
	CancelClient(ctx context.Context, params model.CancelClientParams) (*model.SubmitResponse, error)
	RequestClients(ctx context.Context, params model.RequestClientsParams) (*model.RequestedDoc, error)
	ClientCorrelations(ctx context.Context, req *model.ClientCorrelationsRequest) (*model.SubmitResponse, error)
}

// InvoiceProvider is the invoicing API
type InvoiceProvider interface {
	CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*model.InvoiceResponse, error)
	ListBillingBooks(ctx context.Context) ([]model.BillingBook, error)
	CreateBillingBook(ctx context.Context, req *model.CreateBillingBookRequest) (*model.BillingBook, error)
	ResolveBillingBook(ctx context.Context, code string) (*model.BillingBook, error)
}

// Service validates requests and forwards the valid ones upstream
type Service struct {
	tax      TaxAuthority
	invoices InvoiceProvider
	log      zerolog.Logger
}

// Option configures the service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a gateway service
func NewService(tax TaxAuthority, invoices InvoiceProvider, opts ...Option) *Service {
	s := &Service{
		tax:      tax,
		invoices: invoices,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InvoiceResult is the provider answer plus the non-blocking validation warnings
type InvoiceResult struct {
	Response *model.InvoiceResponse
	Warnings []string
}

// SendClient registers a new rental client entry
func (s *Service) SendClient(ctx context.Context, req *model.SendClientRequest) (*model.SubmitResponse, error) {
	if err := validation.ValidateSendClient(req).Err(); err != nil {
		return nil, err
	}
	return s.tax.SendClient(ctx, req)
}

// UpdateClient updates a client entry. A non-zero dclID from the URL
// overrides the body's initialDclId.
func (s *Service) UpdateClient(ctx context.Context, dclID int64, req *model.UpdateClientRequest) (*model.SubmitResponse, error) {
	if dclID != 0 {
		req.InitialDclID = &dclID
	}
	if err := validation.ValidateUpdateClient(req).Err(); err != nil {
		return nil, err
	}
	return s.tax.UpdateClient(ctx, req)
}

// CancelClient cancels the client entry identified by rawID
func (s *Service) CancelClient(ctx context.Context, rawID, entityVatNumber string) (*model.SubmitResponse, error) {
	id, res := validation.ValidateDclIDParam(rawID)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return s.tax.CancelClient(ctx, model.CancelClientParams{DclID: id, EntityVatNumber: entityVatNumber})
}

// RequestClients queries client entries
func (s *Service) RequestClients(ctx context.Context, q validation.RequestClientsQuery) (*model.RequestedDoc, error) {
	params, res := validation.ValidateRequestClients(q)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return s.tax.RequestClients(ctx, params)
}

// ClientCorrelations links client entries to a mark or a fiscal receipt
func (s *Service) ClientCorrelations(ctx context.Context, req *model.ClientCorrelationsRequest) (*model.SubmitResponse, error) {
	if err := validation.ValidateClientCorrelations(req).Err(); err != nil {
		return nil, err
	}
	return s.tax.ClientCorrelations(ctx, req)
}

// CreateInvoice issues an invoice through the provider
func (s *Service) CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*InvoiceResult, error) {
	res := validation.ValidateInvoice(req)
	if err := res.Err(); err != nil {
		return nil, err
	}
	if len(res.Warnings) > 0 {
		s.log.Warn().
			Str("invoice_type_code", req.InvoiceTypeCode).
			Strs("warnings", res.Warnings).
			Msg("invoice forwarded with warnings")
	}

	resp, err := s.invoices.CreateInvoice(ctx, req)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Response: resp, Warnings: res.Warnings}, nil
}

// ListBillingBooks returns the provider's billing books
func (s *Service) ListBillingBooks(ctx context.Context) ([]model.BillingBook, error) {
	return s.invoices.ListBillingBooks(ctx)
}

// CreateBillingBook creates a billing book
func (s *Service) CreateBillingBook(ctx context.Context, req *model.CreateBillingBookRequest) (*model.BillingBook, error) {
	if err := validation.ValidateBillingBook(req).Err(); err != nil {
		return nil, err
	}
	return s.invoices.CreateBillingBook(ctx, req)
}

// ResolveBillingBook returns the billing book covering an invoice type code
func (s *Service) ResolveBillingBook(ctx context.Context, code string) (*model.BillingBook, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, model.NewValidationError([]string{"code query parameter is required"})
	}
	return s.invoices.ResolveBillingBook(ctx, code)
}
