// Package mydata provides a public API for the AADE Digital Client List and
// the Wrapp invoicing service.
//
// Requests are validated before anything is sent upstream. Validation
// failures are returned as *ValidationError; upstream failures as *APIError.
//
// Example usage:
//
//	client := mydata.NewClient(mydata.Options{
//	    AADEUserID:          "user",
//	    AADESubscriptionKey: "key",
//	})
//	resp, err := client.SendClient(ctx, &mydata.SendClientRequest{...})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(*resp.Response[0].NewClientDclID)
package mydata

import (
	"github.com/rezonia/mydata-gateway/internal/dclxml"
	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

// Re-export DCL types
type (
	SendClientRequest         = model.SendClientRequest
	RentalUseCase             = model.RentalUseCase
	UpdateClientRequest       = model.UpdateClientRequest
	ClientCorrelationsRequest = model.ClientCorrelationsRequest
	FIMDetail                 = model.FIMDetail
	CancelClientParams        = model.CancelClientParams
	RequestClientsParams      = model.RequestClientsParams
	SubmitResponse            = model.SubmitResponse
	ResponseItem              = model.ResponseItem
	ResponseError             = model.ResponseError
	RequestedDoc              = model.RequestedDoc
	Record                    = model.Record
	VehicleMovementPurpose    = model.VehicleMovementPurpose
	InvoiceKind               = model.InvoiceKind
	ReasonNonIssueType        = model.ReasonNonIssueType
	StatusCode                = model.StatusCode
)

// Re-export invoicing types
type (
	CreateInvoiceRequest     = model.CreateInvoiceRequest
	InvoiceLine              = model.InvoiceLine
	Counterpart              = model.Counterpart
	DeliveryDetail           = model.DeliveryDetail
	InvoiceResponse          = model.InvoiceResponse
	PaymentMethodType        = model.PaymentMethodType
	BillingBook              = model.BillingBook
	CreateBillingBookRequest = model.CreateBillingBookRequest
)

// Re-export vehicle movement purposes
const (
	MovementRental      = model.MovementRental
	MovementOwnUse      = model.MovementOwnUse
	MovementFreeService = model.MovementFreeService
)

// Re-export item status codes
const (
	StatusSuccess         = model.StatusSuccess
	StatusValidationError = model.StatusValidationError
	StatusTechnicalError  = model.StatusTechnicalError
	StatusXMLSyntaxError  = model.StatusXMLSyntaxError
)

// Re-export payment methods
const (
	PaymentCash = model.PaymentCash
	PaymentCard = model.PaymentCard
	PaymentIris = model.PaymentIris
)

// Re-export error types
type (
	ValidationError        = model.ValidationError
	APIError               = model.APIError
	MalformedResponseError = model.MalformedResponseError
	ErrorKind              = model.ErrorKind
)

const (
	KindUnexpected        = model.KindUnexpected
	KindValidation        = model.KindValidation
	KindTaxAuthority      = model.KindTaxAuthority
	KindProvider          = model.KindProvider
	KindMalformedResponse = model.KindMalformedResponse
)

var (
	ErrBillingBookNotFound = model.ErrBillingBookNotFound
	ErrMissingCredentials  = model.ErrMissingCredentials
)

// KindOf classifies an error returned by this package
func KindOf(err error) ErrorKind {
	return model.KindOf(err)
}

// ValidationResult lists the violations and warnings found in a request
type ValidationResult = validation.Result

// Offline validation, with the rules applied before every upstream call
var (
	ValidateSendClient         = validation.ValidateSendClient
	ValidateUpdateClient       = validation.ValidateUpdateClient
	ValidateClientCorrelations = validation.ValidateClientCorrelations
	ValidateInvoice            = validation.ValidateInvoice
	ValidateBillingBook        = validation.ValidateBillingBook
)

// Document builders, producing the XML sent to the DCL API
var (
	BuildSendClient         = dclxml.BuildSendClient
	BuildUpdateClient       = dclxml.BuildUpdateClient
	BuildClientCorrelations = dclxml.BuildClientCorrelations
)

// FindBillingBook picks the billing book for an invoice type code from books
func FindBillingBook(books []BillingBook, code string) (BillingBook, bool) {
	return model.FindBillingBook(books, code)
}
