package model

import "github.com/shopspring/decimal"

// ClientServiceType is the DCL registry a client entry belongs to
type ClientServiceType int

const (
	ClientServiceRental         ClientServiceType = 1
	ClientServiceParkingCarWash ClientServiceType = 2
	ClientServiceGarage         ClientServiceType = 3
)

// VehicleMovementPurpose is the purpose of a rental vehicle movement
type VehicleMovementPurpose int

const (
	MovementRental      VehicleMovementPurpose = 1
	MovementOwnUse      VehicleMovementPurpose = 2
	MovementFreeService VehicleMovementPurpose = 3
)

// InvoiceKind is the kind of document that closes a DCL entry
type InvoiceKind int

const (
	InvoiceKindRetailReceipt    InvoiceKind = 1
	InvoiceKindInvoice          InvoiceKind = 2
	InvoiceKindRetailReceiptFIM InvoiceKind = 3
)

// ReasonNonIssueType explains why no document was issued
type ReasonNonIssueType int

const (
	ReasonFreeService          ReasonNonIssueType = 1
	ReasonOwnUse               ReasonNonIssueType = 2
	ReasonWarrantyCompensation ReasonNonIssueType = 3
)

// StatusCode is the per-item outcome reported by the tax authority
type StatusCode string

const (
	StatusSuccess         StatusCode = "Success"
	StatusValidationError StatusCode = "ValidationError"
	StatusTechnicalError  StatusCode = "TechnicalError"
	StatusXMLSyntaxError  StatusCode = "XMLSyntaxError"
)

// TransmissionFailureSentinel marks an entry created while the connection
// to the tax authority was lost
const TransmissionFailureSentinel = 1

// MaxCorrelatedDCLIDs bounds the identifiers of a single correlation request
const MaxCorrelatedDCLIDs = 50

// RentalUseCase holds the rental-specific part of a new client entry.
// Pointer fields are optional; a nil pointer is never sent.
type RentalUseCase struct {
	VehicleRegistrationNumber        *string                 `json:"vehicleRegistrationNumber,omitempty"`
	ForeignVehicleRegistrationNumber *string                 `json:"foreignVehicleRegistrationNumber,omitempty"`
	VehicleCategory                  *string                 `json:"vehicleCategory,omitempty"`
	VehicleFactory                   *string                 `json:"vehicleFactory,omitempty"`
	VehicleMovementPurpose           *VehicleMovementPurpose `json:"vehicleMovementPurpose,omitempty"`
	IsDiffVehPickupLocation          *bool                   `json:"isDiffVehPickupLocation,omitempty"`
	VehiclePickupLocation            *string                 `json:"vehiclePickupLocation,omitempty"`
}

// SendClientRequest creates a new rental client entry
type SendClientRequest struct {
	Branch                 *int           `json:"branch,omitempty"`
	RecurringService       *bool          `json:"recurringService,omitempty"`
	ContinuousService      *bool          `json:"continuousService,omitempty"`
	ContinuousLeaseService *bool          `json:"continuousLeaseService,omitempty"`
	FromAgreedPeriodDate   *string        `json:"fromAgreedPeriodDate,omitempty"`
	ToAgreedPeriodDate     *string        `json:"toAgreedPeriodDate,omitempty"`
	MixedService           *bool          `json:"mixedService,omitempty"`
	CustomerVatNumber      *string        `json:"customerVatNumber,omitempty"`
	CustomerCountry        *string        `json:"customerCountry,omitempty"`
	TransmissionFailure    *int           `json:"transmissionFailure,omitempty"`
	CreationDateTime       *string        `json:"creationDateTime,omitempty"`
	CorrelatedDclID        *int64         `json:"correlatedDclId,omitempty"`
	Comments               *string        `json:"comments,omitempty"`
	EntityVatNumber        *string        `json:"entityVatNumber,omitempty"`
	Periodicity            *int           `json:"periodicity,omitempty"`
	PeriodicityOther       *string        `json:"periodicityOther,omitempty"`
	Rental                 *RentalUseCase `json:"rental,omitempty"`
}

// UpdateClientRequest updates an existing rental client entry
type UpdateClientRequest struct {
	InitialDclID               *int64              `json:"initialDclId,omitempty"`
	EntryCompletion            *bool               `json:"entryCompletion,omitempty"`
	NonIssueInvoice            *bool               `json:"nonIssueInvoice,omitempty"`
	Amount                     *decimal.Decimal    `json:"amount,omitempty"`
	IsDiffVehReturnLocation    *bool               `json:"isDiffVehReturnLocation,omitempty"`
	VehicleReturnLocation      *string             `json:"vehicleReturnLocation,omitempty"`
	InvoiceKind                *InvoiceKind        `json:"invoiceKind,omitempty"`
	EntityVatNumber            *string             `json:"entityVatNumber,omitempty"`
	ReasonNonIssueType         *ReasonNonIssueType `json:"reasonNonIssueType,omitempty"`
	Comments                   *string             `json:"comments,omitempty"`
	InvoiceCounterparty        *string             `json:"invoiceCounterparty,omitempty"`
	InvoiceCounterpartyCountry *string             `json:"invoiceCounterpartyCountry,omitempty"`
}

// CancelClientParams cancels a client entry; sent as query parameters only
type CancelClientParams struct {
	DclID           int64
	EntityVatNumber string
}

// RequestClientsParams fetches client entries; sent as query parameters only
type RequestClientsParams struct {
	DclID             int64
	MaxDclID          *int64
	EntityVatNumber   string
	ContinuationToken string
}

// FIMDetail identifies a fiscal receipt by its device and sequence
type FIMDetail struct {
	FIMNumber    string `json:"FIMNumber"`
	FIMAA        *int64 `json:"FIMAA,omitempty"`
	FIMIssueDate string `json:"FIMIssueDate"`
	FIMIssueTime string `json:"FIMIssueTime"`
}

// ClientCorrelationsRequest links client entries to an invoice mark or a fiscal receipt
type ClientCorrelationsRequest struct {
	EntityVatNumber  *string    `json:"entityVatNumber,omitempty"`
	Mark             *int64     `json:"mark,omitempty"`
	FIM              *FIMDetail `json:"fim,omitempty"`
	CorrelatedDCLIDs []int64    `json:"correlatedDCLIds"`
}

// ResponseError is a single (message, code) pair reported by the tax authority
type ResponseError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ResponseItem is the acknowledgement of one submitted item
type ResponseItem struct {
	Index              *int64          `json:"index,omitempty"`
	StatusCode         StatusCode      `json:"statusCode"`
	NewClientDclID     *int64          `json:"newClientDclID,omitempty"`
	UpdatedClientDclID *int64          `json:"updatedClientDclID,omitempty"`
	CancellationID     *int64          `json:"cancellationID,omitempty"`
	CorrelateID        *int64          `json:"correlateId,omitempty"`
	Errors             []ResponseError `json:"errors,omitempty"`
}

// Succeeded reports whether the item was accepted
func (i ResponseItem) Succeeded() bool {
	return i.StatusCode == StatusSuccess
}

// SubmitResponse is the acknowledgement of a submit operation
type SubmitResponse struct {
	Response []ResponseItem `json:"response"`
}

// Record is a generic document returned by RequestClients. Leaf elements are
// strings, nested elements are Records and repeated elements are []any.
type Record map[string]any

// RequestedDoc is the result of a RequestClients query
type RequestedDoc struct {
	EntityVatNumber              string   `json:"entityVatNumber,omitempty"`
	ClientsDoc                   []Record `json:"clientsDoc,omitempty"`
	UpdateClientRequestsDoc      []Record `json:"updateclientRequestsDoc,omitempty"`
	ClientCorrelationRequestsDoc []Record `json:"clientcorrelationsRequestsDoc,omitempty"`
	CancelClientRequestsDoc      []Record `json:"cancelClientRequestsDoc,omitempty"`
	// ContinuationToken is a string, or a Record when the token is structured
	ContinuationToken any `json:"continuationToken,omitempty"`
}
