package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentMethodType is the myDATA payment method code
type PaymentMethodType int

const (
	PaymentCash                PaymentMethodType = 0
	PaymentCredit              PaymentMethodType = 1
	PaymentLocalBankAccount    PaymentMethodType = 2
	PaymentCard                PaymentMethodType = 3
	PaymentCheque              PaymentMethodType = 4
	PaymentOverseasBankAccount PaymentMethodType = 5
	PaymentWebBankingTransfer  PaymentMethodType = 6
	PaymentIris                PaymentMethodType = 7
)

// Valid reports whether the code is one of the defined payment methods
func (p PaymentMethodType) Valid() bool {
	return p >= PaymentCash && p <= PaymentIris
}

// DeliveryNoteTypeCode is the invoice type that is always a delivery note
const DeliveryNoteTypeCode = "9.3"

var (
	b2bTypeCodes = []string{
		"1.1", "1.2", "1.3", "1.4", "1.5", "1.6",
		"2.1", "2.2", "2.3", "2.4",
		"3.1", "3.2",
		"5.1", "5.2",
		"6.1", "6.2",
		"7.1",
		"8.1",
	}
	b2cTypeCodes = []string{
		"11.1", "11.2", "11.3", "11.4", "11.5",
	}
	otherTypeCodes = []string{
		"8.2", "8.4", "8.5", "8.6",
		"9.3",
		"13.1", "13.2", "13.3", "13.4", "13.30", "13.31",
	}
)

// IsB2BTypeCode reports whether the invoice type requires full counterpart details
func IsB2BTypeCode(code string) bool {
	return contains(b2bTypeCodes, code)
}

// IsB2CTypeCode reports whether the invoice type is a retail document
func IsB2CTypeCode(code string) bool {
	return contains(b2cTypeCodes, code)
}

// IsRecognizedTypeCode reports whether the invoice type code is known
func IsRecognizedTypeCode(code string) bool {
	return IsB2BTypeCode(code) || IsB2CTypeCode(code) || contains(otherTypeCodes, code)
}

// UmbrellaTypeCode returns the "<major>.1" code that covers every "<major>.*" code
func UmbrellaTypeCode(code string) string {
	major, _, _ := strings.Cut(code, ".")
	return major + ".1"
}

func contains(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Counterpart is the customer of an invoice. Address and VAT fields are
// required for B2B invoice types only.
type Counterpart struct {
	Name        string `json:"name"`
	CountryCode string `json:"country_code,omitempty"`
	VAT         string `json:"vat,omitempty"`
	City        string `json:"city,omitempty"`
	Street      string `json:"street,omitempty"`
	Number      string `json:"number,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Email       string `json:"email,omitempty"`
}

// LineDeduction is a deduction applied to an invoice line
type LineDeduction struct {
	Title         string          `json:"title,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Informational *bool           `json:"informational,omitempty"`
}

// LineClassification overrides the single classification of a line
type LineClassification struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
}

// InvoiceLine is a single line of an invoice. Amounts are caller supplied
// and never recomputed.
type InvoiceLine struct {
	LineNumber                *int                 `json:"line_number,omitempty"`
	Name                      string               `json:"name"`
	Description               string               `json:"description,omitempty"`
	Quantity                  *decimal.Decimal     `json:"quantity,omitempty"`
	QuantityType              *int                 `json:"quantity_type,omitempty"`
	UnitPrice                 *decimal.Decimal     `json:"unit_price,omitempty"`
	NetTotalPrice             *decimal.Decimal     `json:"net_total_price,omitempty"`
	VATRate                   *decimal.Decimal     `json:"vat_rate,omitempty"`
	VATTotal                  *decimal.Decimal     `json:"vat_total,omitempty"`
	Subtotal                  *decimal.Decimal     `json:"subtotal,omitempty"`
	VATExemptionCode          string               `json:"vat_exemption_code,omitempty"`
	ClassificationCategory    string               `json:"classification_category"`
	ClassificationType        string               `json:"classification_type"`
	OtherTaxesAmount          *decimal.Decimal     `json:"other_taxes_amount,omitempty"`
	AccommodationTax          *decimal.Decimal     `json:"accommodation_tax,omitempty"`
	OtherTaxesPercentCategory string               `json:"other_taxes_percent_category,omitempty"`
	WithholdTaxRate           *decimal.Decimal     `json:"withhold_tax_rate,omitempty"`
	WithholdTaxCode           string               `json:"withhold_tax_code,omitempty"`
	WithholdingTotal          *decimal.Decimal     `json:"withholding_total,omitempty"`
	StampDutyTaxCode          string               `json:"stamp_duty_tax_code,omitempty"`
	StampDutyAmount           *decimal.Decimal     `json:"stamp_duty_amount,omitempty"`
	CPVCode                   string               `json:"cpv_code,omitempty"`
	DeductionsAmount          *decimal.Decimal     `json:"deductions_amount,omitempty"`
	Deductions                []LineDeduction      `json:"deductions,omitempty"`
	ExpensesVATClassification string               `json:"expenses_vat_classification,omitempty"`
	Classifications           []LineClassification `json:"classifications,omitempty"`
	InvoiceDetailType         *int                 `json:"invoice_detail_type,omitempty"`
	Expense                   *bool                `json:"expense,omitempty"`
	RecType                   *int                 `json:"rec_type,omitempty"`
	FeesCategory              *int                 `json:"fees_category,omitempty"`
}

// DeliveryDetail describes the goods movement of a delivery note
type DeliveryDetail struct {
	DispatchDate               string `json:"dispatch_date"`
	DispatchTime               string `json:"dispatch_time"`
	VehicleNumber              string `json:"vehicle_number"`
	PurposeOfMovement          string `json:"purpose_of_movement"`
	IssuerOfMovement           string `json:"issuer_of_movement"`
	FromAddress                string `json:"from_address"`
	FromNumber                 string `json:"from_number"`
	FromCity                   string `json:"from_city"`
	FromZipcode                string `json:"from_zipcode"`
	FromBranch                 *int   `json:"from_branch,omitempty"`
	ToAddress                  string `json:"to_address"`
	ToNumber                   string `json:"to_number"`
	ToCity                     string `json:"to_city"`
	ToZipcode                  string `json:"to_zipcode"`
	ToBranch                   *int   `json:"to_branch,omitempty"`
	ReverseDeliveryNote        *bool  `json:"reverse_delivery_note,omitempty"`
	ReverseDeliveryNotePurpose *int   `json:"reverse_delivery_note_purpose,omitempty"`
}

// TaxesTotal is an invoice-level tax entry
type TaxesTotal struct {
	TaxType         int              `json:"tax_type"`
	TaxCategory     int              `json:"tax_category"`
	TaxAmount       decimal.Decimal  `json:"tax_amount"`
	UnderlyingValue *decimal.Decimal `json:"underlying_value,omitempty"`
}

// CreateInvoiceRequest is the invoice forwarded to the invoicing provider
type CreateInvoiceRequest struct {
	Branch                 string             `json:"branch,omitempty"`
	Counterpart            *Counterpart       `json:"counterpart,omitempty"`
	BillingBookID          string             `json:"billing_book_id"`
	InvoiceTypeCode        string             `json:"invoice_type_code"`
	PaymentMethodType      *PaymentMethodType `json:"payment_method_type,omitempty"`
	PaymentDetails         string             `json:"payment_details,omitempty"`
	Currency               string             `json:"currency,omitempty"`
	ExchangeRate           *decimal.Decimal   `json:"exchange_rate,omitempty"`
	OtherTaxesAmount       *decimal.Decimal   `json:"other_taxes_amount,omitempty"`
	NetTotalAmount         *decimal.Decimal   `json:"net_total_amount,omitempty"`
	VATTotalAmount         *decimal.Decimal   `json:"vat_total_amount,omitempty"`
	TotalAmount            *decimal.Decimal   `json:"total_amount,omitempty"`
	PayableTotalAmount     *decimal.Decimal   `json:"payable_total_amount,omitempty"`
	Notes                  string             `json:"notes,omitempty"`
	CorrelatedInvoices     []string           `json:"correlated_invoices,omitempty"`
	IsDeliveryNote         bool               `json:"is_delivery_note,omitempty"`
	DeliveryDetail         *DeliveryDetail    `json:"delivery_detail,omitempty"`
	InvoiceLines           []InvoiceLine      `json:"invoice_lines"`
	WithholdingTotalAmount *decimal.Decimal   `json:"withholding_total_amount,omitempty"`
	TotalStampDutyAmount   *decimal.Decimal   `json:"total_stamp_duty_amount,omitempty"`
	B2G                    *bool              `json:"b2g,omitempty"`
	CustomerEmails         []string           `json:"customer_emails,omitempty"`
	EmailLocale            string             `json:"email_locale,omitempty"`
	DeductionsTotalAmount  *decimal.Decimal   `json:"deductions_total_amount,omitempty"`
	Num                    *int64             `json:"num,omitempty"`
	SelfPricing            *bool              `json:"self_pricing,omitempty"`
	POSDeviceID            string             `json:"pos_device_id,omitempty"`
	AADEPreloaded          string             `json:"aade_preloaded,omitempty"`
	RefundInvoiceID        string             `json:"refund_invoice_id,omitempty"`
	GeneratePDF            *bool              `json:"generate_pdf,omitempty"`
	Draft                  bool               `json:"draft,omitempty"`
	Installments           *bool              `json:"installments,omitempty"`
	TaxesTotals            []TaxesTotal       `json:"taxes_totals,omitempty"`
	FeesAmount             *decimal.Decimal   `json:"fees_amount,omitempty"`
	StampDutyAmount        *decimal.Decimal   `json:"stamp_duty_amount,omitempty"`
	CateringTableID        string             `json:"catering_table_id,omitempty"`
	CateringTableName      string             `json:"catering_table_name,omitempty"`
}

// RequiresDeliveryDetail reports whether the invoice is a delivery note
func (r *CreateInvoiceRequest) RequiresDeliveryDetail() bool {
	return r.IsDeliveryNote || r.InvoiceTypeCode == DeliveryNoteTypeCode
}

// ProviderError is one entry of the provider's error envelope
type ProviderError struct {
	Title   string `json:"title,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// InvoiceResponse is the union of the provider's success, pending and error
// answers to an invoice creation
type InvoiceResponse struct {
	ID                string          `json:"id,omitempty"`
	MyDataMark        string          `json:"my_data_mark,omitempty"`
	MyDataUID         string          `json:"my_data_uid,omitempty"`
	MyDataQRURL       string          `json:"my_data_qr_url,omitempty"`
	Series            string          `json:"series,omitempty"`
	Num               *int64          `json:"num,omitempty"`
	CancelledByMark   *string         `json:"cancelled_by_mark,omitempty"`
	WrappInvoiceURL   string          `json:"wrapp_invoice_url,omitempty"`
	WrappInvoiceURLEn string          `json:"wrapp_invoice_url_en,omitempty"`
	Status            string          `json:"status,omitempty"`
	InvoiceID         string          `json:"invoice_id,omitempty"`
	Errors            []ProviderError `json:"errors,omitempty"`
}

// IsPending reports whether the provider accepted the invoice for later issue
func (r *InvoiceResponse) IsPending() bool {
	return r.Status == "pending"
}

// HasErrors reports whether the provider answered with an error envelope
func (r *InvoiceResponse) HasErrors() bool {
	return r.Errors != nil
}
