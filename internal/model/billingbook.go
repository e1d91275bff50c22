package model

// BillingBook is an invoicing-provider ledger for one invoice type.
// A book with code "X.1" covers every "X.*" invoice type.
type BillingBook struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Series          string `json:"series"`
	InvoiceTypeCode string `json:"invoice_type_code"`
	Number          int64  `json:"number"`
}

// CreateBillingBookRequest creates a new billing book
type CreateBillingBookRequest struct {
	Name            string `json:"name" validate:"required"`
	Series          string `json:"series" validate:"required"`
	Number          *int64 `json:"number" validate:"required"`
	InvoiceTypeCode string `json:"invoice_type_code" validate:"required"`
}

// FindBillingBook returns the book for code: an exact match first, then the
// umbrella book of the code's major version. ok is false when neither exists.
func FindBillingBook(books []BillingBook, code string) (book BillingBook, ok bool) {
	for _, b := range books {
		if b.InvoiceTypeCode == code {
			return b, true
		}
	}
	umbrella := UmbrellaTypeCode(code)
	for _, b := range books {
		if b.InvoiceTypeCode == umbrella {
			return b, true
		}
	}
	return BillingBook{}, false
}
