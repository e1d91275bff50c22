package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/mydata-gateway/internal/decimal"
	"github.com/rezonia/mydata-gateway/internal/model"
)

// ValidateInvoice checks an invoice before it is forwarded to the provider.
// Totals are caller supplied; disagreement with the lines is only a warning.
func ValidateInvoice(req *model.CreateInvoiceRequest) Result {
	var res Result

	if req.BillingBookID == "" {
		res.violate("billing_book_id is required")
	}

	if req.InvoiceTypeCode == "" {
		res.violate("invoice_type_code is required")
	} else if !model.IsRecognizedTypeCode(req.InvoiceTypeCode) {
		res.violate("invoice_type_code %q is not a recognized code", req.InvoiceTypeCode)
	}

	if req.PaymentMethodType == nil {
		res.violate("payment_method_type is required")
	} else if !req.PaymentMethodType.Valid() {
		res.violate("payment_method_type must be between 0 and 7")
	}

	for _, total := range []struct {
		name  string
		value *decimal.Decimal
	}{
		{"net_total_amount", req.NetTotalAmount},
		{"vat_total_amount", req.VATTotalAmount},
		{"total_amount", req.TotalAmount},
		{"payable_total_amount", req.PayableTotalAmount},
	} {
		if total.value == nil {
			res.violate("%s is required", total.name)
		}
	}

	validateCounterpart(&res, req)
	validateLines(&res, req.InvoiceLines)

	if req.Currency != "" && req.ExchangeRate == nil {
		res.violate("exchange_rate is required when currency is specified")
	}

	if req.RequiresDeliveryDetail() {
		validateDeliveryDetail(&res, req.DeliveryDetail)
	}

	if req.PaymentMethodType != nil && *req.PaymentMethodType == model.PaymentCard && req.POSDeviceID == "" && !req.Draft {
		res.warn("payment_method_type 3 (card) without pos_device_id is only accepted for drafts; the provider may reject it")
	}

	checkTotals(&res, req)

	return res
}

func validateCounterpart(res *Result, req *model.CreateInvoiceRequest) {
	cp := req.Counterpart
	if cp == nil {
		res.violate("counterpart object is required")
		return
	}
	if cp.Name == "" {
		res.violate("counterpart.name is required")
	}
	if !model.IsB2BTypeCode(req.InvoiceTypeCode) {
		return
	}
	for _, f := range []struct{ name, value string }{
		{"country_code", cp.CountryCode},
		{"vat", cp.VAT},
		{"city", cp.City},
		{"street", cp.Street},
		{"number", cp.Number},
		{"postal_code", cp.PostalCode},
	} {
		if f.value == "" {
			res.violate("counterpart.%s is required for B2B invoices", f.name)
		}
	}
}

func validateLines(res *Result, lines []model.InvoiceLine) {
	if len(lines) == 0 {
		res.violate("invoice_lines must be a non-empty array")
		return
	}

	for i, line := range lines {
		prefix := fmt.Sprintf("invoice_lines[%d]", i)

		if line.LineNumber == nil {
			res.violate("%s.line_number is required", prefix)
		}
		if line.Name == "" {
			res.violate("%s.name is required", prefix)
		}
		for _, amount := range []struct {
			name  string
			value *decimal.Decimal
		}{
			{"quantity", line.Quantity},
			{"unit_price", line.UnitPrice},
			{"net_total_price", line.NetTotalPrice},
			{"vat_rate", line.VATRate},
			{"vat_total", line.VATTotal},
			{"subtotal", line.Subtotal},
		} {
			if amount.value == nil {
				res.violate("%s.%s is required", prefix, amount.name)
			}
		}
		if line.ClassificationCategory == "" {
			res.violate("%s.classification_category is required", prefix)
		}
		if line.ClassificationType == "" {
			res.violate("%s.classification_type is required", prefix)
		}

		if money.IsZero(line.VATRate) && line.VATExemptionCode == "" {
			res.violate("%s.vat_exemption_code is required when vat_rate is 0", prefix)
		}

		if line.NetTotalPrice != nil && line.VATRate != nil && line.VATTotal != nil {
			expected := money.CalculateVAT(*line.NetTotalPrice, *line.VATRate)
			if !money.EqualCents(expected, *line.VATTotal) {
				res.warn("%s.vat_total %s differs from net_total_price at vat_rate %s%% (%s)",
					prefix, line.VATTotal.StringFixed(2), line.VATRate.String(), expected.StringFixed(2))
			}
		}
	}
}

func validateDeliveryDetail(res *Result, dd *model.DeliveryDetail) {
	if dd == nil {
		res.violate("delivery_detail is required when is_delivery_note is true or invoice_type_code is %s", model.DeliveryNoteTypeCode)
		return
	}
	for _, f := range []struct{ name, value string }{
		{"dispatch_date", dd.DispatchDate},
		{"dispatch_time", dd.DispatchTime},
		{"vehicle_number", dd.VehicleNumber},
		{"purpose_of_movement", dd.PurposeOfMovement},
		{"issuer_of_movement", dd.IssuerOfMovement},
		{"from_address", dd.FromAddress},
		{"from_number", dd.FromNumber},
		{"from_city", dd.FromCity},
		{"from_zipcode", dd.FromZipcode},
		{"to_address", dd.ToAddress},
		{"to_number", dd.ToNumber},
		{"to_city", dd.ToCity},
		{"to_zipcode", dd.ToZipcode},
	} {
		if f.value == "" {
			res.violate("delivery_detail.%s is required", f.name)
		}
	}
}

// checkTotals compares the invoice totals with the sum of its lines
func checkTotals(res *Result, req *model.CreateInvoiceRequest) {
	if len(req.InvoiceLines) == 0 {
		return
	}

	nets := make([]*decimal.Decimal, 0, len(req.InvoiceLines))
	vats := make([]*decimal.Decimal, 0, len(req.InvoiceLines))
	for _, line := range req.InvoiceLines {
		nets = append(nets, line.NetTotalPrice)
		vats = append(vats, line.VATTotal)
	}

	compare := func(name string, total *decimal.Decimal, lines []*decimal.Decimal, lineField string) {
		if total == nil {
			return
		}
		sum, ok := money.SumPresent(lines)
		if ok && !money.EqualCents(sum, *total) {
			res.warn("%s %s differs from the sum of invoice_lines %s (%s)",
				name, total.StringFixed(2), lineField, sum.StringFixed(2))
		}
	}
	compare("net_total_amount", req.NetTotalAmount, nets, "net_total_price")
	compare("vat_total_amount", req.VATTotalAmount, vats, "vat_total")
}
