package validation

import "github.com/rezonia/mydata-gateway/internal/model"

// ValidateSendClient checks a rental client registration
func ValidateSendClient(req *model.SendClientRequest) Result {
	var res Result

	if req.Branch == nil {
		res.violate("branch is required")
	}

	if r := req.Rental; r == nil {
		res.violate("rental object is required")
	} else {
		if r.VehicleMovementPurpose == nil {
			res.violate("rental.vehicleMovementPurpose is required (1=Rental, 2=OwnUse, 3=FreeService)")
		}
		if hasText(r.ForeignVehicleRegistrationNumber) {
			if !hasText(r.VehicleCategory) {
				res.violate("rental.vehicleCategory is required when foreignVehicleRegistrationNumber is provided")
			}
			if !hasText(r.VehicleFactory) {
				res.violate("rental.vehicleFactory is required when foreignVehicleRegistrationNumber is provided")
			}
		}
	}

	if req.TransmissionFailure != nil && *req.TransmissionFailure == model.TransmissionFailureSentinel && !hasText(req.CreationDateTime) {
		res.violate("creationDateTime is required when transmissionFailure is 1 (UTC format)")
	}

	recurring := isTrue(req.RecurringService)
	continuous := isTrue(req.ContinuousService)
	lease := isTrue(req.ContinuousLeaseService)

	if countTrue(recurring, continuous, lease) > 1 {
		res.violate("Only one service type allowed: recurringService, continuousService, or continuousLeaseService")
	}

	if recurring {
		if !hasText(req.CustomerVatNumber) {
			res.violate("customerVatNumber is required for recurring service")
		}
		if !hasText(req.CustomerCountry) {
			res.violate("customerCountry is required for recurring service")
		}
	}

	if continuous || lease {
		if !hasText(req.FromAgreedPeriodDate) {
			res.violate("fromAgreedPeriodDate is required for continuous/lease service")
		}
		if !hasText(req.ToAgreedPeriodDate) {
			res.violate("toAgreedPeriodDate is required for continuous/lease service")
		}
	}

	if lease && req.Periodicity == nil && !hasText(req.PeriodicityOther) {
		res.violate("periodicity or periodicityOther is required for continuous lease service")
	}

	if recurring && req.Rental != nil && req.Rental.VehicleMovementPurpose != nil {
		switch *req.Rental.VehicleMovementPurpose {
		case model.MovementOwnUse, model.MovementFreeService:
			res.violate("vehicleMovementPurpose cannot be 2 (OwnUse) or 3 (FreeService) when recurringService is true")
		}
	}

	return res
}

// ValidateUpdateClient checks a client update
func ValidateUpdateClient(req *model.UpdateClientRequest) Result {
	var res Result

	if req.InitialDclID == nil || *req.InitialDclID == 0 {
		res.violate("initialDclId is required")
	}

	if isTrue(req.NonIssueInvoice) && (hasText(req.InvoiceCounterparty) || hasText(req.InvoiceCounterpartyCountry)) {
		res.violate("invoiceCounterparty and invoiceCounterpartyCountry must not be sent when nonIssueInvoice is true")
	}

	return res
}

// ValidateClientCorrelations checks a correlation request
func ValidateClientCorrelations(req *model.ClientCorrelationsRequest) Result {
	var res Result

	switch {
	case req.Mark == nil && req.FIM == nil:
		res.violate("Either mark or fim must be provided")
	case req.Mark != nil && req.FIM != nil:
		res.violate("Only one of mark or fim should be provided, not both")
	}

	if f := req.FIM; f != nil {
		if f.FIMNumber == "" {
			res.violate("fim.FIMNumber is required")
		}
		if f.FIMAA == nil {
			res.violate("fim.FIMAA is required")
		}
		if f.FIMIssueDate == "" {
			res.violate("fim.FIMIssueDate is required")
		}
		if f.FIMIssueTime == "" {
			res.violate("fim.FIMIssueTime is required")
		}
	}

	switch n := len(req.CorrelatedDCLIDs); {
	case n == 0:
		res.violate("correlatedDCLIds must be a non-empty array")
	case n > model.MaxCorrelatedDCLIDs:
		res.violate("correlatedDCLIds cannot contain more than %d elements", model.MaxCorrelatedDCLIDs)
	}

	return res
}

func hasText(s *string) bool {
	return s != nil && *s != ""
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
