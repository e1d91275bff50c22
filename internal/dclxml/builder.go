// Package dclxml builds and parses the XML documents exchanged with the
// myDATA Digital Clientele (DCL) API.
//
// Builders emit elements in the exact order of the published XSD sequences.
// Optional fields are pointers: a nil pointer is omitted, while a pointer to
// false, zero or an empty string is emitted.
package dclxml

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rezonia/mydata-gateway/internal/model"
)

// Namespaces and schema locations of the outbound documents
const (
	NamespaceSendClient   = "http://www.aade.gr/myDATA/dcrnew/v1.0"
	NamespaceUpdateClient = "https://www.aade.gr/myDATA/dcrudt/v1.0"
	NamespaceCorrelations = "http://www.aade.gr/myDATA/dcrudtcor/v1.0"
	NamespaceXSI          = "http://www.w3.org/2001/XMLSchema-instance"

	schemaSendClient   = "SendClient-v1.1.xsd"
	schemaUpdateClient = "updateClient-v1.1.xsd"
	schemaCorrelations = "clientCorrelations-v1.1.xsd"
)

// newDigitalClientDoc is the SendClient document (prefix dcrnew)
type newDigitalClientDoc struct {
	XMLName        xml.Name         `xml:"dcrnew:NewDigitalClientDoc"`
	SchemaLocation string           `xml:"xsi:schemaLocation,attr"`
	XMLNSPrefix    string           `xml:"xmlns:dcrnew,attr"`
	XMLNSXSI       string           `xml:"xmlns:xsi,attr"`
	Client         newDigitalClient `xml:"dcrnew:newDigitalClient"`
}

type newDigitalClient struct {
	ClientServiceType      model.ClientServiceType `xml:"dcrnew:clientServiceType"`
	CreationDateTime       *string                 `xml:"dcrnew:creationDateTime,omitempty"`
	EntityVatNumber        *string                 `xml:"dcrnew:entityVatNumber,omitempty"`
	Branch                 *int                    `xml:"dcrnew:branch,omitempty"`
	RecurringService       *bool                   `xml:"dcrnew:recurringService,omitempty"`
	ContinuousService      *bool                   `xml:"dcrnew:continuousService,omitempty"`
	FromAgreedPeriodDate   *string                 `xml:"dcrnew:fromAgreedPeriodDate,omitempty"`
	ToAgreedPeriodDate     *string                 `xml:"dcrnew:toAgreedPeriodDate,omitempty"`
	MixedService           *bool                   `xml:"dcrnew:mixedService,omitempty"`
	CustomerVatNumber      *string                 `xml:"dcrnew:customerVatNumber,omitempty"`
	CustomerCountry        *string                 `xml:"dcrnew:customerCountry,omitempty"`
	TransmissionFailure    *int                    `xml:"dcrnew:transmissionFailure,omitempty"`
	CorrelatedDclID        *int64                  `xml:"dcrnew:correlatedDclId,omitempty"`
	Comments               *string                 `xml:"dcrnew:comments,omitempty"`
	UseCase                useCase                 `xml:"dcrnew:useCase"`
	Periodicity            *int                    `xml:"dcrnew:periodicity,omitempty"`
	ContinuousLeaseService *bool                   `xml:"dcrnew:continuousLeaseService,omitempty"`
	PeriodicityOther       *string                 `xml:"dcrnew:periodicityOther,omitempty"`
}

type useCase struct {
	Rental rental `xml:"dcrnew:rental"`
}

type rental struct {
	VehicleRegistrationNumber        *string                       `xml:"dcrnew:vehicleRegistrationNumber,omitempty"`
	ForeignVehicleRegistrationNumber *string                       `xml:"dcrnew:foreignVehicleRegistrationNumber,omitempty"`
	VehicleCategory                  *string                       `xml:"dcrnew:vehicleCategory,omitempty"`
	VehicleFactory                   *string                       `xml:"dcrnew:vehicleFactory,omitempty"`
	VehicleMovementPurpose           *model.VehicleMovementPurpose `xml:"dcrnew:vehicleMovementPurpose,omitempty"`
	IsDiffVehPickupLocation          *bool                         `xml:"dcrnew:isDiffVehPickupLocation,omitempty"`
	VehiclePickupLocation            *string                       `xml:"dcrnew:vehiclePickupLocation,omitempty"`
}

// updateClientDoc is the UpdateClient document (prefix dcrudt)
type updateClientDoc struct {
	XMLName        xml.Name     `xml:"dcrudt:UpdateClientDoc"`
	SchemaLocation string       `xml:"xsi:schemaLocation,attr"`
	XMLNSXSI       string       `xml:"xmlns:xsi,attr"`
	XMLNSPrefix    string       `xml:"xmlns:dcrudt,attr"`
	Client         updateClient `xml:"dcrudt:updateClient"`
}

type updateClient struct {
	InitialDclID               *int64                    `xml:"dcrudt:initialDclId,omitempty"`
	ClientServiceType          model.ClientServiceType   `xml:"dcrudt:clientServiceType"`
	EntryCompletion            *bool                     `xml:"dcrudt:entryCompletion,omitempty"`
	NonIssueInvoice            *bool                     `xml:"dcrudt:nonIssueInvoice,omitempty"`
	Amount                     *decimal.Decimal          `xml:"dcrudt:amount,omitempty"`
	IsDiffVehReturnLocation    *bool                     `xml:"dcrudt:isDiffVehReturnLocation,omitempty"`
	VehicleReturnLocation      *string                   `xml:"dcrudt:vehicleReturnLocation,omitempty"`
	InvoiceKind                *model.InvoiceKind        `xml:"dcrudt:invoiceKind,omitempty"`
	EntityVatNumber            *string                   `xml:"dcrudt:entityVatNumber,omitempty"`
	ReasonNonIssueType         *model.ReasonNonIssueType `xml:"dcrudt:reasonNonIssueType,omitempty"`
	Comments                   *string                   `xml:"dcrudt:comments,omitempty"`
	InvoiceCounterparty        *string                   `xml:"dcrudt:invoiceCounterparty,omitempty"`
	InvoiceCounterpartyCountry *string                   `xml:"dcrudt:invoiceCounterpartyCountry,omitempty"`
}

// clientCorrelationDoc is the ClientCorrelations document (prefix dcrudtcor)
type clientCorrelationDoc struct {
	XMLName        xml.Name          `xml:"dcrudtcor:ClientCorrelationDoc"`
	SchemaLocation string            `xml:"xsi:schemaLocation,attr"`
	XMLNSXSI       string            `xml:"xmlns:xsi,attr"`
	XMLNSPrefix    string            `xml:"xmlns:dcrudtcor,attr"`
	Correlation    clientCorrelation `xml:"dcrudtcor:clientCorrelation"`
}

type clientCorrelation struct {
	EntityVatNumber  *string `xml:"dcrudtcor:entityVatNumber,omitempty"`
	Mark             *int64  `xml:"dcrudtcor:mark,omitempty"`
	FIM              *fim    `xml:"dcrudtcor:FIM,omitempty"`
	CorrelatedDCLIDs []int64 `xml:"dcrudtcor:correlatedDCLids"`
}

type fim struct {
	FIMNumber    string `xml:"dcrudtcor:FIMNumber"`
	FIMAA        *int64 `xml:"dcrudtcor:FIMAA,omitempty"`
	FIMIssueDate string `xml:"dcrudtcor:FIMIssueDate"`
	FIMIssueTime string `xml:"dcrudtcor:FIMIssueTime"`
}

// BuildSendClient renders a rental client registration as a NewDigitalClientDoc
func BuildSendClient(req *model.SendClientRequest) ([]byte, error) {
	client := newDigitalClient{
		ClientServiceType:      model.ClientServiceRental,
		CreationDateTime:       req.CreationDateTime,
		EntityVatNumber:        req.EntityVatNumber,
		Branch:                 req.Branch,
		RecurringService:       req.RecurringService,
		ContinuousService:      req.ContinuousService,
		FromAgreedPeriodDate:   req.FromAgreedPeriodDate,
		ToAgreedPeriodDate:     req.ToAgreedPeriodDate,
		MixedService:           req.MixedService,
		CustomerVatNumber:      req.CustomerVatNumber,
		CustomerCountry:        req.CustomerCountry,
		TransmissionFailure:    req.TransmissionFailure,
		CorrelatedDclID:        req.CorrelatedDclID,
		Comments:               req.Comments,
		Periodicity:            req.Periodicity,
		ContinuousLeaseService: req.ContinuousLeaseService,
		PeriodicityOther:       req.PeriodicityOther,
	}
	if r := req.Rental; r != nil {
		client.UseCase.Rental = rental{
			VehicleRegistrationNumber:        r.VehicleRegistrationNumber,
			ForeignVehicleRegistrationNumber: r.ForeignVehicleRegistrationNumber,
			VehicleCategory:                  r.VehicleCategory,
			VehicleFactory:                   r.VehicleFactory,
			VehicleMovementPurpose:           r.VehicleMovementPurpose,
			IsDiffVehPickupLocation:          r.IsDiffVehPickupLocation,
			VehiclePickupLocation:            r.VehiclePickupLocation,
		}
	}

	return marshal("SendClient", newDigitalClientDoc{
		SchemaLocation: NamespaceSendClient + " " + schemaSendClient,
		XMLNSPrefix:    NamespaceSendClient,
		XMLNSXSI:       NamespaceXSI,
		Client:         client,
	})
}

// BuildUpdateClient renders a client update as an UpdateClientDoc
func BuildUpdateClient(req *model.UpdateClientRequest) ([]byte, error) {
	return marshal("UpdateClient", updateClientDoc{
		SchemaLocation: NamespaceUpdateClient + " " + schemaUpdateClient,
		XMLNSXSI:       NamespaceXSI,
		XMLNSPrefix:    NamespaceUpdateClient,
		Client: updateClient{
			InitialDclID:               req.InitialDclID,
			ClientServiceType:          model.ClientServiceRental,
			EntryCompletion:            req.EntryCompletion,
			NonIssueInvoice:            req.NonIssueInvoice,
			Amount:                     req.Amount,
			IsDiffVehReturnLocation:    req.IsDiffVehReturnLocation,
			VehicleReturnLocation:      req.VehicleReturnLocation,
			InvoiceKind:                req.InvoiceKind,
			EntityVatNumber:            req.EntityVatNumber,
			ReasonNonIssueType:         req.ReasonNonIssueType,
			Comments:                   req.Comments,
			InvoiceCounterparty:        req.InvoiceCounterparty,
			InvoiceCounterpartyCountry: req.InvoiceCounterpartyCountry,
		},
	})
}

// BuildClientCorrelations renders a correlation request as a ClientCorrelationDoc.
// The mark wins when both a mark and a FIM block are set.
func BuildClientCorrelations(req *model.ClientCorrelationsRequest) ([]byte, error) {
	corr := clientCorrelation{
		EntityVatNumber:  req.EntityVatNumber,
		Mark:             req.Mark,
		CorrelatedDCLIDs: req.CorrelatedDCLIDs,
	}
	if req.Mark == nil && req.FIM != nil {
		corr.FIM = &fim{
			FIMNumber:    req.FIM.FIMNumber,
			FIMAA:        req.FIM.FIMAA,
			FIMIssueDate: req.FIM.FIMIssueDate,
			FIMIssueTime: req.FIM.FIMIssueTime,
		}
	}

	return marshal("ClientCorrelations", clientCorrelationDoc{
		SchemaLocation: NamespaceCorrelations + " " + schemaCorrelations,
		XMLNSXSI:       NamespaceXSI,
		XMLNSPrefix:    NamespaceCorrelations,
		Correlation:    corr,
	})
}

func marshal(doc string, v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to build %s document: %w", doc, err)
	}
	return append([]byte(xml.Header), body...), nil
}
