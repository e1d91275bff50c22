package gateway_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/internal/gateway"
	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

func ptr[T any](v T) *T { return &v }

type fakeTax struct {
	calls   []string
	update  *model.UpdateClientRequest
	cancel  model.CancelClientParams
	request model.RequestClientsParams
}

func (f *fakeTax) SendClient(_ context.Context, _ *model.SendClientRequest) (*model.SubmitResponse, error) {
	f.calls = append(f.calls, "SendClient")
	return &model.SubmitResponse{Response: []model.ResponseItem{{StatusCode: model.StatusSuccess}}}, nil
}

func (f *fakeTax) UpdateClient(_ context.Context, req *model.UpdateClientRequest) (*model.SubmitResponse, error) {
	f.calls = append(f.calls, "UpdateClient")
	f.update = req
	return &model.SubmitResponse{}, nil
}

func (f *fakeTax) CancelClient(_ context.Context, params model.CancelClientParams) (*model.SubmitResponse, error) {
	f.calls = append(f.calls, "CancelClient")
	f.cancel = params
	return &model.SubmitResponse{}, nil
}

func (f *fakeTax) RequestClients(_ context.Context, params model.RequestClientsParams) (*model.RequestedDoc, error) {
	f.calls = append(f.calls, "RequestClients")
	f.request = params
	return &model.RequestedDoc{}, nil
}

func (f *fakeTax) ClientCorrelations(_ context.Context, _ *model.ClientCorrelationsRequest) (*model.SubmitResponse, error) {
	f.calls = append(f.calls, "ClientCorrelations")
	return &model.SubmitResponse{}, nil
}

type fakeProvider struct {
	calls []string
}

func (f *fakeProvider) CreateInvoice(_ context.Context, _ *model.CreateInvoiceRequest) (*model.InvoiceResponse, error) {
	f.calls = append(f.calls, "CreateInvoice")
	return &model.InvoiceResponse{ID: "inv-1"}, nil
}

func (f *fakeProvider) ListBillingBooks(_ context.Context) ([]model.BillingBook, error) {
	f.calls = append(f.calls, "ListBillingBooks")
	return []model.BillingBook{{ID: "b1", InvoiceTypeCode: "1.1"}}, nil
}

func (f *fakeProvider) CreateBillingBook(_ context.Context, req *model.CreateBillingBookRequest) (*model.BillingBook, error) {
	f.calls = append(f.calls, "CreateBillingBook")
	return &model.BillingBook{ID: "b2", Name: req.Name}, nil
}

func (f *fakeProvider) ResolveBillingBook(_ context.Context, code string) (*model.BillingBook, error) {
	f.calls = append(f.calls, "ResolveBillingBook:"+code)
	return &model.BillingBook{ID: "b1"}, nil
}

func newService() (*gateway.Service, *fakeTax, *fakeProvider) {
	tax, provider := &fakeTax{}, &fakeProvider{}
	return gateway.NewService(tax, provider), tax, provider
}

func TestService_ValidationBlocksOutboundCalls(t *testing.T) {
	svc, tax, provider := newService()
	ctx := context.Background()

	_, err := svc.SendClient(ctx, &model.SendClientRequest{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.UpdateClient(ctx, 0, &model.UpdateClientRequest{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.CancelClient(ctx, "abc", "")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.RequestClients(ctx, validation.RequestClientsQuery{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.ClientCorrelations(ctx, &model.ClientCorrelationsRequest{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.CreateInvoice(ctx, &model.CreateInvoiceRequest{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.CreateBillingBook(ctx, &model.CreateBillingBookRequest{})
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	_, err = svc.ResolveBillingBook(ctx, " ")
	assert.Equal(t, model.KindValidation, model.KindOf(err))

	assert.Empty(t, tax.calls)
	assert.Empty(t, provider.calls)
}

func TestService_SendClient(t *testing.T) {
	svc, tax, _ := newService()

	resp, err := svc.SendClient(context.Background(), &model.SendClientRequest{
		Branch: ptr(1),
		Rental: &model.RentalUseCase{VehicleMovementPurpose: ptr(model.MovementRental)},
	})
	require.NoError(t, err)
	assert.True(t, resp.Response[0].Succeeded())
	assert.Equal(t, []string{"SendClient"}, tax.calls)
}

func TestService_UpdateClientTakesIDFromURL(t *testing.T) {
	svc, tax, _ := newService()

	_, err := svc.UpdateClient(context.Background(), 55, &model.UpdateClientRequest{InitialDclID: ptr(int64(1))})
	require.NoError(t, err)
	assert.Equal(t, int64(55), *tax.update.InitialDclID)

	_, err = svc.UpdateClient(context.Background(), 0, &model.UpdateClientRequest{InitialDclID: ptr(int64(7))})
	require.NoError(t, err)
	assert.Equal(t, int64(7), *tax.update.InitialDclID)
}

func TestService_CancelAndRequest(t *testing.T) {
	svc, tax, _ := newService()
	ctx := context.Background()

	_, err := svc.CancelClient(ctx, "42", "123456789")
	require.NoError(t, err)
	assert.Equal(t, model.CancelClientParams{DclID: 42, EntityVatNumber: "123456789"}, tax.cancel)

	_, err = svc.RequestClients(ctx, validation.RequestClientsQuery{DclID: "10", MaxDclID: "20"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), tax.request.DclID)
	assert.Equal(t, int64(20), *tax.request.MaxDclID)
}

func TestService_CreateInvoiceCarriesWarnings(t *testing.T) {
	svc, _, provider := newService()
	d := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }

	result, err := svc.CreateInvoice(context.Background(), &model.CreateInvoiceRequest{
		BillingBookID:      "b1",
		InvoiceTypeCode:    "11.1",
		PaymentMethodType:  ptr(model.PaymentCard),
		Counterpart:        &model.Counterpart{Name: "Customer"},
		NetTotalAmount:     d("10"),
		VATTotalAmount:     d("2.4"),
		TotalAmount:        d("12.4"),
		PayableTotalAmount: d("12.4"),
		InvoiceLines: []model.InvoiceLine{{
			LineNumber: ptr(1), Name: "Wash", Quantity: d("1"), UnitPrice: d("10"),
			NetTotalPrice: d("10"), VATRate: d("24"), VATTotal: d("2.4"), Subtotal: d("12.4"),
			ClassificationCategory: "category1_3", ClassificationType: "E3_561_003",
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "inv-1", result.Response.ID)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, []string{"CreateInvoice"}, provider.calls)
}

func TestService_BillingBooks(t *testing.T) {
	svc, _, provider := newService()
	ctx := context.Background()

	books, err := svc.ListBillingBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	_, err = svc.ResolveBillingBook(ctx, " 1.4 ")
	require.NoError(t, err)

	book, err := svc.CreateBillingBook(ctx, &model.CreateBillingBookRequest{
		Name: "B2B", Series: "A", Number: ptr(int64(1)), InvoiceTypeCode: "1.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "B2B", book.Name)

	assert.Equal(t, []string{"ListBillingBooks", "ResolveBillingBook:1.4", "CreateBillingBook"}, provider.calls)
}
