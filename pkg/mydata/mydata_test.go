package mydata_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/pkg/mydata"
)

func ptr[T any](v T) *T { return &v }

// upstream fakes both APIs on a single server: DCL under /dcl, Wrapp under /wrapp
type upstream struct {
	sendCalls atomic.Int32
	logins    atomic.Int32
}

func (u *upstream) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /dcl/SendClient", func(w http.ResponseWriter, r *http.Request) {
		n := u.sendCalls.Add(1)
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<ResponseDoc><response><index>1</index><newClientDclID>` +
			strconv.Itoa(int(n)) + `</newClientDclID><statusCode>Success</statusCode></response></ResponseDoc>`))
	})
	mux.HandleFunc("POST /dcl/CancelClient", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("DCLID") != "99" {
			http.Error(w, "<error>unknown</error>", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`<ResponseDoc><response><cancellationID>7</cancellationID><statusCode>Success</statusCode></response></ResponseDoc>`))
	})
	mux.HandleFunc("GET /dcl/RequestClients", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<RequestedDoc><clientsDoc><client><dclId>` + r.URL.Query().Get("DCLID") + `</dclId></client></clientsDoc></RequestedDoc>`))
	})
	mux.HandleFunc("POST /wrapp/login", func(w http.ResponseWriter, r *http.Request) {
		u.logins.Add(1)
		_, _ = w.Write([]byte(`{"data":{"attributes":{"jwt":"tok"}}}`))
	})
	mux.HandleFunc("GET /wrapp/billing_books", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]mydata.BillingBook{{ID: "b1", InvoiceTypeCode: "11.1"}})
	})
	mux.HandleFunc("POST /wrapp/invoices", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"inv-1","my_data_mark":"400001"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, u *upstream) *mydata.Client {
	srv := u.start(t)
	return mydata.NewClient(mydata.Options{
		AADEUserID:          "user",
		AADESubscriptionKey: "key",
		AADEBaseURL:         srv.URL + "/dcl",
		WrappAPIKey:         "api",
		WrappEmail:          "ops@example.gr",
		WrappBaseURL:        srv.URL + "/wrapp",
		BatchConcurrency:    2,
	})
}

func rental() *mydata.SendClientRequest {
	return &mydata.SendClientRequest{
		Branch: ptr(0),
		Rental: &mydata.RentalUseCase{VehicleMovementPurpose: ptr(mydata.MovementRental)},
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := mydata.DefaultOptions()

	assert.Equal(t, "https://mydataapidev.aade.gr/DCL", opts.AADEBaseURL)
	assert.Equal(t, "https://wrapp.ai/api/v1", opts.WrappBaseURL)
	assert.Equal(t, 4, opts.BatchConcurrency)
	assert.NotNil(t, mydata.NewClient(mydata.Options{}))
}

func TestClient_SendClient(t *testing.T) {
	u := &upstream{}
	client := newClient(t, u)

	resp, err := client.SendClient(context.Background(), rental())
	require.NoError(t, err)
	require.Len(t, resp.Response, 1)
	assert.Equal(t, mydata.StatusSuccess, resp.Response[0].StatusCode)
	assert.Equal(t, int64(1), *resp.Response[0].NewClientDclID)
}

func TestClient_ValidationBeforeCall(t *testing.T) {
	u := &upstream{}
	client := newClient(t, u)

	_, err := client.SendClient(context.Background(), &mydata.SendClientRequest{})
	require.Error(t, err)

	var validationErr *mydata.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Details, "branch is required")
	assert.Equal(t, int32(0), u.sendCalls.Load())
}

func TestClient_SendClientBatch(t *testing.T) {
	u := &upstream{}
	client := newClient(t, u)

	reqs := []*mydata.SendClientRequest{rental(), rental(), {}, rental(), rental()}
	results, err := client.SendClientBatch(context.Background(), reqs)

	require.Error(t, err)
	assert.Equal(t, mydata.KindValidation, mydata.KindOf(err))
	require.Len(t, results, 5)
	assert.Nil(t, results[2])
	for _, i := range []int{0, 1, 3, 4} {
		assert.NotNil(t, results[i], "result %d", i)
	}
	assert.Equal(t, int32(4), u.sendCalls.Load())
}

func TestClient_CancelAndRequest(t *testing.T) {
	client := newClient(t, &upstream{})
	ctx := context.Background()

	resp, err := client.CancelClient(ctx, 99, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), *resp.Response[0].CancellationID)

	_, err = client.CancelClient(ctx, 5, "")
	var apiErr *mydata.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, mydata.KindTaxAuthority, mydata.KindOf(err))
	assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus())

	doc, err := client.RequestClients(ctx, mydata.RequestClientsParams{DclID: 42, MaxDclID: ptr(int64(50))})
	require.NoError(t, err)
	require.Len(t, doc.ClientsDoc, 1)
	assert.Equal(t, "42", doc.ClientsDoc[0]["dclId"])
}

func TestClient_Invoicing(t *testing.T) {
	u := &upstream{}
	client := newClient(t, u)
	ctx := context.Background()

	book, err := client.ResolveBillingBook(ctx, "11.2")
	require.NoError(t, err)
	assert.Equal(t, "b1", book.ID)

	_, err = client.ResolveBillingBook(ctx, "2.1")
	assert.ErrorIs(t, err, mydata.ErrBillingBookNotFound)

	d := func(s string) *decimal.Decimal { v := decimal.RequireFromString(s); return &v }
	resp, warnings, err := client.CreateInvoice(ctx, &mydata.CreateInvoiceRequest{
		BillingBookID:      book.ID,
		InvoiceTypeCode:    "11.2",
		PaymentMethodType:  ptr(mydata.PaymentCash),
		Counterpart:        &mydata.Counterpart{Name: "Walk-in"},
		NetTotalAmount:     d("50"),
		VATTotalAmount:     d("12"),
		TotalAmount:        d("62"),
		PayableTotalAmount: d("62"),
		InvoiceLines: []mydata.InvoiceLine{{
			LineNumber: ptr(1), Name: "Rental day", Quantity: d("1"), UnitPrice: d("50"),
			NetTotalPrice: d("50"), VATRate: d("24"), VATTotal: d("12"), Subtotal: d("62"),
			ClassificationCategory: "category1_3", ClassificationType: "E3_561_003",
		}},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "400001", resp.MyDataMark)
	assert.Equal(t, int32(1), u.logins.Load())
}

func TestBuildAndValidateOffline(t *testing.T) {
	req := rental()
	assert.True(t, mydata.ValidateSendClient(req).Valid())

	doc, err := mydata.BuildSendClient(req)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(doc), "<?xml"))
	assert.Contains(t, string(doc), "<dcrnew:vehicleMovementPurpose>1</dcrnew:vehicleMovementPurpose>")

	book, ok := mydata.FindBillingBook([]mydata.BillingBook{{ID: "x", InvoiceTypeCode: "1.1"}}, "1.3")
	assert.True(t, ok)
	assert.Equal(t, "x", book.ID)
}
