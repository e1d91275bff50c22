package aade_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/mydata-gateway/internal/aade"
	"github.com/rezonia/mydata-gateway/internal/model"
)

func ptr[T any](v T) *T { return &v }

const successDoc = `<?xml version="1.0" encoding="utf-8"?>
<ResponseDoc>
  <response>
    <index>1</index>
    <newClientDclID>123456</newClientDclID>
    <statusCode>Success</statusCode>
  </response>
</ResponseDoc>`

type captured struct {
	method  string
	path    string
	query   map[string]string
	headers http.Header
	body    string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.headers = r.Header.Clone()
		got.body = string(body)
		got.query = map[string]string{}
		for k, v := range r.URL.Query() {
			got.query[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newClient(srv *httptest.Server) *aade.Client {
	return aade.NewClient("user-1", "key-1", aade.WithBaseURL(srv.URL+"/"))
}

func TestClient_SendClient(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, successDoc)
	client := newClient(srv)

	resp, err := client.SendClient(context.Background(), &model.SendClientRequest{
		Branch: ptr(0),
		Rental: &model.RentalUseCase{VehicleMovementPurpose: ptr(model.MovementRental)},
	})
	require.NoError(t, err)
	require.Len(t, resp.Response, 1)
	assert.Equal(t, int64(123456), *resp.Response[0].NewClientDclID)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/SendClient", got.path)
	assert.Equal(t, "user-1", got.headers.Get("aade-user-id"))
	assert.Equal(t, "key-1", got.headers.Get("ocp-apim-subscription-key"))
	assert.Equal(t, "application/xml", got.headers.Get("Content-Type"))
	assert.Contains(t, got.body, "<dcrnew:NewDigitalClientDoc")
	assert.Contains(t, got.body, "<dcrnew:branch>0</dcrnew:branch>")
}

func TestClient_UpdateAndCorrelate(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `<ResponseDoc><response><updatedClientDclID>9</updatedClientDclID><statusCode>Success</statusCode></response></ResponseDoc>`)
	client := newClient(srv)

	resp, err := client.UpdateClient(context.Background(), &model.UpdateClientRequest{InitialDclID: ptr(int64(9))})
	require.NoError(t, err)
	assert.Equal(t, int64(9), *resp.Response[0].UpdatedClientDclID)
	assert.Equal(t, "/UpdateClient", got.path)
	assert.Contains(t, got.body, "<dcrudt:initialDclId>9</dcrudt:initialDclId>")

	_, err = client.ClientCorrelations(context.Background(), &model.ClientCorrelationsRequest{
		Mark:             ptr(int64(400001)),
		CorrelatedDCLIDs: []int64{9},
	})
	require.NoError(t, err)
	assert.Equal(t, "/ClientCorrelations", got.path)
	assert.Contains(t, got.body, "<dcrudtcor:mark>400001</dcrudtcor:mark>")
}

func TestClient_CancelClient(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `<ResponseDoc><response><cancellationID>77</cancellationID><statusCode>Success</statusCode></response></ResponseDoc>`)

	resp, err := newClient(srv).CancelClient(context.Background(), model.CancelClientParams{DclID: 42, EntityVatNumber: "123456789"})
	require.NoError(t, err)
	assert.Equal(t, int64(77), *resp.Response[0].CancellationID)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/CancelClient", got.path)
	assert.Equal(t, map[string]string{"DCLID": "42", "entityVatNumber": "123456789"}, got.query)
	assert.Empty(t, got.body)
}

func TestClient_RequestClients(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `<RequestedDoc><clientsDoc><client><idDcl>42</idDcl></client></clientsDoc></RequestedDoc>`)

	doc, err := newClient(srv).RequestClients(context.Background(), model.RequestClientsParams{
		DclID:             42,
		MaxDclID:          ptr(int64(50)),
		ContinuationToken: "next",
	})
	require.NoError(t, err)
	require.Len(t, doc.ClientsDoc, 1)
	assert.Equal(t, "42", doc.ClientsDoc[0]["idDcl"])

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/RequestClients", got.path)
	assert.Equal(t, map[string]string{"DCLID": "42", "maxdclid": "50", "continuationToken": "next"}, got.query)
}

func TestClient_UpstreamError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, "<error>bad subscription</error>")

	_, err := newClient(srv).CancelClient(context.Background(), model.CancelClientParams{DclID: 1})
	require.Error(t, err)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, model.KindTaxAuthority, apiErr.Kind)
	assert.Equal(t, "CancelClient", apiErr.Op)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus())
	assert.Equal(t, "<error>bad subscription</error>", apiErr.Body)
}

func TestClient_RedirectStatusMapsToBadGateway(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotModified, "")

	_, err := newClient(srv).CancelClient(context.Background(), model.CancelClientParams{DclID: 1})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus())
}

func TestClient_MalformedResponse(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "definitely not xml")

	_, err := newClient(srv).CancelClient(context.Background(), model.CancelClientParams{DclID: 1})
	require.Error(t, err)
	assert.Equal(t, model.KindMalformedResponse, model.KindOf(err))

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "definitely not xml", apiErr.Body)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := aade.NewClient("u", "k", aade.WithBaseURL(srv.URL), aade.WithTimeout(20*time.Millisecond))
	_, err := client.RequestClients(context.Background(), model.RequestClientsParams{DclID: 1})
	require.Error(t, err)

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus())
	assert.Equal(t, model.KindTaxAuthority, model.KindOf(err))
}
