package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

// Version is reported by the index endpoint
var Version = "1.0.0"

// WarningsHeader carries non-blocking invoice validation warnings
const WarningsHeader = "X-Validation-Warnings"

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, IndexResponse{
		Message: "myDATA gateway: AADE DCL and invoicing API for vehicle rental",
		Version: Version,
		Endpoints: map[string]string{
			"health":             "GET /health",
			"createClient":       "POST /api/clients",
			"getClients":         "GET /api/clients?dclId={id}",
			"updateClient":       "PUT /api/clients/:dclId",
			"cancelClient":       "DELETE /api/clients/:dclId",
			"correlateClient":    "POST /api/clients/correlations",
			"createInvoice":      "POST /api/invoices",
			"billingBooks":       "GET /api/billing-books",
			"createBillingBook":  "POST /api/billing-books",
			"resolveBillingBook": "GET /api/billing-books/resolve?code={invoiceTypeCode}",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// bindJSON decodes the request body into v. An empty body leaves v zeroed
// so that validation reports the missing fields.
func (s *Server) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(c, model.NewValidationError([]string{"invalid JSON body: " + err.Error()}))
		return false
	}
	return true
}

func (s *Server) handleSendClient(c *gin.Context) {
	var req model.SendClientRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.gateway.SendClient(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleUpdateClient(c *gin.Context) {
	var req model.UpdateClientRequest
	if !s.bindJSON(c, &req) {
		return
	}

	// A non-numeric URL id falls back to the body's initialDclId
	dclID, _ := strconv.ParseInt(c.Param("dclId"), 10, 64)

	resp, err := s.gateway.UpdateClient(c.Request.Context(), dclID, &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCancelClient(c *gin.Context) {
	resp, err := s.gateway.CancelClient(c.Request.Context(), c.Param("dclId"), c.Query("entityVatNumber"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleRequestClients(c *gin.Context) {
	var q validation.RequestClientsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.writeError(c, model.NewValidationError([]string{err.Error()}))
		return
	}

	doc, err := s.gateway.RequestClients(c.Request.Context(), q)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleClientCorrelations(c *gin.Context) {
	var req model.ClientCorrelationsRequest
	if !s.bindJSON(c, &req) {
		return
	}

	resp, err := s.gateway.ClientCorrelations(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleCreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if !s.bindJSON(c, &req) {
		return
	}

	result, err := s.gateway.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if len(result.Warnings) > 0 {
		c.Header(WarningsHeader, strings.Join(result.Warnings, "; "))
	}

	status := http.StatusCreated
	switch {
	case result.Response.IsPending():
		status = http.StatusAccepted
	case result.Response.HasErrors():
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result.Response)
}

func (s *Server) handleListBillingBooks(c *gin.Context) {
	books, err := s.gateway.ListBillingBooks(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if books == nil {
		books = []model.BillingBook{}
	}
	c.JSON(http.StatusOK, books)
}

func (s *Server) handleCreateBillingBook(c *gin.Context) {
	var req model.CreateBillingBookRequest
	if !s.bindJSON(c, &req) {
		return
	}

	book, err := s.gateway.CreateBillingBook(c.Request.Context(), &req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (s *Server) handleResolveBillingBook(c *gin.Context) {
	book, err := s.gateway.ResolveBillingBook(c.Request.Context(), c.Query("code"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}
