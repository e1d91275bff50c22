// Package server exposes the gateway as a JSON REST API
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/rezonia/mydata-gateway/internal/gateway"
	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

const shutdownTimeout = 10 * time.Second

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
	// Production hides the message of unexpected errors from clients
	Production     bool
	AllowedOrigins []string
}

// Gateway is the validated request pipeline served by the API
type Gateway interface {
	SendClient(ctx context.Context, req *model.SendClientRequest) (*model.SubmitResponse, error)
	UpdateClient(ctx context.Context, dclID int64, req *model.UpdateClientRequest) (*model.SubmitResponse, error)
	CancelClient(ctx context.Context, rawID, entityVatNumber string) (*model.SubmitResponse, error)
	RequestClients(ctx context.Context, q validation.RequestClientsQuery) (*model.RequestedDoc, error)
	ClientCorrelations(ctx context.Context, req *model.ClientCorrelationsRequest) (*model.SubmitResponse, error)
	CreateInvoice(ctx context.Context, req *model.CreateInvoiceRequest) (*gateway.InvoiceResult, error)
	ListBillingBooks(ctx context.Context) ([]model.BillingBook, error)
	CreateBillingBook(ctx context.Context, req *model.CreateBillingBookRequest) (*model.BillingBook, error)
	ResolveBillingBook(ctx context.Context, code string) (*model.BillingBook, error)
}

// Server represents the HTTP API server
type Server struct {
	config  *Config
	router  *gin.Engine
	gateway Gateway
	handler http.Handler
}

// NewServer creates a new API server
func NewServer(config *Config, gw Gateway) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		RequestID(),
		Recovery(config.Production),
		sentrygin.New(sentrygin.Options{Repanic: true}),
		Logger(),
	)

	origins := config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, WarningsHeader},
	})

	s := &Server{
		config:  config,
		router:  router,
		gateway: gw,
		handler: c.Handler(router),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		clients := api.Group("/clients")
		clients.POST("", s.handleSendClient)
		clients.GET("", s.handleRequestClients)
		clients.POST("/correlations", s.handleClientCorrelations)
		clients.PUT("/:dclId", s.handleUpdateClient)
		clients.DELETE("/:dclId", s.handleCancelClient)

		api.POST("/invoices", s.handleCreateInvoice)

		books := api.Group("/billing-books")
		books.GET("", s.handleListBillingBooks)
		books.POST("", s.handleCreateBillingBook)
		books.GET("/resolve", s.handleResolveBillingBook)
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.handler
}
