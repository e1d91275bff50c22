package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rezonia/mydata-gateway/internal/gateway"
	"github.com/rezonia/mydata-gateway/internal/logger"
	"github.com/rezonia/mydata-gateway/internal/server"
)

var (
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
	corsOrigins  []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The API provides endpoints for:
  - POST   /api/clients                  - Register a rental client (SendClient)
  - GET    /api/clients?dclId=           - Fetch client entries (RequestClients)
  - PUT    /api/clients/:dclId           - Update a client entry (UpdateClient)
  - DELETE /api/clients/:dclId           - Cancel a client entry (CancelClient)
  - POST   /api/clients/correlations     - Correlate entries with a mark or FIM
  - POST   /api/invoices                 - Issue an invoice through Wrapp
  - GET    /api/billing-books            - List billing books
  - POST   /api/billing-books            - Create a billing book
  - GET    /api/billing-books/resolve    - Find the book for an invoice type
  - GET    /health                       - Health check

Examples:
  # Start server on the configured PORT (default 3000)
  mydata-gateway serve

  # Start on a custom port in debug mode
  mydata-gateway serve --port 8080 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Server listen port (env: PORT)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
	serveCmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Allowed CORS origins (default any)")

	bindFlag(serveCmd, "PORT", "port")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     version,
		})
		if err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	for _, name := range cfg.MissingCredentials() {
		log.Warn().Str("variable", name).Msg("upstream credential not configured")
	}

	svc := gateway.NewService(newAADEClient(), newWrappClient(),
		gateway.WithLogger(logger.WithComponent("gateway")),
	)
	srv := server.NewServer(&server.Config{
		Address:        cfg.Address(),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		Debug:          serverDebug,
		Production:     cfg.IsProduction(),
		AllowedOrigins: corsOrigins,
	}, svc)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("address", cfg.Address()).
		Str("env", cfg.Env).
		Str("aade_base_url", cfg.AADEBaseURL).
		Msg("starting server")

	return srv.Run(ctx)
}
