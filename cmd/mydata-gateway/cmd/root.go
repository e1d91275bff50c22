package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/mydata-gateway/internal/aade"
	"github.com/rezonia/mydata-gateway/internal/config"
	"github.com/rezonia/mydata-gateway/internal/logger"
	"github.com/rezonia/mydata-gateway/internal/wrapp"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	envFile      string

	settings = config.New()
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mydata-gateway",
	Short: "REST gateway to the AADE digital client registry and the Wrapp invoicing API",
	Long: `mydata-gateway accepts JSON and forwards it to the Greek tax authority's
Digital Client List (DCL) XML API for vehicle rental, and to the Wrapp
invoicing API for issuing myDATA invoices.

Every request is validated before anything is sent upstream.

Examples:
  # Start the HTTP API
  mydata-gateway serve --port 3000

  # Check a client registration offline
  mydata-gateway validate client rental.json

  # Print the XML sent for a registration
  mydata-gateway build send rental.json

  # Find the billing book for an invoice type
  mydata-gateway books resolve 1.4`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading configuration")
	rootCmd.PersistentFlags().String("aade-base-url", "", "DCL API base URL (env: AADE_BASE_URL)")
	rootCmd.PersistentFlags().String("wrapp-base-url", "", "Wrapp API base URL (env: WRAPP_BASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (env: LOG_LEVEL)")

	bindFlag(rootCmd, "AADE_BASE_URL", "aade-base-url")
	bindFlag(rootCmd, "WRAPP_BASE_URL", "wrapp-base-url")
	bindFlag(rootCmd, "LOG_LEVEL", "log-level")
}

// bindFlag lets a flag override an env var. Only flags that were set on the
// command line take precedence.
func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	if err := settings.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

func initConfig(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv(envFile)

	loaded, err := config.Load(settings)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	return logger.Setup(logger.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: "stderr",
	})
}

func newAADEClient() *aade.Client {
	return aade.NewClient(cfg.AADEUserID, cfg.AADESubscriptionKey,
		aade.WithBaseURL(cfg.AADEBaseURL),
		aade.WithTimeout(cfg.HTTPTimeout),
		aade.WithLogger(logger.WithComponent("aade")),
	)
}

func newWrappClient() *wrapp.Client {
	creds := wrapp.Credentials{
		APIKey: cfg.WrappAPIKey,
		Email:  cfg.WrappEmail,
		UserID: cfg.WrappUserID,
	}
	return wrapp.NewClient(creds,
		wrapp.WithBaseURL(cfg.WrappBaseURL),
		wrapp.WithTimeout(cfg.HTTPTimeout),
		wrapp.WithLogger(logger.WithComponent("wrapp")),
	)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
