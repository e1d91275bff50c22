package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/mydata-gateway/internal/dclxml"
	"github.com/rezonia/mydata-gateway/internal/model"
	"github.com/rezonia/mydata-gateway/internal/validation"
)

var (
	buildOutput         string
	buildSkipValidation bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Print the DCL XML document for a JSON request",
	Long: `Translate a JSON request into the XML document sent to the DCL API,
without sending it.

Examples:
  mydata-gateway build send rental.json
  mydata-gateway build correlation correlation.json -o doc.xml`,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.PersistentFlags().StringVarP(&buildOutput, "output", "o", "", "Write the document to a file instead of stdout")
	buildCmd.PersistentFlags().BoolVar(&buildSkipValidation, "skip-validation", false, "Build even when the request is invalid")

	buildCmd.AddCommand(
		&cobra.Command{
			Use:   "send <file.json>",
			Short: "Build a NewDigitalClientDoc",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req model.SendClientRequest
				return runBuild(args[0], &req, func() error { return validation.ValidateSendClient(&req).Err() }, func() ([]byte, error) {
					return dclxml.BuildSendClient(&req)
				})
			},
		},
		&cobra.Command{
			Use:   "update <file.json>",
			Short: "Build an UpdateClientDoc",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req model.UpdateClientRequest
				return runBuild(args[0], &req, func() error { return validation.ValidateUpdateClient(&req).Err() }, func() ([]byte, error) {
					return dclxml.BuildUpdateClient(&req)
				})
			},
		},
		&cobra.Command{
			Use:   "correlation <file.json>",
			Short: "Build a ClientCorrelationDoc",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var req model.ClientCorrelationsRequest
				return runBuild(args[0], &req, func() error { return validation.ValidateClientCorrelations(&req).Err() }, func() ([]byte, error) {
					return dclxml.BuildClientCorrelations(&req)
				})
			},
		},
	)
}

// runBuild decodes path into req, validates it and writes the built document
func runBuild(path string, req any, validate func() error, build func() ([]byte, error)) error {
	if err := decodeFile(path, req); err != nil {
		return err
	}
	if !buildSkipValidation {
		if err := validate(); err != nil {
			return err
		}
	}

	doc, err := build()
	if err != nil {
		return fmt.Errorf("failed to build document: %w", err)
	}

	if buildOutput == "" {
		_, err = os.Stdout.Write(append(doc, '\n'))
		return err
	}
	if err := os.WriteFile(buildOutput, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", buildOutput, err)
	}
	printVerbose("Wrote %s (%d bytes)\n", buildOutput, len(doc))
	return nil
}
