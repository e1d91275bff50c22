package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/mydata-gateway/internal/gateway"
	"github.com/rezonia/mydata-gateway/internal/model"
)

const booksTimeout = time.Minute

var (
	bookName     string
	bookSeries   string
	bookNumber   int64
	bookTypeCode string
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage Wrapp billing books",
	Long: `List, resolve and create billing books of the configured Wrapp account.
Requires WRAPP_API_KEY and WRAPP_EMAIL or WRAPP_USER_ID.

Examples:
  mydata-gateway books list
  mydata-gateway books resolve 1.4
  mydata-gateway books create --name Retail --series R --number 1 --type 11.1`,
}

var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List billing books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), booksTimeout)
		defer cancel()

		books, err := booksService().ListBillingBooks(ctx)
		if err != nil {
			return err
		}
		return printBooks(books)
	},
}

var booksResolveCmd = &cobra.Command{
	Use:   "resolve <invoice-type-code>",
	Short: "Find the billing book used for an invoice type code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), booksTimeout)
		defer cancel()

		book, err := booksService().ResolveBillingBook(ctx, args[0])
		if err != nil {
			return err
		}
		return printBooks([]model.BillingBook{*book})
	},
}

var booksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a billing book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), booksTimeout)
		defer cancel()

		req := &model.CreateBillingBookRequest{
			Name:            bookName,
			Series:          bookSeries,
			InvoiceTypeCode: bookTypeCode,
		}
		if cmd.Flags().Changed("number") {
			req.Number = &bookNumber
		}

		book, err := booksService().CreateBillingBook(ctx, req)
		if err != nil {
			return err
		}
		return printBooks([]model.BillingBook{*book})
	},
}

func init() {
	rootCmd.AddCommand(booksCmd)
	booksCmd.AddCommand(booksListCmd, booksResolveCmd, booksCreateCmd)

	booksCreateCmd.Flags().StringVar(&bookName, "name", "", "Billing book name")
	booksCreateCmd.Flags().StringVar(&bookSeries, "series", "", "Series")
	booksCreateCmd.Flags().Int64Var(&bookNumber, "number", 0, "Starting number")
	booksCreateCmd.Flags().StringVar(&bookTypeCode, "type", "", "Invoice type code, e.g. 1.1")
}

// booksService serves billing-book commands; no DCL call is made
func booksService() *gateway.Service {
	return gateway.NewService(newAADEClient(), newWrappClient())
}

func printBooks(books []model.BillingBook) error {
	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(books)
	}

	if len(books) == 0 {
		fmt.Println("No billing books found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSERIES\tTYPE\tNUMBER")
	fmt.Fprintln(w, "--\t----\t------\t----\t------")
	for _, b := range books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", b.ID, b.Name, b.Series, b.InvoiceTypeCode, b.Number)
	}
	return w.Flush()
}
