package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
)

type quoteOptions struct {
	asJSON bool
}

func newQuoteCmd(root *rootOptions) *cobra.Command {
	opts := &quoteOptions{}

	cmd := &cobra.Command{
		Use:   "quote <draft.json>",
		Short: "Show the totals of a draft and whether it can be generated",
		Example: `  invoicectl quote anna.json
  cat anna.json | invoicectl quote - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := loadEnv(root, false)
			if err != nil {
				return err
			}
			defer e.close()

			svc := invoice.NewInvoiceService(nil, nil,
				invoice.WithStrictAmounts(e.cfg.Render.StrictAmounts))
			q, err := svc.Quote(cmd.Context(), draft)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), q)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Invoice:     %s\n", q.Draft.InvoiceNumber)
			fmt.Fprintf(out, "Total:       %s\n", q.Totals.Total)
			fmt.Fprintf(out, "Payable now: %s\n", q.Totals.PayableNow)
			if q.Totals.ShowRemaining {
				fmt.Fprintf(out, "Remaining:   %s\n", q.Totals.RemainingAmount)
			}
			fmt.Fprintf(out, "Filename:    %s\n", q.Filename)
			fmt.Fprintf(out, "Submittable: %t\n", q.Submittable)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the recomputed draft and totals as JSON")
	return cmd
}
