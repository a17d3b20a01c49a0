package main

import (
	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
)

func newDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "draft",
		Short:   "Print a new draft to start an invoice from",
		Example: `  invoicectl draft > anna.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := invoice.NewInvoiceService(nil, nil)
			return printJSON(cmd.OutOrStdout(), svc.NewDraft())
		},
	}
}
