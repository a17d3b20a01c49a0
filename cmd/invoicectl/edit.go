package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
)

type editOptions struct {
	item  int
	write bool
}

func newEditCmd(root *rootOptions) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit <draft.json> <kind> [value]",
		Short: "Apply one form edit to a draft and print the recomputed draft",
		Long: `edit makes the same change the invoice form makes and recomputes the
totals. Currency and level edits reprice from the fee table, replacing
amounts typed by hand.

Kinds: ` + strings.Join(invoice.EditKinds(), ", ") + `

Item edits (level, description, month, batch, amount, remove_item) act on
the course chosen with --item, counted from 1.`,
		Example: `  invoicectl edit anna.json currency INR -w
  invoicectl edit anna.json level B1 --item 2 -w
  invoicectl edit anna.json add_item | invoicectl edit - payable_now 5000`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.item < 1 {
				return fmt.Errorf("--item counts from 1, got %d", opts.item)
			}
			if opts.write && args[0] == "-" {
				return errors.New("--write needs a draft file, not stdin")
			}
			draft, err := readDraft(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			var value string
			if len(args) == 3 {
				value = args[2]
			}
			e, err := loadEnv(root, false)
			if err != nil {
				return err
			}
			defer e.close()

			svc := invoice.NewInvoiceService(nil, nil,
				invoice.WithStrictAmounts(e.cfg.Render.StrictAmounts))
			q, err := svc.Edit(cmd.Context(), invoice.EditRequest{
				Draft: draft,
				Op:    invoice.EditOp{Kind: args[1], Index: opts.item - 1, Value: value},
			})
			if err != nil {
				return err
			}

			if !opts.write {
				return printJSON(cmd.OutOrStdout(), q.Draft)
			}
			var buf bytes.Buffer
			if err := printJSON(&buf, q.Draft); err != nil {
				return err
			}
			if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Updated:     %s\n", args[0])
			fmt.Fprintf(out, "Total:       %s\n", q.Totals.Total)
			if q.Totals.ShowRemaining {
				fmt.Fprintf(out, "Remaining:   %s\n", q.Totals.RemainingAmount)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.item, "item", 1, "Course the edit applies to, counted from 1")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Write the result back to the draft file and print the totals")
	return cmd
}
