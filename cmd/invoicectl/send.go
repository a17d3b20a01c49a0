package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/bootstrap"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	"go.uber.org/zap"
)

type sendOptions struct {
	to     string
	dryRun bool
	output string
}

func newSendCmd(root *rootOptions) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send <draft.json>",
		Short: "Render a draft as PDF and email it to the student",
		Long: `Send renders the vector PDF, archives it when an archive is configured,
writes it to the output directory and only then emails it to the student
with the issuer in Bcc.

If the email cannot be sent the failure is reported as a warning; the
saved PDF can be forwarded by hand.`,
		Example: `  invoicectl send anna.json
  invoicectl send anna.json --to anna@example.com
  invoicectl send anna.json --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := readDraft(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := loadEnv(root, !opts.dryRun)
			if err != nil {
				return err
			}
			defer e.close()

			var sender mail.Sender
			if opts.dryRun {
				sender = mail.NewLogSender(e.log)
			} else {
				smtp, err := bootstrap.NewSender(e.cfg.Mail, e.log)
				if err != nil {
					return err
				}
				sender = smtp
			}

			svc, cleanup, err := newService(e, sender)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.Deliver(cmd.Context(), invoice.DeliverRequest{
				Draft: draft,
				To:    opts.to,
				Save: func(doc *invoice.GenerateResponse) (string, error) {
					return writeDocument(opts.output, doc)
				},
			})
			if resp == nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Document.StoredPath != "" {
				fmt.Fprintf(out, "Archived: %s\n", resp.Document.StoredPath)
			}
			if resp.SavedPath != "" {
				fmt.Fprintf(out, "Saved:    %s\n", resp.SavedPath)
			}
			if err == nil {
				fmt.Fprintf(out, "Sent:     %s\n", resp.Document.Filename)
				return nil
			}

			var deliveryErr *mail.DeliveryError
			if !errors.As(err, &deliveryErr) {
				return err
			}
			e.log.Warn("invoice email failed, document kept locally",
				zap.String("path", resp.SavedPath), zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: email not sent (%v)\n", err)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.to, "to", "", "Recipient address (default: the student email on the draft)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log the email instead of sending it")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "Directory the PDF is written to before sending")
	return cmd
}
