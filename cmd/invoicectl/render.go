package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/bootstrap"
	"github.com/theplanbeta/invoice/internal/infrastructure/mail"
	"go.uber.org/zap"
)

type renderOptions struct {
	format  string
	output  string
	archive bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <draft.json>",
		Short: "Render a draft to a PDF or image file",
		Long: `Render writes the document to the output directory under the name
PlanBeta_Invoice_<number>_<student>.<ext>. The pdf format is drawn
directly; html-pdf, png, jpeg and webp need render.chrome.enabled.`,
		Example: `  invoicectl render anna.json
  invoicectl render anna.json -f png -o out/
  invoicectl render anna.json --archive`,
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

			svc, cleanup, err := newService(e, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			doc, err := svc.Generate(cmd.Context(), invoice.GenerateRequest{
				Draft:   draft,
				Format:  opts.format,
				Archive: opts.archive,
			})
			if err != nil {
				return err
			}
			if opts.archive && doc.StoredPath == "" {
				e.log.Warn("archive requested but render.archive_dir is not set")
			}

			path, err := writeDocument(opts.output, doc)
			if err != nil {
				return err
			}
			e.log.Debug("document written", zap.String("path", path), zap.Int("bytes", len(doc.Data)))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: pdf, html-pdf, png, jpeg or webp (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "Directory to write the document to")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "Also store a copy under render.archive_dir")
	return cmd
}

// newService builds the invoice service with the configured renderers and
// archive. sender may be nil for commands that never send mail.
func newService(e *env, sender mail.Sender) (*invoice.InvoiceService, func(), error) {
	renderers, err := bootstrap.NewRenderers(e.cfg.Render, e.log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := renderers.Close(); err != nil {
			e.log.Warn("failed to close renderer", zap.Error(err))
		}
	}

	opts := bootstrap.ServiceOptions(e.cfg, e.log)
	storage, err := bootstrap.NewStorage(e.cfg.Render, e.log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if storage != nil {
		opts = append(opts, invoice.WithStorage(storage))
	}

	return invoice.NewInvoiceService(renderers, sender, opts...), cleanup, nil
}
