package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/application/invoice"
	"github.com/theplanbeta/invoice/internal/bootstrap"
	"github.com/theplanbeta/invoice/internal/infrastructure/config"
	"github.com/theplanbeta/invoice/internal/infrastructure/logger"
	infra "github.com/theplanbeta/invoice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

var version = "dev"

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "invoicectl",
		Short: "Render and send Plan Beta course fee invoices",
		Long: `invoicectl works on invoice drafts stored as JSON, the same shape the
invoice form posts to /api/v1/invoices/quote.

Configuration comes from config.toml, .env and INVOICE_* environment
variables, like the server. Only the send command needs a mailbox.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(
		newDraftCmd(),
		newQuoteCmd(opts),
		newEditCmd(opts),
		newRenderCmd(opts),
		newSendCmd(opts),
		newPruneCmd(opts),
		newLinkCmd(opts),
	)
	return cmd
}

// env is what a command needs to run: configuration and a logger that keeps
// stdout free for command output
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func (e *env) close() {
	_ = logger.Sync(e.log)
}

func loadEnv(opts *rootOptions, requireMailbox bool) (*env, error) {
	load := config.LoadOffline
	if requireMailbox {
		load = config.Load
	}
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

// readDraft decodes a draft from path, or from in when path is "-"
func readDraft(path string, in io.Reader) (invoice.DraftDTO, error) {
	var r io.Reader = in
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return invoice.DraftDTO{}, err
		}
		defer f.Close()
		r = f
	}

	var draft invoice.DraftDTO
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		return invoice.DraftDTO{}, fmt.Errorf("invalid draft %s: %w", path, err)
	}
	return draft, nil
}

// writeDocument saves a rendered document in dir and returns its path
func writeDocument(dir string, doc *invoice.GenerateResponse) (string, error) {
	if !infra.IsPlainFilename(doc.Filename) {
		return "", fmt.Errorf("refusing to write %q outside %s: the invoice number must not contain path separators", doc.Filename, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
