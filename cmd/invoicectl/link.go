package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/infrastructure/storage"
	"go.uber.org/zap"
)

type linkOptions struct {
	expires time.Duration
}

func newLinkCmd(root *rootOptions) *cobra.Command {
	opts := &linkOptions{}

	cmd := &cobra.Command{
		Use:   "link <archived-path>",
		Short: "Print a temporary download link for an archived invoice",
		Long: `Link presigns a download URL for a document stored in the S3 archive.
The path is the one printed by "render --archive" or "send".`,
		Example: `  invoicectl link 2026/10/PlanBeta_Invoice_INV-20261016-0930_Anna_Joseph.pdf
  invoicectl link 2026/10/PlanBeta_Invoice_INV-20261016-0930_Anna_Joseph.pdf --expires 24h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(root, false)
			if err != nil {
				return err
			}
			defer e.close()

			if e.cfg.Render.ArchiveS3.Bucket == "" {
				return errors.New("render.archive_s3.bucket is not set")
			}
			archive, err := storage.NewS3Storage(&e.cfg.Render.ArchiveS3, storage.WithLogger(e.log))
			if err != nil {
				return err
			}

			url, expiresAt, err := archive.DownloadURL(cmd.Context(), args[0], opts.expires)
			if err != nil {
				return err
			}
			e.log.Debug("download link created", zap.Time("expires_at", expiresAt))
			fmt.Fprintln(cmd.OutOrStdout(), url)
			fmt.Fprintf(cmd.ErrOrStderr(), "Expires: %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&opts.expires, "expires", 0, "Link lifetime (default render.archive_s3.presign_expiration)")
	return cmd
}
