package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theplanbeta/invoice/internal/bootstrap"
)

type pruneOptions struct {
	olderThan time.Duration
}

func newPruneCmd(root *rootOptions) *cobra.Command {
	opts := &pruneOptions{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete archived invoices past the retention period",
		Example: `  invoicectl prune
  invoicectl prune --older-than 2160h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(root, false)
			if err != nil {
				return err
			}
			defer e.close()

			storage, err := bootstrap.NewStorage(e.cfg.Render, e.log)
			if err != nil {
				return err
			}
			if storage == nil {
				return errors.New("render.archive_dir is not set")
			}

			age := opts.olderThan
			if age == 0 {
				age = bootstrap.RetentionAge(e.cfg.Render)
			}
			if age <= 0 {
				return errors.New("no retention configured: set render.retention_days or --older-than")
			}

			removed, err := storage.CleanupOlderThan(cmd.Context(), age)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d archived invoice(s)\n", removed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&opts.olderThan, "older-than", 0, "Override render.retention_days")
	return cmd
}
