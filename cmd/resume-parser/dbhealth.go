package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	repo "github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/server"
)

var dbHealthTimeout time.Duration

var dbHealthCmd = &cobra.Command{
	Use:   "dbhealth",
	Short: "Check that the database is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		ctx := cmd.Context()
		db, err := repo.Open(ctx, server.RepositoryConfig(cfg.Database), logger)
		if err != nil {
			return fmt.Errorf("opening DB: %w", err)
		}
		defer server.CloseDB(db, logger)

		if err := server.PingDB(ctx, db, logger, dbHealthTimeout); err != nil {
			return fmt.Errorf("DB health: FAIL (%w)", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "DB health: OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbHealthCmd)
	dbHealthCmd.Flags().DurationVar(&dbHealthTimeout, "timeout", time.Second, "ping timeout")
}
