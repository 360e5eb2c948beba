package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/migrate"
	repo "github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		ctx := cmd.Context()
		db, err := repo.Open(ctx, server.RepositoryConfig(cfg.Database), logger)
		if err != nil {
			return err
		}
		defer server.CloseDB(db, logger)
		return migrate.Run(ctx, db.SQL(), db.Dialect(), logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
