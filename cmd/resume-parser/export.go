package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/common"
	"github.com/joseph-ayodele/resume-parser/internal/export"
	repo "github.com/joseph-ayodele/resume-parser/internal/repository"
	"github.com/joseph-ayodele/resume-parser/internal/server"
)

var (
	exportOut            string
	exportIncludeContact bool
	exportStatus         string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all candidates to an XLSX workbook",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		opts := export.Options{IncludeContact: exportIncludeContact}
		if exportStatus != "" {
			st, ok := constants.LookupParseStatus(exportStatus)
			if !ok {
				return fmt.Errorf("%w: unknown status %q", common.ErrInvalidInput, exportStatus)
			}
			opts.Status = st
		}

		ctx := cmd.Context()
		db, err := server.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer server.CloseDB(db, logger)

		svc := export.NewService(repo.NewCandidateRepository(db, logger), repo.NewExtractionRepository(db, logger), logger)
		data, err := svc.ExportCandidatesXLSX(ctx, opts)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		logger.Info("export written", "path", exportOut, "bytes", len(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "candidates.xlsx", "output file")
	exportCmd.Flags().BoolVar(&exportIncludeContact, "include-contact", false, "write unmasked email and phone")
	exportCmd.Flags().StringVar(&exportStatus, "status", "", "only candidates with this status")
}
