package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/ingest"
)

var ingestIncludeHidden bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Upload every PDF and DOCX under a directory and wait for parsing to finish",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validConfig(); err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApplication(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		ing := ingest.NewFSIngestor(a.candidates, cfg.MaxUploadBytes(), logger)
		results, stats, walkErr := ing.IngestDirectory(ctx, args[0], !ingestIncludeHidden)

		// drains queued jobs before the database closes
		if err := a.queue.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("queue shutdown", "error", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"stats": stats, "results": results}); err != nil {
			return err
		}
		return walkErr
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().BoolVar(&ingestIncludeHidden, "include-hidden", false, "descend into hidden files and directories")
}
