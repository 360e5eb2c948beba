package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/internal/common"
)

const app = "resume-parser"

var (
	// Used for flags.
	logLevel  string
	logFormat string

	cfg    *common.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "resume-parser extracts candidate fields from PDF and DOCX résumés",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd)
		},
	}
)

// Execute executes the root command.
func Execute() error {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Println("error:", err)
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides LOG_FORMAT)")
}

func initConfig(cmd *cobra.Command) error {
	c, err := common.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		c.Log.Format = logFormat
	}
	cfg = c
	logger = common.NewLogger(cfg.Log.Format, cfg.Log.Level).With("app", app)
	slog.SetDefault(logger)
	return nil
}

// validConfig is for commands that need the full stack; parse runs without a database.
func validConfig() error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
