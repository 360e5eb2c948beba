package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/resume-parser/constants"
	"github.com/joseph-ayodele/resume-parser/internal/doctext"
	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/heuristics"
)

var parseAugment bool

type parseOutput struct {
	File       string              `json:"file"`
	Format     string              `json:"format"`
	Pages      int                 `json:"pages"`
	TextChars  int                 `json:"text_chars"`
	Warnings   []string            `json:"warnings,omitempty"`
	ModelName  string              `json:"model_name"`
	Fields     extract.Fields      `json:"fields"`
	Confidence extract.Confidences `json:"confidence"`
	AugmentErr string              `json:"augment_error,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract fields from a local résumé and print them as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := parseFile(cmd.Context(), args[0], parseAugment)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseAugment, "augment", false, "run the configured model pass and merge it over the heuristics")
}

func parseFile(ctx context.Context, path string, augment bool) (*parseOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	var dc doctext.Config
	if cfg != nil {
		dc.Pdftotext = cfg.Pipeline.Pdftotext
	}
	text, err := doctext.NewExtractor(dc, logger).Extract(ctx, extract.Document{
		Data:        data,
		Filename:    name,
		ContentType: constants.MimeForFormat(constants.DetectFormat(name, "")),
	})
	if err != nil {
		return nil, err
	}
	result, err := heuristics.NewExtractor().ExtractFields(ctx, text.Text)
	if err != nil {
		return nil, err
	}

	out := &parseOutput{
		File:      name,
		Format:    text.Format,
		Pages:     text.Pages,
		TextChars: len([]rune(text.Text)),
		Warnings:  text.Warnings,
	}
	if augment {
		aug, err := newAugmenter(ctx, cfg.LLM, logger)
		if err != nil {
			return nil, err
		}
		actx, cancel := context.WithTimeout(ctx, cfg.LLM.Timeout)
		extra, err := aug.Augment(actx, text.Text)
		cancel()
		if err != nil {
			logger.Warn("augmentation failed; keeping heuristics", "model", aug.Model(), "error", err)
			out.AugmentErr = err.Error()
		} else {
			result = extract.Merge(result, extra)
		}
	}
	out.ModelName = result.Model
	out.Fields = result.Fields
	out.Confidence = result.Confidence
	return out, nil
}
