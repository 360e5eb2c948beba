// Package gemini implements llm.Augmenter on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/resume-parser/internal/extract"
	"github.com/joseph-ayodele/resume-parser/internal/llm"
)

type Config struct {
	APIKey      string
	Model       string // default gemini-2.0-flash
	Temperature float32
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	cfg    Config
	models contentGenerator
	log    *slog.Logger
}

var _ llm.Augmenter = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newClient(cfg, gc.Models, logger), nil
}

func newClient(cfg Config, models contentGenerator, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = llm.DefaultTemperature
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, models: models, log: logger}
}

func (c *Client) Model() string { return c.cfg.Model }

func (c *Client) Augment(ctx context.Context, text string) (*extract.Result, error) {
	start := time.Now()
	user := llm.BuildUserPrompt(text)
	c.log.Info("llm.augment.start", "provider", "gemini", "model", c.cfg.Model, "prompt_len", len(user))

	resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: llm.SystemPrompt}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(c.cfg.Temperature),
	})
	if err != nil {
		c.log.Error("llm.augment.http_error", "provider", "gemini", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("generate content: %w", err)
	}

	content := firstCandidateText(resp)
	if content == "" {
		return nil, errors.New("gemini api returned empty response")
	}
	res, err := llm.ParseAugmentation([]byte(content), c.cfg.Model, c.log)
	if err != nil {
		c.log.Error("llm.augment.contract_error", "provider", "gemini", "error", err)
		return nil, err
	}
	c.log.Info("llm.augment.ok", "provider", "gemini", "model", c.cfg.Model,
		"skills", len(res.Fields.Skills), "elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}

// firstCandidateText joins the text parts of the first usable candidate.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			b.WriteString(part.Text)
		}
		if out := strings.TrimSpace(b.String()); out != "" {
			return out
		}
	}
	return ""
}
