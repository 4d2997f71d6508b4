// Package arbiter adapts the Anthropic Messages API to the committee's
// Arbiter interface. It is optional: the committee works without it and
// treats every failure here as a silent fallback to deterministic sizing.
package arbiter

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/scoutlab/scout/internal/contracts"
	"github.com/scoutlab/scout/pkg/config"
	"github.com/scoutlab/scout/pkg/logger"
)

const systemPrompt = `You are the arbiter of a position-sizing committee. Three risk postures have each proposed a share count and stop-loss for the same trade. Pick one concrete resolution. Reply with a short paragraph that states the chosen share count followed by the word "shares" and the stop-loss percentage followed by the word "stop". Example: "Take 750 shares with a 20% stop."`

// Client calls the Anthropic Messages API to resolve sizing debates.
type Client struct {
	client      anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	logger      *logger.Logger
}

// New creates an arbiter client. Returns an error when no API key is
// configured so callers can fall back to a nil arbiter.
func New(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if cfg.Anthropic.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key not configured")
	}

	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.Anthropic.APIKey)),
		model:       anthropic.Model(cfg.Anthropic.Model),
		maxTokens:   int64(cfg.Anthropic.MaxTokens),
		temperature: cfg.Anthropic.Temperature,
		logger:      log.WithField("module", "arbiter"),
	}, nil
}

// Resolve submits the proposals and recommendation context and returns the
// model's free-text reply. The caller owns timeout and parse handling.
func (c *Client) Resolve(ctx context.Context, rec contracts.Recommendation, proposals []contracts.Proposal) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(rec, proposals))),
		},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("arbiter request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	reply := sb.String()
	if reply == "" {
		return "", fmt.Errorf("arbiter returned no text content")
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":    rec.Ticker,
		"reply_len": len(reply),
	}).Debug("Arbiter replied")

	return reply, nil
}

// buildPrompt renders the debate context for the model.
func buildPrompt(rec contracts.Recommendation, proposals []contracts.Proposal) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Trade under debate: %s %s at a $%.2f target, consensus confidence %.2f.\n",
		rec.Action, rec.Ticker, rec.TargetPrice, rec.Confidence)
	if rec.Reasoning != "" {
		fmt.Fprintf(&sb, "Recommendation rationale: %s\n", rec.Reasoning)
	}

	sb.WriteString("\nProposals:\n")
	for _, p := range proposals {
		fmt.Fprintf(&sb, "- %s: %d shares (%.1f%% of portfolio), %.0f%% stop. %s\n",
			p.Posture, p.ProposedQty, p.PositionPct, p.StopLossPct, p.Rationale)
	}

	sb.WriteString("\nChoose the final share count and stop-loss percentage.")
	return sb.String()
}
