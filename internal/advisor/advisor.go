// Package advisor answers free-form financial questions with an LLM,
// grounding every prompt in the month's derived dashboard so the model
// never sees raw transaction rows.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"finsight/internal/insights"
)

// ErrUnavailable means no API key is configured or the upstream
// rejected the request.
var ErrUnavailable = errors.New("advisor unavailable")

type Client struct {
	client openai.Client
	model  string
}

// New returns ErrUnavailable when no API key is configured so callers
// can run without the chat feature.
func New(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrUnavailable
	}
	return &Client{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (c *Client) Chat(ctx context.Context, question string, dash insights.Dashboard) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildSystemPrompt(dash)),
			openai.UserMessage(question),
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "Advisor completion failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// buildSystemPrompt summarizes the dashboard as plain text context.
func buildSystemPrompt(dash insights.Dashboard) string {
	var b strings.Builder
	m := dash.Metrics

	b.WriteString("You are a personal finance advisor. Answer briefly and concretely, ")
	b.WriteString("using only the figures below. Amounts are in the user's currency.\n\n")
	fmt.Fprintf(&b, "Month: %s\n", m.Month)
	fmt.Fprintf(&b, "Income: %.2f\n", centsToUnits(m.IncomeCents))
	fmt.Fprintf(&b, "Expenses: %.2f\n", centsToUnits(m.ExpenseCents))
	fmt.Fprintf(&b, "Monthly budget: %.2f (%.1f%% used, %.2f remaining)\n",
		centsToUnits(m.BudgetCents), m.UsedPercent, centsToUnits(m.RemainingCents))
	fmt.Fprintf(&b, "Savings rate: %.1f%%\n", m.SavingsRate)

	if len(dash.Categories) > 0 {
		b.WriteString("Spending by category:\n")
		for _, c := range dash.Categories {
			fmt.Fprintf(&b, "  - %s: %.2f\n", c.Name, centsToUnits(c.Cents))
		}
	}

	return b.String()
}

func centsToUnits(cents int64) float64 {
	return float64(cents) / 100
}
