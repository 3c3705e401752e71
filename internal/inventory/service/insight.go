package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/i18n"
	"github.com/go-resty/resty/v2"
)

const (
	insightSampleItems        = 15
	insightRecentTransactions = 10
)

// TextGenerator produces a short free-text comment for a prompt
type TextGenerator interface {
	Configured() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsightSummary is the data the comment is generated from
type InsightSummary struct {
	TotalItems         int    `json:"total_items"`
	StockSummary       string `json:"stock_summary"`
	RecentTransactions string `json:"recent_transactions"`
}

// Insight is the generated comment
type Insight struct {
	Text      string         `json:"text"`
	Generated bool           `json:"generated"`
	Summary   InsightSummary `json:"summary"`
}

// Summarize samples the catalog and the tail of the ledger
func Summarize(items []domain.InventoryItem, txs []domain.Transaction) InsightSummary {
	sample := items
	if len(sample) > insightSampleItems {
		sample = sample[:insightSampleItems]
	}
	stock := make([]string, 0, len(sample))
	for _, it := range sample {
		stock = append(stock, fmt.Sprintf("%s-%s: %s %s", it.ItemCode, it.MaterialName, formatQty(it.StockIn), it.Unit))
	}

	recent := txs
	if len(recent) > insightRecentTransactions {
		recent = recent[len(recent)-insightRecentTransactions:]
	}
	moves := make([]string, 0, len(recent))
	for _, tx := range recent {
		moves = append(moves, fmt.Sprintf("%s: %s %s %s", tx.Date.UTC().Format("2006-01-02"), tx.Type, formatQty(tx.Quantity), tx.ItemName))
	}

	return InsightSummary{
		TotalItems:         len(items),
		StockSummary:       strings.Join(stock, ", "),
		RecentTransactions: strings.Join(moves, "; "),
	}
}

func insightPrompt(sum InsightSummary, locale string) string {
	language := "English"
	if locale == i18n.LocaleVietnamese {
		language = "Vietnamese"
	}
	return fmt.Sprintf(`You are a warehouse management assistant. Based on the following data:
- Number of item records: %d
- Stock of some items (sample): %s
- 10 most recent transactions: %s

Give a short comment (under 100 words) on the current state of the warehouse and the in/out trend. Give advice if any item is unusually low or has no transactions.
Answer in %s.`, sum.TotalItems, sum.StockSummary, sum.RecentTransactions, language)
}

// Insight asks the text generator for a comment on the current stock. It
// never fails because of the generator; a fixed message is returned instead.
func (s *InventoryService) Insight(ctx context.Context) (*Insight, error) {
	items, txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sum := Summarize(items, txs)
	result := &Insight{Summary: sum}

	if s.insight == nil || !s.insight.Configured() {
		result.Text = i18n.TFromContext(ctx, "insight.not_configured")
		return result, nil
	}

	text, err := s.insight.Generate(ctx, insightPrompt(sum, i18n.GetLocaleFromContext(ctx)))
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("insight generation failed")
		result.Text = i18n.TFromContext(ctx, "insight.failed")
	case strings.TrimSpace(text) == "":
		result.Text = i18n.TFromContext(ctx, "insight.unavailable")
	default:
		result.Text = strings.TrimSpace(text)
		result.Generated = true
	}
	return result, nil
}

// HTTPGenerator calls a text generation endpoint that accepts
// {"model","prompt"} and answers {"text"}
type HTTPGenerator struct {
	client   *resty.Client
	endpoint string
	apiKey   string
	model    string
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// NewHTTPGenerator creates a generator from configuration
func NewHTTPGenerator(cfg config.InsightConfig) *HTTPGenerator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPGenerator{
		client:   resty.New().SetTimeout(timeout),
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
	}
}

// Configured reports whether an endpoint and key are set
func (g *HTTPGenerator) Configured() bool {
	return g.endpoint != "" && g.apiKey != ""
}

// Generate posts prompt and returns the generated text
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("X-API-Key", g.apiKey).
		SetBody(generateRequest{Model: g.model, Prompt: prompt}).
		SetResult(&out).
		Post(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("insight request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("insight request: status %d", resp.StatusCode())
	}
	return out.Text, nil
}
