package predictor

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"StockWatch/internal/model"
)

const (
	llmTemperature     = 0.3
	llmMaxOutputTokens = 150
	llmConfidence      = 0.7
	maxReasonLen       = 80
)

// LLMPredictor asks a text-generation API for an opinion. Every failure
// path (missing client, request error, empty reply) degrades to the
// rule-based strategy without surfacing the failure to the caller.
type LLMPredictor struct {
	client   *genai.Client
	model    string
	search   *SearchClient
	fallback Predictor
	log      zerolog.Logger
}

// NewLLMPredictor creates the LLM strategy. search may be nil.
func NewLLMPredictor(ctx context.Context, apiKey, modelName string, search *SearchClient, log zerolog.Logger) (*LLMPredictor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &LLMPredictor{
		client:   client,
		model:    modelName,
		search:   search,
		fallback: NewRulePredictor(),
		log:      log.With().Str("component", "llm-predictor").Logger(),
	}, nil
}

// Predict builds a bounded textual summary of the request, sends it with
// low temperature and a short response budget, and classifies the reply
// by its first BUY/SELL keyword.
func (p *LLMPredictor) Predict(ctx context.Context, req Request) model.Prediction {
	if p.client == nil {
		return p.fallback.Predict(ctx, req)
	}

	prompt := p.buildPrompt(ctx, req)
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](llmTemperature),
		MaxOutputTokens: llmMaxOutputTokens,
	})
	if err != nil {
		p.log.Debug().Err(err).Str("symbol", req.Symbol).Msg("generation failed, using rule fallback")
		return p.fallback.Predict(ctx, req)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return p.fallback.Predict(ctx, req)
	}

	return model.Prediction{
		Signal:     parseSignal(text),
		Confidence: llmConfidence,
		Reason:     truncateReason(text),
		Source:     "ai",
	}
}

// buildPrompt assembles the bounded context block. The web-search
// snippet is optional and skipped on any search failure.
func (p *LLMPredictor) buildPrompt(ctx context.Context, req Request) string {
	var b strings.Builder
	b.WriteString("Quick stock analysis. Be extremely concise.\n")
	fmt.Fprintf(&b, "SYMBOL: %s\n", req.Symbol)
	fmt.Fprintf(&b, "PRICE: $%.2f\n", req.Quote.Price)
	fmt.Fprintf(&b, "CHANGE: %.2f%%\n", req.Quote.ChangePercent)
	fmt.Fprintf(&b, "RSI: %.1f\n", req.Indicators.RSI)
	fmt.Fprintf(&b, "TREND: %s\n", req.Indicators.Trend)
	fmt.Fprintf(&b, "NEWS: %d articles today\n", len(req.News))

	if req.Portfolio != nil {
		fmt.Fprintf(&b, "PORTFOLIO: $%.0f total", req.Portfolio.TotalValue)
		if pos, ok := req.Portfolio.Positions[req.Symbol]; ok {
			fmt.Fprintf(&b, ", owns %d shares @ $%.2f", pos.Shares, pos.AverageCost)
		}
		fmt.Fprintf(&b, ", %d positions\n", len(req.Portfolio.Positions))
		b.WriteString("Consider portfolio diversification.\n")
	}

	if p.search != nil {
		query := fmt.Sprintf("%s stock outlook today", req.Symbol)
		if snippet, err := p.search.Search(ctx, query); err == nil {
			fmt.Fprintf(&b, "WEB: %s\n", snippet)
		}
	}

	b.WriteString("Prediction (BUY/HOLD/SELL) with 1-line reason:")
	return b.String()
}

// parseSignal classifies a reply by the earliest case-insensitive
// occurrence of BUY or SELL, defaulting to HOLD.
func parseSignal(text string) model.Signal {
	upper := strings.ToUpper(text)
	buyIdx := strings.Index(upper, "BUY")
	sellIdx := strings.Index(upper, "SELL")
	switch {
	case buyIdx >= 0 && (sellIdx < 0 || buyIdx < sellIdx):
		return model.SignalBuy
	case sellIdx >= 0:
		return model.SignalSell
	default:
		return model.SignalHold
	}
}

// truncateReason keeps the first line of the reply, capped to a short
// display width.
func truncateReason(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if len(text) > maxReasonLen {
		text = text[:maxReasonLen]
	}
	return text
}
