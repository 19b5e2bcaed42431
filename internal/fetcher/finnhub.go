package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"StockWatch/internal/model"
)

// FinnhubProvider is the first-priority provider: quotes, news, and
// daily candles.
type FinnhubProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFinnhubProvider creates a Finnhub client.
func NewFinnhubProvider(apiKey string) *FinnhubProvider {
	return &FinnhubProvider{
		BaseURL: "https://finnhub.io/api/v1",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *FinnhubProvider) Name() string { return "finnhub" }

func (p *FinnhubProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("token", p.APIKey)
	endpoint := fmt.Sprintf("%s%s?%s", p.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("finnhub request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub decode: %w", err)
	}
	return nil
}

// Quote hits the /quote endpoint: c=current, dp=percent change, h/l=day
// range, v=volume, t=unix seconds.
func (p *FinnhubProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	var body struct {
		Current       float64 `json:"c"`
		ChangePercent float64 `json:"dp"`
		High          float64 `json:"h"`
		Low           float64 `json:"l"`
		Volume        int64   `json:"v"`
		Timestamp     int64   `json:"t"`
	}
	params := url.Values{"symbol": {symbol}}
	if err := p.get(ctx, "/quote", params, &body); err != nil {
		return model.Quote{}, err
	}
	if body.Current == 0 && body.Timestamp == 0 {
		return model.Quote{}, fmt.Errorf("finnhub: no data for %s", symbol)
	}
	return model.Quote{
		Symbol:        symbol,
		Price:         body.Current,
		ChangePercent: body.ChangePercent,
		Volume:        body.Volume,
		DayHigh:       body.High,
		DayLow:        body.Low,
		Timestamp:     time.Unix(body.Timestamp, 0),
	}, nil
}

// DailyCloses hits the /stock/candle endpoint with daily resolution and
// returns the closing prices, which Finnhub already orders oldest first.
func (p *FinnhubProvider) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	to := time.Now().Unix()
	from := to - int64(days)*24*60*60

	var body struct {
		Status string    `json:"s"`
		Closes []float64 `json:"c"`
	}
	params := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {fmt.Sprintf("%d", from)},
		"to":         {fmt.Sprintf("%d", to)},
	}
	if err := p.get(ctx, "/stock/candle", params, &body); err != nil {
		return nil, err
	}
	if body.Status != "ok" {
		return nil, fmt.Errorf("finnhub candle: status %q", body.Status)
	}
	return body.Closes, nil
}

// CompanyNews returns today's headlines for a symbol, truncated to limit.
func (p *FinnhubProvider) CompanyNews(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	today := time.Now().Format("2006-01-02")

	var body []struct {
		Headline string `json:"headline"`
		Summary  string `json:"summary"`
		Source   string `json:"source"`
		URL      string `json:"url"`
		Datetime int64  `json:"datetime"`
	}
	params := url.Values{"symbol": {symbol}, "from": {today}, "to": {today}}
	if err := p.get(ctx, "/company-news", params, &body); err != nil {
		return nil, err
	}

	if limit > 0 && len(body) > limit {
		body = body[:limit]
	}
	items := make([]model.NewsItem, len(body))
	for i, n := range body {
		items[i] = model.NewsItem{
			Headline: n.Headline,
			Summary:  n.Summary,
			Source:   n.Source,
			URL:      n.URL,
			Time:     time.Unix(n.Datetime, 0),
		}
	}
	return items, nil
}
