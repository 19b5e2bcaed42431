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

// PolygonProvider is the second-priority provider. Its quote is the
// previous-close aggregate, so intraday numbers are a day stale; that is
// accepted for a fallback source.
type PolygonProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPolygonProvider creates a Polygon client.
func NewPolygonProvider(apiKey string) *PolygonProvider {
	return &PolygonProvider{
		BaseURL: "https://api.polygon.io",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *PolygonProvider) Name() string { return "polygon" }

type polygonAggsResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Close     float64 `json:"c"`
		Open      float64 `json:"o"`
		High      float64 `json:"h"`
		Low       float64 `json:"l"`
		Volume    float64 `json:"v"`
		Timestamp int64   `json:"t"` // milliseconds
	} `json:"results"`
}

func (p *PolygonProvider) get(ctx context.Context, path string, out *polygonAggsResponse) error {
	endpoint := fmt.Sprintf("%s%s?apiKey=%s", p.BaseURL, path, url.QueryEscape(p.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("polygon request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("polygon: status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("polygon decode: %w", err)
	}
	if out.Status != "OK" {
		return fmt.Errorf("polygon: api status %q", out.Status)
	}
	return nil
}

// Quote fetches the previous-close aggregate and derives the percent
// change from open to close.
func (p *PolygonProvider) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	var body polygonAggsResponse
	path := fmt.Sprintf("/v2/aggs/ticker/%s/prev", url.PathEscape(symbol))
	if err := p.get(ctx, path, &body); err != nil {
		return model.Quote{}, err
	}
	if len(body.Results) == 0 {
		return model.Quote{}, fmt.Errorf("polygon: no results for %s", symbol)
	}

	r := body.Results[0]
	changePercent := 0.0
	if r.Open != 0 {
		changePercent = (r.Close - r.Open) / r.Open * 100
	}
	return model.Quote{
		Symbol:        symbol,
		Price:         r.Close,
		ChangePercent: changePercent,
		Volume:        int64(r.Volume),
		DayHigh:       r.High,
		DayLow:        r.Low,
		Timestamp:     time.UnixMilli(r.Timestamp),
	}, nil
}

// DailyCloses fetches the daily aggregate range and returns closing
// prices oldest first (Polygon orders range aggregates ascending).
func (p *PolygonProvider) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	var body polygonAggsResponse
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		url.PathEscape(symbol), start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err := p.get(ctx, path, &body); err != nil {
		return nil, err
	}

	closes := make([]float64, len(body.Results))
	for i, r := range body.Results {
		closes[i] = r.Close
	}
	return closes, nil
}
