package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// AlphaVantageProvider is the last-resort history provider. It only
// serves daily closes; the free tier has no usable quote endpoint.
type AlphaVantageProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageProvider creates an Alpha Vantage client.
func NewAlphaVantageProvider(apiKey string) *AlphaVantageProvider {
	return &AlphaVantageProvider{
		BaseURL: "https://www.alphavantage.co/query",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *AlphaVantageProvider) Name() string { return "alphavantage" }

// DailyCloses fetches the compact daily time series (last ~100 days) and
// returns the closes in chronological order. Alpha Vantage keys the
// series by date string, so ordering requires an explicit sort.
func (p *AlphaVantageProvider) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	params := url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"apikey":     {p.APIKey},
		"outputsize": {"compact"},
	}
	endpoint := fmt.Sprintf("%s?%s", p.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d", resp.StatusCode)
	}

	var body struct {
		TimeSeries map[string]struct {
			Close string `json:"4. close"`
		} `json:"Time Series (Daily)"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if len(body.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage: no time series for %s", symbol)
	}

	dates := make([]string, 0, len(body.TimeSeries))
	for date := range body.TimeSeries {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	closes := make([]float64, 0, len(dates))
	for _, date := range dates {
		c, err := strconv.ParseFloat(body.TimeSeries[date].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage parse close for %s: %w", date, err)
		}
		closes = append(closes, c)
	}
	if days > 0 && len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return closes, nil
}
