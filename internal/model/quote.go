package model

import "time"

// Quote is a normalized real-time snapshot for a single symbol,
// regardless of which provider produced it.
type Quote struct {
	Symbol        string
	Price         float64
	ChangePercent float64
	Volume        int64
	DayHigh       float64
	DayLow        float64
	Timestamp     time.Time
}

// NewsItem is a single headline returned by the news provider.
type NewsItem struct {
	Headline string
	Summary  string
	Source   string
	URL      string
	Time     time.Time
}
