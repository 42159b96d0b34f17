package model

import "time"

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// NewsItem is a single headline from a news provider.
type NewsItem struct {
	Symbol         string    `json:"symbol,omitempty"`
	Headline       string    `json:"headline"`
	Source         string    `json:"source"`
	URL            string    `json:"url,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Time           time.Time `json:"time"`
	Sentiment      *float64  `json:"sentiment,omitempty"` // -1.0 ~ 1.0
	SentimentLabel string    `json:"sentiment_label,omitempty"`
}
