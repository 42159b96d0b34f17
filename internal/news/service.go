package news

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"StockTracker/internal/model"
)

// Service runs a news query and optionally scores each item.
type Service struct {
	Provider Provider
	Scorer   Scorer // nil disables scoring
	Lookback time.Duration
	now      func() time.Time
}

// NewService creates a service. A nil provider, left by a keyed provider
// without credentials, makes every search report ErrMissingAPIKey.
func NewService(p Provider, s Scorer) *Service {
	if s == nil {
		s = LexiconScorer{}
	}
	return &Service{Provider: p, Scorer: s, Lookback: 7 * 24 * time.Hour, now: time.Now}
}

// Search fetches up to limit items for symbol, newest first.
func (s *Service) Search(ctx context.Context, symbol string, limit int, score bool) ([]model.NewsItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if s.Provider == nil {
		return nil, fmt.Errorf("news provider: %w", ErrMissingAPIKey)
	}
	if symbol == "" {
		return nil, nil
	}
	to := s.now()
	from := to.Add(-s.Lookback)
	items, err := s.Provider.Fetch(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Headline = StripHTML(items[i].Headline)
		items[i].Summary = StripHTML(items[i].Summary)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Time.After(items[j].Time) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	if score && s.Scorer != nil {
		for i := range items {
			text := items[i].Headline
			if items[i].Summary != "" {
				text += ". " + items[i].Summary
			}
			v, err := s.Scorer.Score(ctx, text)
			if err != nil {
				log.Printf("[WARN] %s sentiment failed: %v, using lexicon", s.Scorer.Name(), err)
				v = lexiconScore(text)
			}
			items[i].Sentiment = &v
			items[i].SentimentLabel = Label(v)
		}
	}
	return items, nil
}

// Average is the mean sentiment of scored items; ok is false when none were scored.
func Average(items []model.NewsItem) (float64, bool) {
	var sum float64
	var n int
	for _, it := range items {
		if it.Sentiment != nil {
			sum += *it.Sentiment
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
