package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTracker/internal/collector"
	"StockTracker/internal/model"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item><title>Apple shares surge after record quarter - Reuters</title><link>https://example.com/a</link>
<pubDate>Mon, 10 Jun 2024 14:00:00 GMT</pubDate><description>&lt;a href="x"&gt;Apple&lt;/a&gt; beat estimates</description><source url="https://reuters.com">Reuters</source></item>
<item><title>Apple faces inquiry - Bloomberg</title><link>https://example.com/b</link>
<pubDate>Wed, 12 Jun 2024 09:30:00 GMT</pubDate><description>regulators</description></item>
<item><title>Old news - Somewhere</title><link>https://example.com/c</link>
<pubDate>Mon, 01 Jan 2024 09:30:00 GMT</pubDate><description>old</description></item>
</channel></rss>`

func newRSSServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL stock", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
}

func TestGoogleRSSProvider_Fetch(t *testing.T) {
	srv := newRSSServer(t)
	defer srv.Close()
	p := NewGoogleRSSProvider("")
	p.BaseURL = srv.URL

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	items, err := p.Fetch(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Apple shares surge after record quarter", items[0].Headline)
	assert.Equal(t, "Reuters", items[0].Source)
	assert.Equal(t, "Apple beat estimates", items[0].Summary)
	assert.Equal(t, "Bloomberg", items[1].Source)
	assert.Equal(t, "https://example.com/b", items[1].URL)
}

func TestServiceSearch_TruncatesAfterSorting(t *testing.T) {
	srv := newRSSServer(t)
	defer srv.Close()
	p := NewGoogleRSSProvider("")
	p.BaseURL = srv.URL

	// the feed lists by relevance, so the newest item is not first
	svc := NewService(p, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	items, err := svc.Search(context.Background(), "AAPL", 1, false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Apple faces inquiry", items[0].Headline)
}

func TestLexiconScorer_Sign(t *testing.T) {
	ctx := context.Background()
	var s LexiconScorer
	pos, _ := s.Score(ctx, "Shares surge as earnings beat and profit climbs to a record")
	neg, _ := s.Score(ctx, "Stock plunges after lawsuit and weak guidance, analysts downgrade")
	neutral, _ := s.Score(ctx, "Company schedules annual meeting")

	assert.Greater(t, pos, 0.0)
	assert.Less(t, neg, 0.0)
	assert.Equal(t, 0.0, neutral)
	assert.Equal(t, model.SentimentPositive, Label(pos))
	assert.Equal(t, model.SentimentNegative, Label(neg))
	assert.Equal(t, model.SentimentNeutral, Label(0.01))
}

func TestOpenAIScorer(t *testing.T) {
	var reply atomic.Value
	reply.Store("0.6")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
			`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"` + reply.Load().(string) + `"}}]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIScorer("", "", "", nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	s, err := NewOpenAIScorer("test-key", "", srv.URL+"/", srv.Client())
	require.NoError(t, err)
	v, err := s.Score(context.Background(), "Apple beats estimates")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, v, 1e-9)

	reply.Store("I think it is positive")
	v, err = s.Score(context.Background(), "profit surge")
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

type stubProvider struct {
	items []model.NewsItem
	err   error
}

func (s stubProvider) Name() string { return "stub" }
func (s stubProvider) Fetch(context.Context, string, time.Time, time.Time) ([]model.NewsItem, error) {
	out := make([]model.NewsItem, len(s.items))
	copy(out, s.items)
	return out, s.err
}

func TestServiceSearch(t *testing.T) {
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	svc := NewService(stubProvider{items: []model.NewsItem{
		{Headline: "<b>Old</b> loss", Time: base},
		{Headline: "New &amp; record gain", Time: base.Add(48 * time.Hour)},
		{Headline: "Middle", Time: base.Add(24 * time.Hour)},
	}}, nil)

	items, err := svc.Search(context.Background(), "aapl", 2, true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "New & record gain", items[0].Headline)
	assert.Equal(t, "Middle", items[1].Headline)
	require.NotNil(t, items[0].Sentiment)
	assert.Equal(t, model.SentimentPositive, items[0].SentimentLabel)
	assert.Equal(t, model.SentimentNeutral, items[1].SentimentLabel)

	avg, ok := Average(items)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, avg, 1e-9)

	svc.Scorer = nil
	items, err = svc.Search(context.Background(), "aapl", 2, true)
	require.NoError(t, err)
	assert.Nil(t, items[0].Sentiment)
	_, ok = Average(items)
	assert.False(t, ok)
}

func TestServiceSearch_Errors(t *testing.T) {
	_, err := NewService(nil, nil).Search(context.Background(), "AAPL", 5, false)
	assert.True(t, errors.Is(err, collector.ErrMissingAPIKey))

	boom := errors.New("upstream 500")
	_, err = NewService(stubProvider{err: boom}, nil).Search(context.Background(), "AAPL", 5, false)
	assert.ErrorIs(t, err, boom)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "a b & c", StripHTML("<p>a</p>\n <i>b</i> &amp; c"))
}
