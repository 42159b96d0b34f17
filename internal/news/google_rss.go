package news

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockTracker/internal/model"
)

const googleNewsURL = "https://news.google.com/rss/search"

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	PubDate string `xml:"pubDate"`
	Desc    string `xml:"description"`
	Source  string `xml:"source"`
}

// GoogleRSSProvider searches Google News RSS; it needs no key.
type GoogleRSSProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewGoogleRSSProvider creates a keyless provider.
func NewGoogleRSSProvider(proxyURL string) *GoogleRSSProvider {
	return &GoogleRSSProvider{BaseURL: googleNewsURL, Client: newHTTPClient(proxyURL)}
}

func (p *GoogleRSSProvider) Name() string { return "google" }

func (p *GoogleRSSProvider) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]model.NewsItem, error) {
	q := url.QueryEscape(symbol + " stock")
	u := p.BaseURL + "?q=" + q + "&hl=en-US&gl=US&ceid=US:en"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google news: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news: status %d", resp.StatusCode)
	}

	var rss rssResponse
	if err := xml.NewDecoder(resp.Body).Decode(&rss); err != nil {
		return nil, fmt.Errorf("google news decode: %w", err)
	}

	var items []model.NewsItem
	for _, it := range rss.Channel.Items {
		t, err := time.Parse(time.RFC1123Z, it.PubDate)
		if err != nil {
			t, err = time.Parse(time.RFC1123, it.PubDate)
			if err != nil {
				continue
			}
		}
		if t.Before(from) || t.After(to) {
			continue
		}
		headline := it.Title
		source := it.Source
		// titles carry the publisher as " - Source"
		if idx := strings.LastIndex(headline, " - "); idx > 0 {
			if source == "" {
				source = headline[idx+3:]
			}
			headline = headline[:idx]
		}
		items = append(items, model.NewsItem{
			Symbol:   symbol,
			Headline: headline,
			Source:   source,
			URL:      it.Link,
			Summary:  StripHTML(it.Desc),
			Time:     t.UTC(),
		})
	}
	return items, nil
}
