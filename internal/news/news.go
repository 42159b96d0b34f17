// Package news fetches headlines for a ticker and scores their sentiment.
package news

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"StockTracker/internal/collector"
	"StockTracker/internal/model"
)

// ErrMissingAPIKey is the collector sentinel, shared so pages classify both alike.
var ErrMissingAPIKey = collector.ErrMissingAPIKey

// Provider fetches every news item it has for a symbol within [from, to].
// Ordering and truncation are left to Service.Search.
type Provider interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time) ([]model.NewsItem, error)
	Name() string
}

var (
	reTag   = regexp.MustCompile(`<[^>]*>`)
	reSpace = regexp.MustCompile(`\s+`)
)

// StripHTML removes tags and entities and collapses whitespace.
func StripHTML(s string) string {
	s = reTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(reSpace.ReplaceAllString(s, " "))
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: 15 * time.Second, Transport: transport}
}
