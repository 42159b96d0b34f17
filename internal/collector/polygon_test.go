package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	polygonrest "github.com/polygon-io/client-go/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toServer sends every request to the test server whatever its host.
type toServer struct{ target *url.URL }

func (t toServer) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newPolygonServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/v2/aggs/ticker/"):
			start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
			var results []map[string]any
			for i := 0; i < 5; i++ {
				c := 100.0 + float64(i)
				results = append(results, map[string]any{
					"o": c - 0.5, "h": c + 1, "l": c - 1, "c": c, "v": 1000.0,
					"t": start.AddDate(0, 0, i).UnixMilli(),
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK", "resultsCount": len(results), "results": results,
			})
		case r.URL.Path == "/v3/reference/tickers/AAPL":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "OK",
				"results": map[string]any{
					"ticker": "AAPL", "name": "Apple Inc.", "currency_name": "usd", "market_cap": 2.9e12,
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":"NOT_FOUND","message":"Ticker not found."}`))
		}
	}))
}

func newTestPolygon(t *testing.T, srv *httptest.Server) *PolygonFetcher {
	t.Helper()
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return &PolygonFetcher{
		rest: polygonrest.NewWithClient("test-key", &http.Client{Transport: toServer{target}}),
		now:  func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) },
	}
}

func TestPolygonFetchQuote_TickerDetails(t *testing.T) {
	srv := newPolygonServer(t)
	defer srv.Close()
	f := newTestPolygon(t, srv)

	q, err := f.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 104.0, q.Price)
	assert.Equal(t, 103.0, q.PreviousClose)
	assert.Equal(t, "Apple Inc.", q.ShortName)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, 2.9e12, q.MarketCap)
}

func TestPolygonFetchQuote_DetailsMissing(t *testing.T) {
	srv := newPolygonServer(t)
	defer srv.Close()
	f := newTestPolygon(t, srv)

	q, err := f.FetchQuote(context.Background(), "ZZZ")
	require.NoError(t, err)
	assert.Equal(t, 104.0, q.Price)
	assert.Zero(t, q.MarketCap)
}

func TestMockFetchQuote_MarketCap(t *testing.T) {
	f := &MockFetcher{Now: testNow}
	q, err := f.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Greater(t, q.MarketCap, q.Price)

	again, err := f.FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, q.MarketCap, again.MarketCap)
}
