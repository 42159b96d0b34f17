package collector

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zeromicro/go-zero/core/collection"

	"StockTracker/internal/model"
)

// sharedFetchTimeout bounds one upstream call made on behalf of every
// concurrent caller of the same key.
const sharedFetchTimeout = 30 * time.Second

// CachedFetcher wraps a Fetcher with a TTL cache. Failed fetches are not cached.
// Concurrent callers of one key share a single upstream call, which runs on
// a context detached from whichever caller started it.
type CachedFetcher struct {
	inner Fetcher
	cache *collection.Cache
}

// NewCachedFetcher caches inner's results for ttl.
func NewCachedFetcher(inner Fetcher, ttl time.Duration) (*CachedFetcher, error) {
	c, err := collection.NewCache(ttl, collection.WithName("fetch-"+inner.Name()))
	if err != nil {
		return nil, fmt.Errorf("create fetch cache: %w", err)
	}
	return &CachedFetcher{inner: inner, cache: c}, nil
}

func (f *CachedFetcher) Name() string { return f.inner.Name() }

func (f *CachedFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, error) {
	key := f.key("bars", symbol, string(period), string(interval))
	v, err := f.cache.Take(key, func() (any, error) {
		fctx, cancel := shared(ctx)
		defer cancel()
		return f.inner.FetchBars(fctx, symbol, period, interval)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.OHLCV), nil
}

func (f *CachedFetcher) FetchRange(ctx context.Context, symbol string, from, to time.Time, interval model.Interval) ([]model.OHLCV, error) {
	key := f.key("range", symbol, strconv.FormatInt(from.Unix(), 10), strconv.FormatInt(to.Unix(), 10), string(interval))
	v, err := f.cache.Take(key, func() (any, error) {
		fctx, cancel := shared(ctx)
		defer cancel()
		return f.inner.FetchRange(fctx, symbol, from, to, interval)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.OHLCV), nil
}

func (f *CachedFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	v, err := f.cache.Take(f.key("quote", symbol), func() (any, error) {
		fctx, cancel := shared(ctx)
		defer cancel()
		return f.inner.FetchQuote(fctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Quote), nil
}

// shared keeps ctx values but not its cancellation, so one caller giving up
// does not fail the others waiting on the same key.
func shared(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
}

func (f *CachedFetcher) key(parts ...string) string {
	k := f.inner.Name()
	for _, p := range parts {
		k += "|" + p
	}
	return k
}
