// Package annotation looks up feature annotations from the annotation
// service. Lookups are asynchronous and fire-and-forget from the
// viewer's perspective: a newer selection supersedes any in-flight
// request, so a late response for a stale feature is dropped rather
// than painted over the panel.
package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Result is the outcome of one lookup, delivered to the callback.
type Result struct {
	FeatureID   string   `json:"feature"`
	Annotations []string `json:"annotations"`
	Permalink   string   `json:"permalink"`
	Err         error    `json:"-"`
}

// Client fetches annotations over HTTP and caches responses per
// feature id.
type Client struct {
	base  string
	http  *http.Client
	cache *lru.Cache[string, Result]
	gen   atomic.Uint64
}

// NewClient creates a client for the given base URL. cacheSize bounds
// the per-feature response cache.
func NewClient(base string, cacheSize int, timeout time.Duration) (*Client, error) {
	if cacheSize < 1 {
		cacheSize = 128
	}
	cache, err := lru.New[string, Result](cacheSize)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: timeout},
		cache: cache,
	}, nil
}

// Lookup requests annotations for a feature and delivers the result to
// fn from a background goroutine. A later Lookup supersedes this one:
// if another call starts before the response arrives, fn is never
// invoked. Cache hits are delivered synchronously.
func (c *Client) Lookup(ctx context.Context, featureID string, fn func(Result)) {
	gen := c.gen.Add(1)

	if res, ok := c.cache.Get(featureID); ok {
		fn(res)
		return
	}

	go func() {
		res := c.fetch(ctx, featureID)
		if res.Err == nil {
			c.cache.Add(featureID, res)
		}
		// Drop the response if a newer selection superseded us while
		// the request was in flight.
		if c.gen.Load() != gen {
			return
		}
		fn(res)
	}()
}

func (c *Client) fetch(ctx context.Context, featureID string) Result {
	u := fmt.Sprintf("%s/annotations?feature=%s", c.base, url.QueryEscape(featureID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{FeatureID: featureID, Err: err}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{FeatureID: featureID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{
			FeatureID: featureID,
			Err:       fmt.Errorf("annotation: %s returned %s", c.base, resp.Status),
		}
	}
	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{FeatureID: featureID, Err: fmt.Errorf("annotation: decode: %w", err)}
	}
	if res.FeatureID == "" {
		res.FeatureID = featureID
	}
	return res
}
