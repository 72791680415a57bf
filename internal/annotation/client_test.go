package annotation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testServer(t *testing.T, delay time.Duration) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(delay)
		feature := r.URL.Query().Get("feature")
		if feature == "missing" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(Result{
			FeatureID:   feature,
			Annotations: []string{"found in feces", "higher in controls"},
			Permalink:   "https://example.org/f/" + feature,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func waitFor(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestLookup(t *testing.T) {
	srv, _ := testServer(t, 0)
	c, err := NewClient(srv.URL, 8, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ch := make(chan Result, 1)
	c.Lookup(context.Background(), "seqA", func(r Result) { ch <- r })

	res := waitFor(t, ch)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.FeatureID != "seqA" || len(res.Annotations) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Permalink != "https://example.org/f/seqA" {
		t.Fatalf("permalink %q", res.Permalink)
	}
}

func TestLookupCaches(t *testing.T) {
	srv, hits := testServer(t, 0)
	c, err := NewClient(srv.URL, 8, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ch := make(chan Result, 1)
	c.Lookup(context.Background(), "seqA", func(r Result) { ch <- r })
	waitFor(t, ch)

	// second lookup must come from cache, synchronously
	delivered := false
	c.Lookup(context.Background(), "seqA", func(r Result) { delivered = true })
	if !delivered {
		t.Fatal("cache hit not delivered synchronously")
	}
	if hits.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", hits.Load())
	}
}

func TestLookupError(t *testing.T) {
	srv, _ := testServer(t, 0)
	c, err := NewClient(srv.URL, 8, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	ch := make(chan Result, 1)
	c.Lookup(context.Background(), "missing", func(r Result) { ch <- r })
	res := waitFor(t, ch)
	if res.Err == nil {
		t.Fatal("expected error for 404")
	}
	if res.FeatureID != "missing" {
		t.Fatalf("error result lost feature id: %+v", res)
	}

	// errors are not cached; a retry hits the server again
	ch2 := make(chan Result, 1)
	c.Lookup(context.Background(), "missing", func(r Result) { ch2 <- r })
	if res := waitFor(t, ch2); res.Err == nil {
		t.Fatal("expected error on retry")
	}
}

func TestLookupSuperseded(t *testing.T) {
	srv, _ := testServer(t, 150*time.Millisecond)
	c, err := NewClient(srv.URL, 8, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	var staleDelivered atomic.Bool
	ch := make(chan Result, 1)

	c.Lookup(context.Background(), "stale", func(r Result) { staleDelivered.Store(true) })
	c.Lookup(context.Background(), "fresh", func(r Result) { ch <- r })

	res := waitFor(t, ch)
	if res.FeatureID != "fresh" {
		t.Fatalf("delivered %q, want fresh", res.FeatureID)
	}
	// give the stale response time to arrive (and be dropped)
	time.Sleep(300 * time.Millisecond)
	if staleDelivered.Load() {
		t.Fatal("stale response delivered after being superseded")
	}
}
