package currency_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"zawamu/currency"
)

func TestClient_Fetch_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"base":  "USD",
				"rates": map[string]float64{"USD": 1, "KES": 129.25, "EUR": 0.92},
			})
		}
	}))
	defer ts.Close()

	cl := currency.NewClient(ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.Fetch(ctx)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Base != "USD" || got.Rates["KES"] != 129.25 || got.Fallback {
		t.Fatalf("unexpected table: %+v", got)
	}
	if atomic.LoadInt32(&hits) != 2 {
		t.Fatalf("expected 2 calls, got %d", hits)
	}
}

func TestClient_Fetch_NoRetryOn404(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer ts.Close()

	_, err := currency.NewClient(ts.URL, 100).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected a single call, got %d", hits)
	}
}

func TestClient_Fetch_EmptyRates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{}}`))
	}))
	defer ts.Close()

	if _, err := currency.NewClient(ts.URL, 100).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for empty rates")
	}
}
