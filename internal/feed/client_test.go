package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/efreitasn/papertrade/internal/domain"
)

// klineBody is a provider response with two kline rows in the
// 12-column array-of-arrays format.
const klineBody = `[
  [1626578400000,"1.0000000","2.0000000","0.08000000","0.15000000","5000.00000000",1626578500000,"750.00000000",10,"2500.00000000","2500.00000000","0.0"],
  [1626578500000,"0.1500000","0.2000000","0.04000000","0.3000000","5000.00000000",1626578600000,"750.00000000",10,"2500.00000000","2500.00000000","0.0"]
]`

func TestClient_KlinesFetchesAndCaches(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("path = %q, want /api/v3/klines", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1h" || q.Get("limit") != "2" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Write([]byte(klineBody))
	}))
	defer srv.Close()

	dir := t.TempDir()
	c := NewClient(srv.URL, dir)

	candles, err := c.Klines("BTCUSDT", "1h", 2)
	if err != nil {
		t.Fatalf("Klines: unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("len(candles) = %d, want 2", len(candles))
	}
	if candles[0].Low != "0.08000000" || candles[0].CloseTime != 1626578500000 {
		t.Errorf("unexpected first candle: %+v", candles[0])
	}
	if candles[1].High != "0.2000000" || candles[1].Trades != 10 {
		t.Errorf("unexpected second candle: %+v", candles[1])
	}

	// The parsed result must be cached on disk.
	cachePath := filepath.Join(dir, "BTCUSDT1h2.json")
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("expected cache file at %s: %v", cachePath, err)
	}

	// A second call is served from cache without touching the network.
	again, err := c.Klines("BTCUSDT", "1h", 2)
	if err != nil {
		t.Fatalf("cached Klines: unexpected error: %v", err)
	}
	if len(again) != 2 || again[0].Low != candles[0].Low {
		t.Errorf("cached candles differ from fetched: %+v", again)
	}
	if requests != 1 {
		t.Errorf("provider hit %d times, want 1", requests)
	}
}

func TestClient_KlinesCacheHitNeedsNoServer(t *testing.T) {
	dir := t.TempDir()
	cached := []domain.Candle{{OpenTime: 1, Low: "0.5", High: "1.5", CloseTime: 2}}
	data, _ := json.Marshal(cached)
	if err := os.WriteFile(filepath.Join(dir, "ETHBTC1m1.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewClient("http://127.0.0.1:1", dir) // nothing listens here
	candles, err := c.Klines("ETHBTC", "1m", 1)
	if err != nil {
		t.Fatalf("Klines: unexpected error: %v", err)
	}
	if len(candles) != 1 || candles[0].Low != "0.5" {
		t.Errorf("unexpected candles: %+v", candles)
	}
}

func TestClient_KlinesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, t.TempDir())
	if _, err := c.Klines("BTCUSDT", "1h", 2); err == nil {
		t.Fatal("expected error on non-200 provider response")
	}
}
