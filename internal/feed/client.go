package feed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"

	"github.com/efreitasn/papertrade/internal/domain"
)

// klineFields is the number of columns in a provider kline row.
const klineFields = 12

// Client retrieves kline history from the market-data provider and
// caches parsed results on disk, one JSON file per (symbol, interval,
// limit) request. A cache hit never touches the network.
type Client struct {
	baseURL  string
	cacheDir string
	http     *fasthttp.Client
}

// NewClient creates a Client against the given provider base URL,
// caching under cacheDir.
func NewClient(baseURL, cacheDir string) *Client {
	return &Client{
		baseURL:  baseURL,
		cacheDir: cacheDir,
		http:     &fasthttp.Client{},
	}
}

// Klines returns up to limit candles for the symbol at the given
// interval, from cache when available, otherwise from the provider.
func (c *Client) Klines(symbol, interval string, limit int) ([]domain.Candle, error) {
	cachePath := filepath.Join(c.cacheDir, fmt.Sprintf("%s%s%d.json", symbol, interval, limit))

	if data, err := os.ReadFile(cachePath); err == nil {
		var candles []domain.Candle
		if err := json.Unmarshal(data, &candles); err != nil {
			return nil, fmt.Errorf("corrupt cache file %s: %w", cachePath, err)
		}
		return candles, nil
	}

	candles, err := c.fetch(symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	if err := c.save(cachePath, candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func (c *Client) fetch(symbol, interval string, limit int) ([]domain.Candle, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/api/v3/klines")
	req.Header.SetMethod(fasthttp.MethodGet)
	args := req.URI().QueryArgs()
	args.Set("symbol", symbol)
	args.Set("interval", interval)
	args.Set("limit", strconv.Itoa(limit))

	if err := c.http.Do(req, resp); err != nil {
		return nil, fmt.Errorf("fetching klines for %s: %w", symbol, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetching klines for %s: provider returned %d", symbol, resp.StatusCode())
	}

	body := gjson.ParseBytes(resp.Body())
	if !body.IsArray() {
		return nil, fmt.Errorf("fetching klines for %s: unexpected response shape", symbol)
	}

	rows := body.Array()
	candles := make([]domain.Candle, 0, len(rows))
	for _, v := range rows {
		row := v.Array()
		if len(row) < klineFields {
			return nil, fmt.Errorf("fetching klines for %s: short kline row (%d fields)", symbol, len(row))
		}
		candles = append(candles, domain.Candle{
			OpenTime:        row[0].Int(),
			Open:            row[1].String(),
			High:            row[2].String(),
			Low:             row[3].String(),
			Close:           row[4].String(),
			Volume:          row[5].String(),
			CloseTime:       row[6].Int(),
			QuoteVolume:     row[7].String(),
			Trades:          row[8].Int(),
			TakerBuyVolume:  row[9].String(),
			TakerSellVolume: row[10].String(),
			Ignore:          row[11].String(),
		})
	}
	return candles, nil
}

func (c *Client) save(path string, candles []domain.Candle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	data, err := json.Marshal(candles)
	if err != nil {
		return fmt.Errorf("encoding cache file %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cache file %s: %w", path, err)
	}
	return nil
}
