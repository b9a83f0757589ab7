package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"

	"StockBoard/internal/model"
)

// Yahoo implements Provider using the Yahoo Finance public API.
type Yahoo struct {
	Client  *http.Client
	Display *time.Location
	retries uint64
}

// NewYahoo creates a new Yahoo Finance provider. Fetched timestamps are
// converted to the display location for consistent chart rendering.
func NewYahoo(proxyURL string, timeout time.Duration, display *time.Location) *Yahoo {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if display == nil {
		display = time.UTC
	}
	return &Yahoo{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Display: display,
		retries: 3,
	}
}

func (y *Yahoo) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSummary is the response structure from the quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
			QuoteType struct {
				Symbol    string `json:"symbol"`
				LongName  string `json:"longName"`
				ShortName string `json:"shortName"`
			} `json:"quoteType"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (y *Yahoo) getJSON(ctx context.Context, u string, out interface{}) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := y.Client.Do(req)
		if err != nil {
			return fmt.Errorf("yahoo fetch: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("yahoo read body: %w", err)
		}
		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrSymbolNotFound)
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("yahoo: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body)))
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("yahoo decode: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), y.retries), ctx)
	return backoff.Retry(op, policy)
}

// FetchBars fetches the OHLCV series for a symbol. The window end is now and
// the start is derived from the period tag. Naive provider timestamps are
// treated as UTC and converted to the display location.
func (y *Yahoo) FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error) {
	end := time.Now()
	start := StartForPeriod(period, end)

	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?period1=%d&period2=%d&interval=%s",
		url.PathEscape(symbol), start.Unix(), end.Unix(), url.QueryEscape(interval))

	var chart yahooChart
	if err := y.getJSON(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, ErrSymbolNotFound
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, ErrNoData
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) ||
			i >= len(quote.Low) || i >= len(quote.Close) || i >= len(quote.Volume) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Ticker:   symbol,
			Time:     time.Unix(ts, 0).UTC().In(y.Display),
			Open:     o,
			High:     h,
			Low:      l,
			Close:    c,
			Volume:   int64(toFloat(quote.Volume[i])),
			Period:   period,
			Interval: interval,
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// Lookup fetches company name and sector for a symbol.
func (y *Yahoo) Lookup(ctx context.Context, symbol string) (*model.SymbolInfo, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=assetProfile%%2CquoteType",
		url.PathEscape(symbol))

	var summary yahooSummary
	if err := y.getJSON(ctx, u, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil || len(summary.QuoteSummary.Result) == 0 {
		return nil, ErrSymbolNotFound
	}

	r := summary.QuoteSummary.Result[0]
	if r.QuoteType.Symbol == "" {
		return nil, ErrSymbolNotFound
	}
	name := r.QuoteType.LongName
	if name == "" {
		name = r.QuoteType.ShortName
	}
	if name == "" {
		name = symbol
	}
	sector := r.AssetProfile.Sector
	if sector == "" {
		sector = "Unknown"
	}
	return &model.SymbolInfo{
		Symbol:      r.QuoteType.Symbol,
		CompanyName: name,
		Sector:      sector,
	}, nil
}
