// Package yahoo fetches daily closing prices from the Yahoo Finance chart API.
//
// It serves both exchange traded securities (e.g. "MON100.NS") and forex
// pairs (e.g. "USDINR=X").
package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/premium"
	"github.com/etnz/premium/date"
)

// BaseURL is the default address of the chart API.
const BaseURL = "https://query1.finance.yahoo.com"

// the API rejects requests without a browser-ish user agent.
const userAgent = "Mozilla/5.0 (compatible; premium-tracker/1.0)"

// Client queries the chart API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// NewClient returns a Client on the default BaseURL with a bounded request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		BaseURL: BaseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Daily returns the daily closes of symbol for the days of r.
//
// Dividend and split adjusted closes are used when the API provides them.
// Days are the exchange's calendar days. Observations that cannot be read
// are dropped. It fails with premium.ErrSourceUnavailable if the API returns
// an error or no observation at all.
func (c *Client) Daily(ctx context.Context, symbol string, r date.Range) (*premium.Series, error) {
	if symbol == "" {
		return nil, fmt.Errorf("yahoo: missing symbol")
	}
	if c.BaseURL == "" {
		return nil, fmt.Errorf("yahoo: missing base url")
	}
	log := c.logger().With("source", "yahoo", "symbol", symbol)
	log.Info("fetching daily closes", "from", r.From, "to", r.To)

	addr, err := chartURL(c.BaseURL, symbol, r)
	if err != nil {
		return nil, err
	}
	jobj, err := c.jwget(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w: %w", symbol, premium.ErrSourceUnavailable, err)
	}

	points, err := parseChart(jobj)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w: %w", symbol, premium.ErrSourceUnavailable, err)
	}

	series := new(premium.Series)
	dropped := 0
	for _, p := range points {
		if p.err != nil {
			log.Debug("dropping record", "index", p.index, "err", p.err)
			dropped++
			continue
		}
		if !r.Contains(p.day) {
			continue
		}
		if prev, dup := series.Get(p.day); dup {
			log.Debug("duplicate day", "day", p.day, "replaced", prev, "close", p.close)
		}
		series.Append(p.day, p.close)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("yahoo %s: no data between %s and %s: %w", symbol, r.From, r.To, premium.ErrSourceUnavailable)
	}
	log.Info("retrieved daily closes", "records", series.Len(), "dropped", dropped)
	return series, nil
}

// chartURL builds the chart query for the days of r.
func chartURL(base, symbol string, r date.Range) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("yahoo: invalid base url %q: %w", base, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/v8/finance/chart/" + url.PathEscape(symbol)

	q := u.Query()
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	q.Set("period1", fmt.Sprint(r.From.Time(time.UTC).Unix()))
	// period2 is exclusive.
	q.Set("period2", fmt.Sprint(r.To.Add(1).Time(time.UTC).Unix()))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// point is one row of the chart payload.
type point struct {
	index int
	day   date.Date
	close float64
	err   error // set if the row is malformed
}

/*
	{
	  "chart": {
	    "result": [{
	      "meta": {"currency": "INR", "symbol": "MON100.NS", "gmtoffset": 19800, ...},
	      "timestamp": [1704253500, 1704339900],
	      "indicators": {
	        "quote": [{"close": [150.1, null], ...}],
	        "adjclose": [{"adjclose": [150.1, null]}]
	      }
	    }],
	    "error": null
	  }
	}
*/
func parseChart(jobj any) ([]point, error) {
	if e, err := jsonpath.Get("$.chart.error", jobj); err == nil && e != nil {
		desc, _ := jsonpath.Get("$.chart.error.description", jobj)
		return nil, fmt.Errorf("api error: %v", desc)
	}

	stamps, err := getList(jobj, "$.chart.result[0].timestamp")
	if err != nil {
		return nil, err
	}
	closes, err := getList(jobj, "$.chart.result[0].indicators.adjclose[0].adjclose")
	if err != nil {
		// not all instruments have adjusted closes (forex doesn't).
		closes, err = getList(jobj, "$.chart.result[0].indicators.quote[0].close")
		if err != nil {
			return nil, err
		}
	}
	if len(closes) != len(stamps) {
		return nil, fmt.Errorf("got %d timestamps but %d closes", len(stamps), len(closes))
	}

	// timestamps are the session's open time, in the exchange's timezone
	// that can be a different calendar day than in UTC.
	var offset float64
	if v, err := jsonpath.Get("$.chart.result[0].meta.gmtoffset", jobj); err == nil {
		offset, _ = v.(float64)
	}
	loc := time.FixedZone("exchange", int(offset))

	points := make([]point, len(stamps))
	for i := range stamps {
		points[i] = parsePoint(i, stamps[i], closes[i], loc)
	}
	return points, nil
}

func parsePoint(i int, stamp, close any, loc *time.Location) point {
	p := point{index: i}
	ts, ok := stamp.(float64)
	if !ok {
		p.err = fmt.Errorf("%w: timestamp %v is not a number", premium.ErrMalformedRecord, stamp)
		return p
	}
	p.day = date.Of(time.Unix(int64(ts), 0).In(loc))

	v, ok := close.(float64)
	switch {
	case !ok:
		p.err = fmt.Errorf("%w: close %v on %s is not a number", premium.ErrMalformedRecord, close, p.day)
	case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
		p.err = fmt.Errorf("%w: invalid close %v on %s", premium.ErrMalformedRecord, v, p.day)
	default:
		p.close = v
	}
	return p
}

// getList returns the list at 'path'.
func getList(jobj any, path string) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("cannot read %q: not a list but %T", path, jval)
	}
	return list, nil
}

// jwget performs an HTTP GET request and returns the decoded JSON response.
func (c *Client) jwget(ctx context.Context, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read http body: %w", err)
	}
	c.logger().Debug("http", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.Status)

	var jobj any
	jerr := json.Unmarshal(buf.Bytes(), &jobj)
	if resp.StatusCode != http.StatusOK {
		// the chart API describes errors in the body of 4xx responses.
		if jerr == nil {
			if _, err := parseChart(jobj); err != nil {
				return nil, fmt.Errorf("cannot http GET %v%v: %v: %w", req.URL.Host, req.URL.Path, resp.Status, err)
			}
		}
		return nil, fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	if jerr != nil {
		return nil, fmt.Errorf("cannot decode json: %w", jerr)
	}
	return jobj, nil
}
