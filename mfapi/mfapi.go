// Package mfapi fetches the NAV history of Indian mutual fund schemes from mfapi.in.
package mfapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/etnz/premium"
	"github.com/etnz/premium/date"
	"github.com/shopspring/decimal"
)

// BaseURL is the default address of the API.
const BaseURL = "https://api.mfapi.in"

// navDateFormat is the layout of the NAV dates, e.g. "26-10-2023".
const navDateFormat = "02-01-2006"

// Client queries mfapi.in.
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

// Meta describes a scheme.
type Meta struct {
	FundHouse  string `json:"fund_house"`
	SchemeType string `json:"scheme_type"`
	SchemeName string `json:"scheme_name"`
	SchemeCode int    `json:"scheme_code"`
}

/*
	{
	  "meta": {"fund_house": "Motilal Oswal Mutual Fund", "scheme_name": "...", "scheme_code": 114984, ...},
	  "data": [
	    {"date": "26-10-2023", "nav": "120.45310"},
	    {"date": "25-10-2023", "nav": "121.01230"}
	  ],
	  "status": "SUCCESS"
	}
*/
type payload struct {
	Meta   Meta              `json:"meta"`
	Data   []json.RawMessage `json:"data"` // entries are decoded one by one.
	Status string            `json:"status"`
}

// entry is a NAV record. NAV is usually a string, sometimes a number.
type entry struct {
	Date string `json:"date"`
	NAV  any    `json:"nav"`
}

// decodeEntry decodes one record of the data array.
func decodeEntry(raw json.RawMessage) (entry, error) {
	var e entry
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&e); err != nil {
		return entry{}, fmt.Errorf("%w: %s: %w", premium.ErrMalformedRecord, raw, err)
	}
	return e, nil
}

// parse returns the entry's day and NAV.
func (e entry) parse() (date.Date, float64, error) {
	day, err := date.ParseLayout(navDateFormat, e.Date)
	if err != nil {
		return date.Date{}, 0, fmt.Errorf("%w: invalid date %q: %w", premium.ErrMalformedRecord, e.Date, err)
	}
	var text string
	switch v := e.NAV.(type) {
	case string:
		text = strings.TrimSpace(v)
	case json.Number:
		text = v.String()
	default:
		return day, 0, fmt.Errorf("%w: invalid nav %v on %s", premium.ErrMalformedRecord, e.NAV, day)
	}
	nav, err := decimal.NewFromString(text)
	if err != nil {
		return day, 0, fmt.Errorf("%w: invalid nav %q on %s: %w", premium.ErrMalformedRecord, text, day, err)
	}
	if nav.IsNegative() {
		return day, 0, fmt.Errorf("%w: negative nav %s on %s", premium.ErrMalformedRecord, nav, day)
	}
	return day, nav.InexactFloat64(), nil
}

// NAV returns the full NAV history of the scheme and its description.
//
// Entries that cannot be read are dropped. It fails with
// premium.ErrSourceUnavailable if the API cannot be reached, answers without
// a "data" field or with no valid entry.
func (c *Client) NAV(ctx context.Context, schemeCode string) (*premium.Series, Meta, error) {
	if schemeCode == "" {
		return nil, Meta{}, fmt.Errorf("mfapi: missing scheme code")
	}
	log := c.logger().With("source", "mfapi", "scheme", schemeCode)
	log.Info("fetching nav history")

	addr, err := url.JoinPath(c.BaseURL, "mf", url.PathEscape(schemeCode))
	if err != nil {
		return nil, Meta{}, fmt.Errorf("mfapi: invalid base url %q: %w", c.BaseURL, err)
	}

	var p payload
	if err := c.jwget(ctx, addr, &p); err != nil {
		return nil, Meta{}, fmt.Errorf("mfapi %s: %w: %w", schemeCode, premium.ErrSourceUnavailable, err)
	}
	// an unknown scheme is answered with a 200 and no data.
	if p.Data == nil {
		return nil, p.Meta, fmt.Errorf("mfapi %s: no data field in response (status %q): %w", schemeCode, p.Status, premium.ErrSourceUnavailable)
	}

	navs := new(premium.Series)
	dropped := 0
	for i, raw := range p.Data {
		e, err := decodeEntry(raw)
		if err != nil {
			log.Debug("dropping record", "index", i, "err", err)
			dropped++
			continue
		}
		day, nav, err := e.parse()
		if err != nil {
			log.Debug("dropping record", "index", i, "err", err)
			dropped++
			continue
		}
		if prev, dup := navs.Get(day); dup {
			log.Debug("duplicate day", "day", day, "replaced", prev, "nav", nav)
		}
		navs.Append(day, nav)
	}
	if navs.Len() == 0 {
		return nil, p.Meta, fmt.Errorf("mfapi %s: no valid nav: %w", schemeCode, premium.ErrSourceUnavailable)
	}
	log.Info("retrieved nav history", "records", navs.Len(), "dropped", dropped, "fund", p.Meta.SchemeName)
	return navs, p.Meta, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func (c *Client) jwget(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot execute http request: %w", err)
	}
	defer resp.Body.Close()
	c.logger().Debug("http", "method", req.Method, "host", req.URL.Host, "path", req.URL.Path, "status", resp.Status)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(data); err != nil {
		return fmt.Errorf("cannot decode json: %w", err)
	}
	return nil
}
