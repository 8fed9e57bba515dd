package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/premium"
	"github.com/etnz/premium/config"
	"github.com/etnz/premium/date"
	"github.com/google/subcommands"
)

// fakeMarket serves the chart API for prices and rates, and mfapi.in for NAVs.
type fakeMarket struct {
	quotes map[string]map[date.Date]float64 // by symbol
	navs   map[date.Date]float64
}

func (m *fakeMarket) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v8/finance/chart/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		quotes, ok := m.quotes[r.PathValue("symbol")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
			return
		}
		var stamps []int64
		var closes []float64
		for day, v := range quotes {
			stamps = append(stamps, day.Time(time.UTC).Unix())
			closes = append(closes, v)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"chart": map[string]any{
				"result": []any{map[string]any{
					"meta":       map[string]any{"gmtoffset": 0},
					"timestamp":  stamps,
					"indicators": map[string]any{"quote": []any{map[string]any{"close": closes}}},
				}},
				"error": nil,
			},
		})
	})
	mux.HandleFunc("GET /mf/{code}", func(w http.ResponseWriter, r *http.Request) {
		if m.navs == nil {
			fmt.Fprint(w, `{"meta":{},"status":"SUCCESS"}`)
			return
		}
		var data []map[string]string
		for day, v := range m.navs {
			data = append(data, map[string]string{"date": day.Format("02-01-2006"), "nav": fmt.Sprint(v)})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"meta":   map[string]any{"scheme_name": "Test NASDAQ 100 ETF", "scheme_code": 114984},
			"data":   data,
			"status": "SUCCESS",
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// market returns a fake market where prices are 101, 103 and 99 on the
// three days following 'first', with a constant NAV of 100 and rate of 83.
func market(first date.Date) *fakeMarket {
	d1, d2, d3 := first, first.Add(1), first.Add(2)
	return &fakeMarket{
		quotes: map[string]map[date.Date]float64{
			"MON100.NS": {d1: 101, d2: 103, d3: 99},
			"USDINR=X":  {d1: 83, d2: 83, d3: 83},
		},
		navs: map[date.Date]float64{d1: 100},
	}
}

func testConfig(t *testing.T, server *httptest.Server) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.YahooURL = server.URL
	cfg.MFAPIURL = server.URL
	cfg.Timeout = 5 * time.Second
	cfg.Output = filepath.Join(t.TempDir(), "premium_data.json")
	return cfg
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestFetchRun(t *testing.T) {
	server := market(date.New(2024, 1, 2)).start(t)
	now := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)
	run := fetchRun{
		cfg:   testConfig(t, server),
		log:   discard(),
		today: date.New(2024, 1, 10),
		now:   func() time.Time { return now },
	}

	report, meta, err := run.report(context.Background())
	if err != nil {
		t.Fatalf("report() unexpected error: %v", err)
	}
	if meta.SchemeName != "Test NASDAQ 100 ETF" {
		t.Errorf("report() meta = %+v", meta)
	}
	if report.DataPoints != 3 {
		t.Fatalf("report().DataPoints = %d want 3", report.DataPoints)
	}
	want := []float64{1, 3, -1}
	for i, p := range report.Premiums {
		if p != want[i] {
			t.Errorf("report().Premiums[%d] = %v want %v", i, p, want[i])
		}
	}
	if report.Stats.Current == nil || *report.Stats.Current != -1 {
		t.Errorf("report().Stats.Current = %v want -1", report.Stats.Current)
	}
	if !report.LastUpdated.Equal(now) {
		t.Errorf("report().LastUpdated = %v want %v", report.LastUpdated, now)
	}
}

func TestFetchRunNAVWindow(t *testing.T) {
	m := market(date.New(2024, 1, 2))
	// a NAV published before the period is not used.
	m.navs = map[date.Date]float64{date.New(2023, 12, 1): 100}
	server := m.start(t)
	cfg := testConfig(t, server)
	cfg.LookbackDays = 30
	run := fetchRun{cfg: cfg, log: discard(), today: date.New(2024, 1, 10), now: time.Now}

	_, _, err := run.report(context.Background())
	if !errors.Is(err, premium.ErrSourceUnavailable) {
		t.Errorf("report() error = %v want %v", err, premium.ErrSourceUnavailable)
	}
}

func TestFetchRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeMarket)
		want   error
	}{
		{"unknown price symbol", func(m *fakeMarket) { delete(m.quotes, "MON100.NS") }, premium.ErrSourceUnavailable},
		{"unknown scheme", func(m *fakeMarket) { m.navs = nil }, premium.ErrSourceUnavailable},
		{"unknown forex symbol", func(m *fakeMarket) { delete(m.quotes, "USDINR=X") }, premium.ErrSourceUnavailable},
		{
			// NAVs are all after the prices, no day can be computed.
			"no computable day",
			func(m *fakeMarket) { m.navs = map[date.Date]float64{date.New(2024, 1, 8): 100} },
			premium.ErrEmptySeries,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := market(date.New(2024, 1, 2))
			tt.mutate(m)
			server := m.start(t)
			run := fetchRun{cfg: testConfig(t, server), log: discard(), today: date.New(2024, 1, 10), now: time.Now}
			_, _, err := run.report(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("report() error = %v want %v", err, tt.want)
			}
		})
	}
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "premium.yaml")
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFetchCmd(t *testing.T) {
	server := market(date.Today().Add(-5)).start(t)
	cfg := testConfig(t, server)
	cfg.LogLevel = "error"
	c := &fetchCmd{configPath: writeConfig(t, cfg), quiet: true}

	status := c.Execute(context.Background(), flag.NewFlagSet("fetch", flag.ContinueOnError))
	if status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v want %v", status, subcommands.ExitSuccess)
	}
	report, err := premium.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if report.DataPoints != 3 {
		t.Errorf("DataPoints = %d want 3", report.DataPoints)
	}
}

func TestFetchCmdOutputFlag(t *testing.T) {
	server := market(date.Today().Add(-5)).start(t)
	cfg := testConfig(t, server)
	cfg.LogLevel = "error"
	output := filepath.Join(t.TempDir(), "site", "data.json")
	c := &fetchCmd{configPath: writeConfig(t, cfg), output: output, quiet: true}

	if status := c.Execute(context.Background(), flag.NewFlagSet("fetch", flag.ContinueOnError)); status != subcommands.ExitSuccess {
		t.Fatalf("Execute() = %v want %v", status, subcommands.ExitSuccess)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("-o file not written: %v", err)
	}
	if _, err := os.Stat(cfg.Output); err == nil {
		t.Errorf("configured output written despite -o")
	}
}

func TestFetchCmdFailureKeepsPreviousFile(t *testing.T) {
	m := market(date.Today().Add(-5))
	m.navs = nil
	server := m.start(t)
	cfg := testConfig(t, server)
	cfg.LogLevel = "error"
	previous := []byte(`{"previous": true}`)
	if err := os.WriteFile(cfg.Output, previous, 0644); err != nil {
		t.Fatal(err)
	}
	c := &fetchCmd{configPath: writeConfig(t, cfg), quiet: true}

	if status := c.Execute(context.Background(), flag.NewFlagSet("fetch", flag.ContinueOnError)); status != subcommands.ExitFailure {
		t.Fatalf("Execute() = %v want %v", status, subcommands.ExitFailure)
	}
	got, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(previous) {
		t.Errorf("output file was modified on failure: %s", got)
	}
}

func TestFetchCmdUsage(t *testing.T) {
	c := &fetchCmd{days: -1}
	if status := c.Execute(context.Background(), flag.NewFlagSet("fetch", flag.ContinueOnError)); status != subcommands.ExitUsageError {
		t.Errorf("Execute() = %v want %v", status, subcommands.ExitUsageError)
	}
}
