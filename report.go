package premium

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/premium/date"
	"github.com/shopspring/decimal"
)

// Report is the JSON artifact consumed by the web frontend.
//
// All columns have the same length and are in chronological order.
type Report struct {
	Dates          []date.Date `json:"dates"`
	Premiums       []float64   `json:"premiums"`
	Prices         []float64   `json:"prices"`
	NAVs           []float64   `json:"navs"`
	AdjustedValues []float64   `json:"adjusted_inavs"`
	Rates          []float64   `json:"usdinr"`
	Stats          ReportStats `json:"stats"`
	LastUpdated    time.Time   `json:"last_updated"`
	DataPoints     int         `json:"data_points"`
}

// ReportStats is the rounded form of Stats. Undefined values are nil.
type ReportStats struct {
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	Average *float64 `json:"average"`
	Median  *float64 `json:"median"`
	P25     *float64 `json:"p25"`
	P75     *float64 `json:"p75"`
	Std     *float64 `json:"std"`
	Current *float64 `json:"current"`
}

// Decimal places used in the report.
const (
	valuePlaces = 2
	ratePlaces  = 4
)

// NewReport builds the report of records and their stats, generated at 'now'.
func NewReport(records []AlignedRecord, stats Stats, now time.Time) *Report {
	n := len(records)
	r := &Report{
		Dates:          make([]date.Date, n),
		Premiums:       make([]float64, n),
		Prices:         make([]float64, n),
		NAVs:           make([]float64, n),
		AdjustedValues: make([]float64, n),
		Rates:          make([]float64, n),
		LastUpdated:    now.Truncate(time.Second),
		DataPoints:     n,
		Stats: ReportStats{
			Min:     roundPtr(stats.Min, valuePlaces),
			Max:     roundPtr(stats.Max, valuePlaces),
			Average: roundPtr(stats.Mean, valuePlaces),
			Median:  roundPtr(stats.Median, valuePlaces),
			P25:     roundPtr(stats.P25, valuePlaces),
			P75:     roundPtr(stats.P75, valuePlaces),
			Std:     roundPtr(stats.Std, valuePlaces),
			Current: roundPtr(stats.Current, valuePlaces),
		},
	}
	for i, rec := range records {
		r.Dates[i] = rec.TradeDate
		r.Premiums[i] = round(rec.Premium, valuePlaces)
		r.Prices[i] = round(rec.Price, valuePlaces)
		r.NAVs[i] = round(rec.NAV, valuePlaces)
		r.AdjustedValues[i] = round(rec.AdjustedValue, valuePlaces)
		r.Rates[i] = round(rec.Rate, ratePlaces)
	}
	return r
}

// round rounds v to 'places' decimal places. Non finite values are returned
// as is.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// roundPtr is like round but returns nil for undefined values.
func roundPtr(v float64, places int32) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	r := round(v, places)
	return &r
}

// Range returns the first and last dates of the report.
func (r *Report) Range() (date.Range, bool) {
	if len(r.Dates) == 0 {
		return date.Range{}, false
	}
	return date.Range{From: r.Dates[0], To: r.Dates[len(r.Dates)-1]}, true
}

// Validate checks the report's internal consistency.
func (r *Report) Validate() error {
	n := len(r.Dates)
	if r.DataPoints != n {
		return fmt.Errorf("data_points is %d but there are %d dates", r.DataPoints, n)
	}
	for _, col := range []struct {
		name   string
		values []float64
	}{
		{"premiums", r.Premiums},
		{"prices", r.Prices},
		{"navs", r.NAVs},
		{"adjusted_inavs", r.AdjustedValues},
		{"usdinr", r.Rates},
	} {
		if len(col.values) != n {
			return fmt.Errorf("column %s has %d values but there are %d dates", col.name, len(col.values), n)
		}
	}
	for i := 1; i < n; i++ {
		if !r.Dates[i-1].Before(r.Dates[i]) {
			return fmt.Errorf("dates are not in chronological order at %s", r.Dates[i])
		}
	}
	return nil
}

// Encode writes the report as indented JSON.
func (r *Report) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path.
//
// The report is first written to a temporary file in the same folder, then
// renamed, so that readers never see a partial report.
// Any failure is reported as ErrWriteFailure.
func (r *Report) WriteFile(path string) (err error) {
	fail := func(err error) error {
		return fmt.Errorf("cannot write report %q: %w: %w", path, ErrWriteFailure, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := r.Encode(f); err != nil {
		f.Close()
		return fail(err)
	}
	if err := f.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return fail(err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fail(err)
	}
	return nil
}

// DecodeReport reads a report from its JSON form and validates it.
func DecodeReport(rd io.Reader) (*Report, error) {
	r := new(Report)
	if err := json.NewDecoder(rd).Decode(r); err != nil {
		return nil, fmt.Errorf("cannot decode report: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}
	return r, nil
}

// ReadFile reads a report from a file.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeReport(f)
}
