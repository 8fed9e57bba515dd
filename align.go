package premium

import (
	"math"

	"github.com/etnz/premium/date"
)

// AlignedRecord is one trading day with all its inputs resolved.
type AlignedRecord struct {
	TradeDate     date.Date
	Price         float64   // market close on TradeDate.
	NAV           float64   // latest NAV published on or before TradeDate.
	NAVDate       date.Date // date of NAV, never after TradeDate.
	Rate          float64   // forex rate as of TradeDate.
	NAVRate       float64   // forex rate as of NAVDate, never zero.
	AdjustedValue float64   // NAV restated in TradeDate currency terms.
	Premium       float64   // premium of Price over AdjustedValue, in percent.
}

// Align merges the three series of src into one record per trading day.
//
// For each date of the price series, in chronological order, the latest NAV
// on or before that date is used, and forex rates are forward filled: the
// rate of a day is the last rate observed on or before it. A date is skipped
// when there is no NAV yet, when either rate cannot be resolved, or when the
// NAV day rate is zero. Skipping one date never affects another one, so the
// result has at most as many records as there are prices.
func Align(src Sources) []AlignedRecord {
	if src.Prices == nil || src.NAVs == nil || src.Rates == nil {
		return nil
	}
	records := make([]AlignedRecord, 0, src.Prices.Len())
	for day, price := range src.Prices.Values() {
		navDate, nav, ok := src.NAVs.AsOf(day)
		if !ok {
			continue
		}
		rate, ok := src.Rates.ValueAsOf(day)
		if !ok {
			continue
		}
		navRate, ok := src.Rates.ValueAsOf(navDate)
		if !ok || navRate == 0 {
			continue
		}
		rec := newAlignedRecord(day, price, navDate, nav, rate, navRate)
		if math.IsNaN(rec.Premium) || math.IsInf(rec.Premium, 0) {
			// a zero NAV has no premium.
			continue
		}
		records = append(records, rec)
	}
	return records
}

func newAlignedRecord(day date.Date, price float64, navDate date.Date, nav, rate, navRate float64) AlignedRecord {
	adjusted := AdjustedValue(nav, rate, navRate)
	return AlignedRecord{
		TradeDate:     day,
		Price:         price,
		NAV:           nav,
		NAVDate:       navDate,
		Rate:          rate,
		NAVRate:       navRate,
		AdjustedValue: adjusted,
		Premium:       Premium(price, adjusted),
	}
}

// AdjustedValue restates a NAV struck at navRate into rate terms.
func AdjustedValue(nav, rate, navRate float64) float64 {
	return nav * (rate / navRate)
}

// Premium returns the premium of price over value in percent.
func Premium(price, value float64) float64 {
	return (price - value) / value * 100
}

// Premiums returns the premium column of records.
func Premiums(records []AlignedRecord) []float64 {
	premiums := make([]float64, len(records))
	for i, r := range records {
		premiums[i] = r.Premium
	}
	return premiums
}
