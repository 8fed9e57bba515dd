package renderer

import (
	"bytes"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/etnz/premium"
	md "github.com/nao1215/markdown"
)

// SummaryOptions holds what the report itself does not know.
type SummaryOptions struct {
	Title    string // e.g. the fund name.
	Currency string // ISO code of prices and NAVs, e.g. "INR".
	Pair     string // label of the forex column, e.g. "USD/INR".
	Recent   int    // number of most recent days to list, none if zero.
	RunID    string // optional.
}

// SummaryMarkdown renders the statistics and the latest days of a report.
func SummaryMarkdown(r *premium.Report, opts SummaryOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	title := opts.Title
	if title == "" {
		title = "Premium"
	}
	doc.H1(title)

	rg, ok := r.Range()
	if !ok {
		doc.PlainText("No data points.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("Current premium: %s on %s", md.Bold(percent(r.Stats.Current)), rg.To))
	doc.PlainText(fmt.Sprintf("%d data points from %s to %s, updated %s.",
		r.DataPoints, rg.From, rg.To, r.LastUpdated.Format("2006-01-02 15:04:05 MST")))

	doc.H2("Statistics")
	doc.Table(md.TableSet{
		Header: []string{"Statistic", "Premium"},
		Rows: [][]string{
			{"Current", percent(r.Stats.Current)},
			{"Minimum", percent(r.Stats.Min)},
			{"Maximum", percent(r.Stats.Max)},
			{"Average", percent(r.Stats.Average)},
			{"Median", percent(r.Stats.Median)},
			{"25th percentile", percent(r.Stats.P25)},
			{"75th percentile", percent(r.Stats.P75)},
			{"Standard deviation", percent(r.Stats.Std)},
		},
	})

	if opts.Recent > 0 {
		pair := opts.Pair
		if pair == "" {
			pair = "Rate"
		}
		doc.H2("Recent days")
		table := md.TableSet{
			Header: []string{"Date", "Price", "NAV", "Adjusted NAV", pair, "Premium"},
		}
		first := max(0, len(r.Dates)-opts.Recent)
		for i := len(r.Dates) - 1; i >= first; i-- {
			table.Rows = append(table.Rows, []string{
				r.Dates[i].String(),
				amount(r.Prices[i], opts.Currency),
				amount(r.NAVs[i], opts.Currency),
				amount(r.AdjustedValues[i], opts.Currency),
				fmt.Sprintf("%.4f", r.Rates[i]),
				fmt.Sprintf("%+.2f%%", r.Premiums[i]),
			})
		}
		doc.Table(table)
	}

	if opts.RunID != "" {
		doc.PlainText(fmt.Sprintf("run %s", opts.RunID))
	}
	return doc.String()
}

// percent formats a premium, "n/a" if undefined.
func percent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

// amount formats v in currency, or as a plain number if the currency is unknown.
func amount(v float64, currency string) string {
	if currency == "" || money.GetCurrency(currency) == nil {
		return fmt.Sprintf("%.2f", v)
	}
	return money.NewFromFloat(v, currency).Display()
}
