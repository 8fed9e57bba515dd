package cmd

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/premium"
	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"
)

type exportCmd struct {
	input  string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the days of a premium file as a table" }
func (*exportCmd) Usage() string {
	return `premium export [-i <file>] -o <file.csv|file.xlsx>

  Exports every day of a premium file, one row per day. The format follows the
  extension of the output file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "Premium file. Defaults to the configured output.")
	f.StringVar(&c.output, "o", "", "Output table, .csv or .xlsx.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ext := strings.ToLower(filepath.Ext(c.output))
	if ext != ".csv" && ext != ".xlsx" {
		fmt.Fprintf(os.Stderr, "Error: -o must be a .csv or .xlsx file, got %q\n", c.output)
		return subcommands.ExitUsageError
	}
	input := c.input
	if input == "" {
		cfg, err := loadConfig("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		input = cfg.Output
	}

	report, err := premium.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", input, err)
		return subcommands.ExitFailure
	}

	switch ext {
	case ".csv":
		err = exportCSVFile(c.output, report)
	case ".xlsx":
		err = exportXLSX(c.output, report)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting to %q: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Exported %d days to %s\n", report.DataPoints, c.output)
	return subcommands.ExitSuccess
}

var exportHeader = []string{"date", "premium", "price", "nav", "adjusted_inav", "usdinr"}

// exportRow returns the values of day i, in the order of exportHeader.
func exportRow(r *premium.Report, i int) []float64 {
	return []float64{r.Premiums[i], r.Prices[i], r.NAVs[i], r.AdjustedValues[i], r.Rates[i]}
}

func exportCSVFile(path string, r *premium.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := exportCSV(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportCSV(w io.Writer, r *premium.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i, day := range r.Dates {
		record := []string{day.String()}
		for _, v := range exportRow(r, i) {
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const exportSheet = "Premium"

func exportXLSX(path string, r *premium.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	for i, day := range r.Dates {
		row := []any{day.String()}
		for _, v := range exportRow(r, i) {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
