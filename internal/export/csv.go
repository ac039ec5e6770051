// Package export serializes the five KPI result sets to CSV, one file per
// KPI, with fixed header orders. Floats are written as %.2f and undefined
// averages as the literal NaN, so repeat runs over identical input are
// byte-identical.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"support_analytics/internal/kpi"
)

// ExportError indicates an unwritable destination or a failed write.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string { return fmt.Sprintf("export %s: %v", e.Path, e.Err) }
func (e *ExportError) Unwrap() error { return e.Err }

// Exported file names, one per KPI.
const (
	FileCasesPerAccount = "kpi_cases_per_account.csv"
	FilePriorityStatus  = "kpi_priority_status.csv"
	FileIndustry        = "kpi_industry.csv"
	FileCountry         = "kpi_country.csv"
	FileTimeSeries      = "kpi_time_series.csv"
)

// Files lists every exported file name in a fixed order.
var Files = []string{FileCasesPerAccount, FilePriorityStatus, FileIndustry, FileCountry, FileTimeSeries}

// WriteAll exports all five KPI tables into dir. Every file is written to a
// staging directory first and renamed into place only after all five writes
// succeeded, so a failed run leaves no partial KPI set behind.
func WriteAll(dir string, res *kpi.Results) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ExportError{Path: dir, Err: err}
	}
	staging, err := os.MkdirTemp(dir, ".staging-")
	if err != nil {
		return &ExportError{Path: dir, Err: err}
	}
	defer os.RemoveAll(staging)

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{FileCasesPerAccount,
			[]string{"account_id", "account_name", "industry", "country", "total_cases", "avg_resolution_days", "open_cases", "closed_cases"},
			casesPerAccountRows(res.CasesPerAccount)},
		{FilePriorityStatus,
			[]string{"priority", "status", "case_count", "avg_resolution_days"},
			priorityStatusRows(res.PriorityStatus)},
		{FileIndustry,
			[]string{"industry", "account_count", "case_count", "cases_per_account", "avg_resolution_days"},
			industryRows(res.Industry)},
		{FileCountry,
			[]string{"country", "account_count", "case_count", "avg_resolution_days"},
			countryRows(res.Country)},
		{FileTimeSeries,
			[]string{"date", "priority", "case_count"},
			timeSeriesRows(res.TimeSeries)},
	}

	for _, tbl := range tables {
		if err := writeCSV(filepath.Join(staging, tbl.name), tbl.header, tbl.rows); err != nil {
			return err
		}
	}
	for _, tbl := range tables {
		if err := os.Rename(filepath.Join(staging, tbl.name), filepath.Join(dir, tbl.name)); err != nil {
			return &ExportError{Path: filepath.Join(dir, tbl.name), Err: err}
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return &ExportError{Path: path, Err: err}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return &ExportError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return &ExportError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

func casesPerAccountRows(rows []kpi.AccountRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.AccountID, r.AccountName, r.Industry, r.Country,
			strconv.Itoa(r.TotalCases), formatFloat(r.AvgResolutionDays),
			strconv.Itoa(r.OpenCases), strconv.Itoa(r.ClosedCases),
		})
	}
	return out
}

func priorityStatusRows(rows []kpi.PriorityStatusRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Priority, r.Status, strconv.Itoa(r.CaseCount), formatFloat(r.AvgResolutionDays)})
	}
	return out
}

func industryRows(rows []kpi.IndustryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Industry, strconv.Itoa(r.AccountCount), strconv.Itoa(r.CaseCount),
			formatFloat(r.CasesPerAccount), formatFloat(r.AvgResolutionDays),
		})
	}
	return out
}

func countryRows(rows []kpi.CountryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Country, strconv.Itoa(r.AccountCount), strconv.Itoa(r.CaseCount), formatFloat(r.AvgResolutionDays)})
	}
	return out
}

func timeSeriesRows(rows []kpi.TimeSeriesRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.Day, r.Priority, strconv.Itoa(r.CaseCount)})
	}
	return out
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
