package report

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"support_analytics/internal/kpi"
)

func sampleResults() *kpi.Results {
	return &kpi.Results{
		CasesPerAccount: []kpi.AccountRow{
			{AccountID: "A1", AccountName: "Acme", TotalCases: 3, AvgResolutionDays: 3, OpenCases: 1, ClosedCases: 2},
			{AccountID: "A2", AccountName: "Globex", TotalCases: 1, AvgResolutionDays: 1, ClosedCases: 1},
		},
		Country:  []kpi.CountryRow{{Country: "US"}, {Country: "DE"}},
		Industry: []kpi.IndustryRow{{Industry: "Software"}},
		TimeSeries: []kpi.TimeSeriesRow{
			{Day: "2025-03-01", Priority: "High", CaseCount: 1},
			{Day: "2025-03-03", Priority: "Low", CaseCount: 2},
			{Day: "2025-03-03", Priority: "High", CaseCount: 1},
		},
		TotalAccounts: 4,
		TotalCases:    4,
	}
}

func TestBuildSummary(t *testing.T) {
	s := Build(sampleResults())
	if s.TotalAccounts != 4 || s.TotalCases != 4 {
		t.Fatalf("unexpected totals %+v", s)
	}
	if s.AvgCasesPerAccount != 1.0 {
		t.Fatalf("expected 1.0 cases per account, got %v", s.AvgCasesPerAccount)
	}
	if s.MedianResolutionDays != 2.0 {
		t.Fatalf("expected median 2.0, got %v", s.MedianResolutionDays)
	}
	if s.OpenCases != 1 || s.ClosedCases != 3 {
		t.Fatalf("unexpected open/closed %+v", s)
	}
	if s.TopAccountName != "Acme" || s.TopAccountCases != 3 {
		t.Fatalf("unexpected top account %+v", s)
	}
	if s.BusiestDay != "2025-03-03" || s.BusiestDayCases != 3 {
		t.Fatalf("unexpected busiest day %+v", s)
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	s := Build(&kpi.Results{})
	if !math.IsNaN(s.MedianResolutionDays) || !math.IsNaN(s.AvgCasesPerAccount) {
		t.Fatalf("empty inputs should produce undefined averages, got %+v", s)
	}
	if s.BusiestDay != "" {
		t.Fatalf("expected no busiest day, got %q", s.BusiestDay)
	}
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := Write(path, Build(sampleResults())); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	for _, want := range []string{
		"# Support Case Analysis",
		"| Total support cases | 4 |",
		"| Median resolution time (days) | 2.00 |",
		"Acme alone generated 3 cases",
		"busiest day saw 3 new cases (2025-03-03)",
		"## Recommendations",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q\n%s", want, body)
		}
	}
}

func TestWriteReportEmptyData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := Write(path, Build(&kpi.Results{})); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "n/a") {
		t.Fatal("undefined averages should render as n/a")
	}
}
