package kpi

// AccountRow is one CasesPerAccount result row. AvgResolutionDays is NaN when
// the account has no resolved cases.
type AccountRow struct {
	AccountID         string
	AccountName       string
	Industry          string
	Country           string
	TotalCases        int
	AvgResolutionDays float64
	OpenCases         int
	ClosedCases       int
}

// PriorityStatusRow is one priority x status partition cell.
type PriorityStatusRow struct {
	Priority          string
	Status            string
	CaseCount         int
	AvgResolutionDays float64
}

// IndustryRow aggregates cases by industry. AccountCount counts distinct
// accounts with at least one case in the industry; CasesPerAccount is NaN
// when no account matched (orphan-only groups).
type IndustryRow struct {
	Industry          string
	AccountCount      int
	CaseCount         int
	CasesPerAccount   float64
	AvgResolutionDays float64
}

// CountryRow aggregates cases by account country.
type CountryRow struct {
	Country           string
	AccountCount      int
	CaseCount         int
	AvgResolutionDays float64
}

// TimeSeriesRow counts cases created on one calendar day (in the configured
// timezone) for one priority.
type TimeSeriesRow struct {
	Day       string
	Priority  string
	CaseCount int
}

// Results is the write-once snapshot of all five KPI result sets.
type Results struct {
	CasesPerAccount []AccountRow
	PriorityStatus  []PriorityStatusRow
	Industry        []IndustryRow
	Country         []CountryRow
	TimeSeries      []TimeSeriesRow

	TotalAccounts int
	TotalCases    int
}
