package kpi

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"support_analytics/internal/dataset"
)

// Engine stages the two normalized collections into SQLite and computes the
// five KPI result sets. The default path is :memory:; a file path may be
// configured so the staging tables survive the run for inspection.
type Engine struct {
	db *sql.DB
}

func Open(path string) (*Engine, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	e := &Engine{db: db}
	if err := e.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) Close() error { return e.db.Close() }

// Each run recomputes from scratch, so the staging tables are rebuilt rather
// than migrated in place.
func (e *Engine) migrate() error {
	stmts := []string{
		`DROP TABLE IF EXISTS accounts;`,
		`DROP TABLE IF EXISTS cases;`,
		`CREATE TABLE accounts (
			account_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			industry TEXT NOT NULL,
			country TEXT NOT NULL,
			tier TEXT NOT NULL
		);`,
		`CREATE TABLE cases (
			case_id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			priority TEXT NOT NULL,
			priority_rank INTEGER NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			resolved_at TIMESTAMP,
			created_day TEXT NOT NULL,
			resolution_days REAL,
			industry TEXT,
			country TEXT
		);`,
		`CREATE INDEX idx_cases_account ON cases(account_id);`,
		`CREATE INDEX idx_cases_day ON cases(created_day);`,
	}
	for _, stmt := range stmts {
		if _, err := e.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadDataset bulk-inserts both collections in one transaction. Resolution
// time and the day bucket are computed here, in Go, so every case uses the
// same configured timezone and the SQL stays timezone-agnostic.
func (e *Engine) LoadDataset(ctx context.Context, accounts []dataset.Account, cases []dataset.Case, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insAccount, err := tx.PrepareContext(ctx, `INSERT INTO accounts(account_id, name, industry, country, tier) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insAccount.Close()
	for _, a := range accounts {
		if _, err := insAccount.ExecContext(ctx, a.AccountID, a.Name, a.Industry, a.Country, a.Tier); err != nil {
			return fmt.Errorf("stage account %s: %w", a.AccountID, err)
		}
	}

	insCase, err := tx.PrepareContext(ctx, `INSERT INTO cases(case_id, account_id, priority, priority_rank, status, created_at, resolved_at, created_day, resolution_days, industry, country)
		VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer insCase.Close()
	for _, c := range cases {
		var resolvedAt, resolutionDays any
		if days, ok := c.ResolutionDays(); ok {
			resolvedAt = c.ResolvedAt.UTC()
			resolutionDays = days
		}
		day := c.CreatedAt.In(loc).Format("2006-01-02")
		if _, err := insCase.ExecContext(ctx, c.CaseID, c.AccountID, c.Priority, dataset.PriorityRank(c.Priority), c.Status,
			c.CreatedAt.UTC(), resolvedAt, day, resolutionDays, c.Industry, c.Country); err != nil {
			return fmt.Errorf("stage case %s: %w", c.CaseID, err)
		}
	}

	return tx.Commit()
}

// Compute runs the five KPI aggregations over the staged snapshot. The five
// queries are independent and order-insensitive.
func (e *Engine) Compute(ctx context.Context) (*Results, error) {
	res := &Results{}
	var err error
	if res.CasesPerAccount, err = e.casesPerAccount(ctx); err != nil {
		return nil, fmt.Errorf("cases per account: %w", err)
	}
	if res.PriorityStatus, err = e.priorityStatus(ctx); err != nil {
		return nil, fmt.Errorf("priority/status: %w", err)
	}
	if res.Industry, err = e.industryMetrics(ctx); err != nil {
		return nil, fmt.Errorf("industry metrics: %w", err)
	}
	if res.Country, err = e.countryMetrics(ctx); err != nil {
		return nil, fmt.Errorf("country metrics: %w", err)
	}
	if res.TimeSeries, err = e.timeSeries(ctx); err != nil {
		return nil, fmt.Errorf("time series: %w", err)
	}
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&res.TotalAccounts); err != nil {
		return nil, err
	}
	if err := e.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cases`).Scan(&res.TotalCases); err != nil {
		return nil, err
	}
	return res, nil
}

// Left join from cases, so a case without a matching account still counts;
// its industry/country fall back to the case's own denormalized value, then
// the Unknown sentinel. Accounts with zero cases do not appear.
func (e *Engine) casesPerAccount(ctx context.Context) ([]AccountRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT c.account_id,
		       COALESCE(a.name, c.account_id),
		       COALESCE(a.industry, NULLIF(c.industry, ''), 'Unknown'),
		       COALESCE(a.country, NULLIF(c.country, ''), 'Unknown'),
		       COUNT(*) AS total_cases,
		       AVG(c.resolution_days),
		       SUM(CASE WHEN c.resolution_days IS NULL THEN 1 ELSE 0 END),
		       SUM(CASE WHEN c.resolution_days IS NOT NULL THEN 1 ELSE 0 END)
		FROM cases c
		LEFT JOIN accounts a ON a.account_id = c.account_id
		GROUP BY c.account_id
		ORDER BY total_cases DESC, c.account_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountRow
	for rows.Next() {
		var r AccountRow
		var avg sql.NullFloat64
		if err := rows.Scan(&r.AccountID, &r.AccountName, &r.Industry, &r.Country, &r.TotalCases, &avg, &r.OpenCases, &r.ClosedCases); err != nil {
			return nil, err
		}
		r.AvgResolutionDays = nullableAvg(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (e *Engine) priorityStatus(ctx context.Context) ([]PriorityStatusRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT priority, status, COUNT(*), AVG(resolution_days)
		FROM cases
		GROUP BY priority, status
		ORDER BY MIN(priority_rank) ASC, status ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PriorityStatusRow
	for rows.Next() {
		var r PriorityStatusRow
		var avg sql.NullFloat64
		if err := rows.Scan(&r.Priority, &r.Status, &r.CaseCount, &avg); err != nil {
			return nil, err
		}
		r.AvgResolutionDays = nullableAvg(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (e *Engine) industryMetrics(ctx context.Context) ([]IndustryRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT COALESCE(a.industry, NULLIF(c.industry, ''), 'Unknown') AS industry,
		       COUNT(DISTINCT a.account_id),
		       COUNT(*) AS case_count,
		       AVG(c.resolution_days)
		FROM cases c
		LEFT JOIN accounts a ON a.account_id = c.account_id
		GROUP BY COALESCE(a.industry, NULLIF(c.industry, ''), 'Unknown')
		ORDER BY case_count DESC, industry ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IndustryRow
	for rows.Next() {
		var r IndustryRow
		var avg sql.NullFloat64
		if err := rows.Scan(&r.Industry, &r.AccountCount, &r.CaseCount, &avg); err != nil {
			return nil, err
		}
		r.AvgResolutionDays = nullableAvg(avg)
		if r.AccountCount > 0 {
			r.CasesPerAccount = float64(r.CaseCount) / float64(r.AccountCount)
		} else {
			r.CasesPerAccount = math.NaN()
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (e *Engine) countryMetrics(ctx context.Context) ([]CountryRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT COALESCE(a.country, NULLIF(c.country, ''), 'Unknown') AS country,
		       COUNT(DISTINCT a.account_id),
		       COUNT(*) AS case_count,
		       AVG(c.resolution_days)
		FROM cases c
		LEFT JOIN accounts a ON a.account_id = c.account_id
		GROUP BY COALESCE(a.country, NULLIF(c.country, ''), 'Unknown')
		ORDER BY case_count DESC, country ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountryRow
	for rows.Next() {
		var r CountryRow
		var avg sql.NullFloat64
		if err := rows.Scan(&r.Country, &r.AccountCount, &r.CaseCount, &avg); err != nil {
			return nil, err
		}
		r.AvgResolutionDays = nullableAvg(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (e *Engine) timeSeries(ctx context.Context) ([]TimeSeriesRow, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT created_day, priority, COUNT(*)
		FROM cases
		GROUP BY created_day, priority
		ORDER BY created_day ASC, MIN(priority_rank) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TimeSeriesRow
	for rows.Next() {
		var r TimeSeriesRow
		if err := rows.Scan(&r.Day, &r.Priority, &r.CaseCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AVG skips NULLs, so a group with zero resolved cases comes back NULL and is
// reported as NaN rather than zero.
func nullableAvg(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
