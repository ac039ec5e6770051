package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAccounts(t *testing.T) {
	path := writeInput(t, "accounts.json", `[
		{"account_id":"A1","name":"Acme","industry":"Software","country":"US","tier":"Gold"},
		{"account_id":"A2"}
	]`)
	accounts, err := LoadAccounts(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	if accounts[0].Name != "Acme" || accounts[0].Industry != "Software" {
		t.Fatalf("unexpected first account %+v", accounts[0])
	}
	if accounts[1].Name != "A2" {
		t.Fatalf("name should fall back to account_id, got %q", accounts[1].Name)
	}
	if accounts[1].Industry != Unknown || accounts[1].Tier != Unknown {
		t.Fatalf("missing categoricals should normalize to %s, got %+v", Unknown, accounts[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadAccounts(filepath.Join(t.TempDir(), "nope.json"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeInput(t, "bad.json", `{"not":"an array"`)
	_, err := LoadCases(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
}

func TestLoadCases(t *testing.T) {
	path := writeInput(t, "cases.json", `[
		{"case_id":"C1","account_id":"A1","priority":"high","status":"Closed","created_at":"2025-03-01T10:00:00Z","resolved_at":"2025-03-03T10:00:00Z"},
		{"case_id":"C2","account_id":"A1","priority":"strange","status":null,"created_at":"2025-03-02"}
	]`)
	cases, err := LoadCases(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].Priority != PriorityHigh || cases[0].Status != StatusClosed {
		t.Fatalf("expected canonicalized enums, got %+v", cases[0])
	}
	days, ok := cases[0].ResolutionDays()
	if !ok || days != 2 {
		t.Fatalf("expected 2 resolution days, got %v ok=%v", days, ok)
	}
	if cases[1].Priority != Unknown || cases[1].Status != Unknown {
		t.Fatalf("unrecognized categoricals should be %s, got %+v", Unknown, cases[1])
	}
	if cases[1].ResolvedAt != nil {
		t.Fatal("missing resolved_at should stay nil")
	}
}

func TestLoadCaseMissingRequiredField(t *testing.T) {
	path := writeInput(t, "cases.json", `[{"case_id":"C1","priority":"Low","created_at":"2025-03-01"}]`)
	_, err := LoadCases(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Field != "account_id" || se.Record != "C1" {
		t.Fatalf("error should name the record and field, got %+v", se)
	}
}

func TestLoadCaseUnparsableDate(t *testing.T) {
	path := writeInput(t, "cases.json", `[{"case_id":"C9","account_id":"A1","created_at":"03/01/2025"}]`)
	_, err := LoadCases(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Record != "C9" || se.Field != "created_at" {
		t.Fatalf("error should name case C9 created_at, got %+v", se)
	}
}

func TestLoadCaseResolvedBeforeCreated(t *testing.T) {
	path := writeInput(t, "cases.json", `[{"case_id":"C3","account_id":"A1","created_at":"2025-03-05","resolved_at":"2025-03-01"}]`)
	_, err := LoadCases(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Record != "C3" || se.Field != "resolved_at" {
		t.Fatalf("error should name case C3 resolved_at, got %+v", se)
	}
}

func TestLoadDuplicateCaseID(t *testing.T) {
	path := writeInput(t, "cases.json", `[
		{"case_id":"C1","account_id":"A1","created_at":"2025-03-01"},
		{"case_id":"C1","account_id":"A2","created_at":"2025-03-02"}
	]`)
	_, err := LoadCases(path)
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	for _, input := range []string{"2025-03-01T10:30:00Z", "2025-03-01 10:30:00", "2025-03-01"} {
		if _, err := ParseTimestamp(input); err != nil {
			t.Fatalf("expected %q to parse: %v", input, err)
		}
	}
	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Fatal("expected parse failure")
	}
}
