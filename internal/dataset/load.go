package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LoadAccounts reads and normalizes the accounts JSON array.
func LoadAccounts(path string) ([]Account, error) {
	raws, err := decodeFile[rawAccount](path)
	if err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		acct, err := normalizeAccount(raw, path, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[acct.AccountID]; dup {
			return nil, &SchemaError{File: path, Record: acct.AccountID, Field: "account_id", Err: errors.New("duplicate account_id")}
		}
		seen[acct.AccountID] = struct{}{}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// LoadCases reads and normalizes the support cases JSON array.
func LoadCases(path string) ([]Case, error) {
	raws, err := decodeFile[rawCase](path)
	if err != nil {
		return nil, err
	}
	cases := make([]Case, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		c, err := normalizeCase(raw, path, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c.CaseID]; dup {
			return nil, &SchemaError{File: path, Record: c.CaseID, Field: "case_id", Err: errors.New("duplicate case_id")}
		}
		seen[c.CaseID] = struct{}{}
		cases = append(cases, c)
	}
	return cases, nil
}

func decodeFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("not a valid JSON array: %w", err)}
	}
	return out, nil
}
