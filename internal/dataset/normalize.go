package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Accepted timestamp layouts, tried in order. Bare layouts are interpreted
// as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func normalizeAccount(raw rawAccount, file string, idx int) (Account, error) {
	id := deref(raw.AccountID)
	if id == "" {
		return Account{}, &SchemaError{File: file, Record: fmt.Sprintf("#%d", idx), Field: "account_id", Err: errors.New("missing required field")}
	}
	name := deref(raw.Name)
	if name == "" {
		name = id
	}
	return Account{
		AccountID: id,
		Name:      name,
		Industry:  canonicalCategory(deref(raw.Industry)),
		Country:   canonicalCategory(deref(raw.Country)),
		Tier:      canonicalCategory(deref(raw.Tier)),
	}, nil
}

func normalizeCase(raw rawCase, file string, idx int) (Case, error) {
	id := deref(raw.CaseID)
	record := id
	if record == "" {
		record = fmt.Sprintf("#%d", idx)
	}
	if id == "" {
		return Case{}, &SchemaError{File: file, Record: record, Field: "case_id", Err: errors.New("missing required field")}
	}
	accountID := deref(raw.AccountID)
	if accountID == "" {
		return Case{}, &SchemaError{File: file, Record: record, Field: "account_id", Err: errors.New("missing required field")}
	}

	createdRaw := deref(raw.CreatedAt)
	if createdRaw == "" {
		return Case{}, &SchemaError{File: file, Record: record, Field: "created_at", Err: errors.New("missing required field")}
	}
	created, err := ParseTimestamp(createdRaw)
	if err != nil {
		return Case{}, &SchemaError{File: file, Record: record, Field: "created_at", Err: err}
	}

	var resolved *time.Time
	if resolvedRaw := deref(raw.ResolvedAt); resolvedRaw != "" {
		ts, err := ParseTimestamp(resolvedRaw)
		if err != nil {
			return Case{}, &SchemaError{File: file, Record: record, Field: "resolved_at", Err: err}
		}
		if ts.Before(created) {
			return Case{}, &SchemaError{File: file, Record: record, Field: "resolved_at", Err: errors.New("resolved_at precedes created_at")}
		}
		resolved = &ts
	}

	return Case{
		CaseID:     id,
		AccountID:  accountID,
		Priority:   CanonicalPriority(deref(raw.Priority)),
		Status:     CanonicalStatus(deref(raw.Status)),
		CreatedAt:  created,
		ResolvedAt: resolved,
		Industry:   strings.TrimSpace(deref(raw.Industry)),
		Country:    strings.TrimSpace(deref(raw.Country)),
	}, nil
}

// ParseTimestamp parses a timestamp in any accepted layout.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}

// CanonicalPriority maps a raw priority to its canonical enum value, or
// Unknown.
func CanonicalPriority(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow
	case "medium", "normal":
		return PriorityMedium
	case "high":
		return PriorityHigh
	case "urgent", "critical":
		return PriorityUrgent
	default:
		return Unknown
	}
}

// CanonicalStatus maps a raw status to its canonical enum value, or Unknown.
func CanonicalStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return StatusOpen
	case "closed", "resolved":
		return StatusClosed
	case "pending":
		return StatusPending
	default:
		return Unknown
	}
}

// PriorityRank orders priorities by severity for deterministic sorting.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityLow:
		return 0
	case PriorityMedium:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	default:
		return 4
	}
}

func canonicalCategory(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
