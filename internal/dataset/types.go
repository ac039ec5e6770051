package dataset

import "time"

// Unknown is the sentinel every missing or unrecognized categorical value
// normalizes to, so grouping keys stay total.
const Unknown = "Unknown"

// Canonical priority values, in severity order.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Canonical status values.
const (
	StatusOpen    = "Open"
	StatusClosed  = "Closed"
	StatusPending = "Pending"
)

// Account is a normalized customer account record.
type Account struct {
	AccountID string
	Name      string
	Industry  string
	Country   string
	Tier      string
}

// Case is a normalized support case record. Industry and Country hold the
// case's own denormalized values when the input carries them; they stay empty
// otherwise and the join falls back to the owning account.
type Case struct {
	CaseID     string
	AccountID  string
	Priority   string
	Status     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
	Industry   string
	Country    string
}

// ResolutionDays returns the resolution time in fractional days, and false
// for a still-open case.
func (c Case) ResolutionDays() (float64, bool) {
	if c.ResolvedAt == nil {
		return 0, false
	}
	return c.ResolvedAt.Sub(c.CreatedAt).Hours() / 24, true
}

type rawAccount struct {
	AccountID *string `json:"account_id"`
	Name      *string `json:"name"`
	Industry  *string `json:"industry"`
	Country   *string `json:"country"`
	Tier      *string `json:"tier"`
}

type rawCase struct {
	CaseID     *string `json:"case_id"`
	AccountID  *string `json:"account_id"`
	Priority   *string `json:"priority"`
	Status     *string `json:"status"`
	CreatedAt  *string `json:"created_at"`
	ResolvedAt *string `json:"resolved_at"`
	Industry   *string `json:"industry"`
	Country    *string `json:"country"`
}
