// Package credits defines the credit account entity that gates every paid
// AI action. Accounts are owned exclusively by the ledger; nothing else
// mutates them.
package credits

import "errors"

var (
	// ErrEmptyIdentity is returned when a caller supplies a blank identity key.
	ErrEmptyIdentity = errors.New("identity must not be empty")

	// ErrInvalidAmount is returned for non-positive credit grants.
	ErrInvalidAmount = errors.New("credit amount must be greater than zero")
)

// Account tracks the allowance granted to one identity and how much of it
// has been consumed. Invariant: Used <= Total after every successful consume.
type Account struct {
	Identity string
	Total    int
	Used     int
}

// Remaining returns the unconsumed allowance. Never negative while the
// ledger invariant holds.
func (a Account) Remaining() int {
	if a.Used > a.Total {
		return 0
	}
	return a.Total - a.Used
}

// Status is the read model returned to callers asking about their balance.
type Status struct {
	Total     int `json:"total_credits"`
	Used      int `json:"credits_used"`
	Remaining int `json:"credits_remaining"`
}

// StatusOf builds the read model for an account.
func StatusOf(a Account) Status {
	return Status{
		Total:     a.Total,
		Used:      a.Used,
		Remaining: a.Remaining(),
	}
}
