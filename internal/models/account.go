package models

import "time"

// Recognized schedule frequencies.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

// ValidFrequency reports whether f is a recognized schedule period.
func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Account represents one user's savings relationship. Monetary values are
// integer minor units (cents) to avoid rounding drift.
type Account struct {
	ID                    int64     `json:"id"`
	Username              string    `json:"username"`
	PasswordHash          string    `json:"-"`
	SavingsCents          int64     `json:"savings_cents"`
	Active                bool      `json:"active"`
	ScheduledDepositCents int64     `json:"scheduled_deposit_cents"`
	ScheduledFrequency    string    `json:"scheduled_frequency,omitempty"`
	LinkedBankToken       string    `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Linked reports whether the account has completed the bank-link handshake.
func (a *Account) Linked() bool {
	return a.LinkedBankToken != ""
}
