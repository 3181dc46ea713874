package model

import "time"

// Claim records a loss filed against a policy.
//
// Fields:
//  ID          – UUID primary key.
//  PolicyID    – policy the claim was filed under.
//  ClaimNumber – carrier-issued claim number.
//  Date        – ISO date of loss.
//  Amount      – claimed amount, zero when still unknown.
//  Status      – open, pending or closed.
//  Note        – optional free-text note.
type Claim struct {
	ID          string    `json:"id"`             // claims.id
	PolicyID    string    `json:"policy_id"`      // claims.policy_id
	ClaimNumber string    `json:"claim_number"`   // claims.claim_number
	Date        string    `json:"date,omitempty"` // claims.date
	Amount      float64   `json:"amount"`         // claims.amount
	Status      string    `json:"status"`         // claims.status: open|pending|closed
	Note        string    `json:"note,omitempty"` // claims.note
	CreatedAt   time.Time `json:"created_at"`     // claims.created_at
	UpdatedAt   time.Time `json:"updated_at"`     // claims.updated_at
}

// Claim status values.
const (
	ClaimOpen    = "open"
	ClaimPending = "pending"
	ClaimClosed  = "closed"
)

// KnownClaimStatus reports whether s is a valid claim status.
func KnownClaimStatus(s string) bool {
	return s == ClaimOpen || s == ClaimPending || s == ClaimClosed
}
