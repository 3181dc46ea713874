package model

import "time"

// Alert priorities, ordered by urgency.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// AlertTypeRenewal marks alerts produced by the renewal scanner for
// policies approaching expiration.
const AlertTypeRenewal = "renewal"

// Alert is a notification row produced by the renewal scanner.  IsRead
// tracks dashboard acknowledgement; IsSent tracks whether the email
// notification went out to the agent of record.
type Alert struct {
	ID        string    `json:"id"`         // alerts.id
	PolicyID  string    `json:"policy_id"`  // alerts.policy_id
	AlertType string    `json:"alert_type"` // alerts.alert_type
	Message   string    `json:"message"`    // alerts.message
	Priority  string    `json:"priority"`   // alerts.priority: low|medium|high
	IsRead    bool      `json:"is_read"`    // alerts.is_read
	IsSent    bool      `json:"is_sent"`    // alerts.is_sent
	CreatedAt time.Time `json:"created_at"` // alerts.created_at
}
