package queue

// BuildingReassignedEvent is published when a building moves between
// agents on the assignment board.  It carries both sides of the move so
// downstream consumers can log or notify without querying the primary
// database; "unassigned" stands in for a missing agent on either side.
type BuildingReassignedEvent struct {
	BuildingID   string `json:"building_id"`
	BuildingName string `json:"building_name"`
	FromAgentID  string `json:"from_agent_id"`
	ToAgentID    string `json:"to_agent_id"`
	ToAgentName  string `json:"to_agent_name"`
	MovedBy      string `json:"moved_by"` // user id of the staff member who dragged the card
	MovedAt      string `json:"moved_at"`
}

// PolicyExpiringEvent is published by the renewal scanner for each
// fresh alert it creates.
type PolicyExpiringEvent struct {
	PolicyID       string `json:"policy_id"`
	PolicyNumber   string `json:"policy_number"`
	BuildingID     string `json:"building_id"`
	BuildingName   string `json:"building_name"`
	Carrier        string `json:"carrier"`
	ExpirationDate string `json:"expiration_date"`
	DaysLeft       int    `json:"days_left"`
	Priority       string `json:"priority"`
	ScannedAt      string `json:"scanned_at"`
}
