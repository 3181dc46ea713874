package model

import "time"

// Building is a property under management.  A building holds zero or
// more policies (one per coverage type is typical) and has at most one
// primary agent.  A nil PrimaryAgentID means the building is
// unassigned and appears in the synthetic "unassigned" bucket on the
// assignment board.
//
// Fields:
//  ID             – UUID primary key.
//  Name           – display name of the property.
//  Address        – street address.
//  Notes          – optional free-text notes.
//  PrimaryAgentID – id of the agent currently accountable, nil when unassigned.
//  CreatedAt      – timestamp when the building was created.
//  UpdatedAt      – timestamp of last update.
type Building struct {
	ID             string    `json:"id"`                         // buildings.id
	Name           string    `json:"name"`                       // buildings.name
	Address        string    `json:"address"`                    // buildings.address
	Notes          string    `json:"notes,omitempty"`            // buildings.notes
	PrimaryAgentID *string   `json:"primary_agent_id,omitempty"` // buildings.primary_agent_id
	CreatedAt      time.Time `json:"created_at"`                 // buildings.created_at
	UpdatedAt      time.Time `json:"updated_at"`                 // buildings.updated_at
}
