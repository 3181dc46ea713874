package model

import "time"

// Agent represents a person or brokerage responsible for one or more
// buildings' insurance programs.  Buildings reference an agent through
// their primary_agent_id column, and policies reference the agent that
// administers them through policies.agent_id.  The two relationships
// are independent: a policy's agent does not have to match the primary
// agent of the building it covers.
//
// Fields:
//  ID        – UUID primary key.
//  Name      – contact name of the agent.
//  Company   – brokerage or agency the agent works for.
//  Email     – address renewal notifications are sent to.
//  Phone     – contact phone number.
//  CreatedAt – timestamp when the agent was created.
//  UpdatedAt – timestamp of last update.
type Agent struct {
	ID        string    `json:"id"`         // agents.id
	Name      string    `json:"name"`       // agents.name
	Company   string    `json:"company"`    // agents.company
	Email     string    `json:"email"`      // agents.email
	Phone     string    `json:"phone"`      // agents.phone
	CreatedAt time.Time `json:"created_at"` // agents.created_at
	UpdatedAt time.Time `json:"updated_at"` // agents.updated_at
}
