package model

import "time"

// Status is the derived lifecycle state of a policy.  It is never
// stored: the API recomputes it from the expiration date on every read
// so there is no stale cached state to invalidate.
type Status string

const (
	StatusActive       Status = "active"        // more than the renewal window away from expiry
	StatusExpiringSoon Status = "expiring-soon" // expires within the renewal window (inclusive)
	StatusExpired      Status = "expired"       // expiration date is in the past
	StatusMissing      Status = "missing"       // no policy exists for a required coverage slot
)

// CoverageType categorizes the insurance risk a policy addresses.
type CoverageType string

const (
	CoverageGeneralLiability CoverageType = "general-liability"
	CoverageProperty         CoverageType = "property"
	CoverageUmbrella         CoverageType = "umbrella"
	CoverageFlood            CoverageType = "flood"
	CoverageEarthquake       CoverageType = "earthquake"
	CoverageWorkersComp      CoverageType = "workers-comp"
)

// CoverageTypes lists every known coverage type.  The order is the
// order coverage gaps are reported in.
var CoverageTypes = []CoverageType{
	CoverageGeneralLiability,
	CoverageProperty,
	CoverageUmbrella,
	CoverageFlood,
	CoverageEarthquake,
	CoverageWorkersComp,
}

// KnownCoverageType reports whether t is one of the supported coverage types.
func KnownCoverageType(t CoverageType) bool {
	for _, ct := range CoverageTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// Policy represents one insurance contract covering one building.
// Effective and expiration dates are calendar dates carried as
// ISO-8601 strings (YYYY-MM-DD) exactly as they arrive from carriers
// and document extraction; parsing happens at classification time so
// an unparseable date degrades to StatusMissing instead of failing a
// whole listing.
//
// Fields:
//  ID             – UUID primary key.
//  BuildingID     – building the contract covers.
//  AgentID        – agent administering the contract.
//  CoverageType   – risk category, see CoverageType constants.
//  PolicyNumber   – carrier-issued number, human readable.
//  Carrier        – issuing carrier name.
//  EffectiveDate  – ISO date coverage begins.
//  ExpirationDate – ISO date coverage ends; must be after EffectiveDate.
//  Limits         – coverage limits keyed by a carrier-specific schema.
//  Deductibles    – deductibles keyed by a carrier-specific schema.
//  PremiumAnnual  – annual premium, non-negative.
//  Status         – derived lifecycle state, populated on read only.
//  CreatedAt      – timestamp when the record was entered.
//  UpdatedAt      – timestamp of last update.
type Policy struct {
	ID             string             `json:"id"`              // policies.id
	BuildingID     string             `json:"building_id"`     // policies.building_id
	AgentID        string             `json:"agent_id"`        // policies.agent_id
	CoverageType   CoverageType       `json:"coverage_type"`   // policies.coverage_type
	PolicyNumber   string             `json:"policy_number"`   // policies.policy_number
	Carrier        string             `json:"carrier"`         // policies.carrier
	EffectiveDate  string             `json:"effective_date"`  // policies.effective_date
	ExpirationDate string             `json:"expiration_date"` // policies.expiration_date
	Limits         map[string]float64 `json:"limits"`          // decoded policies.limits_json
	Deductibles    map[string]float64 `json:"deductibles"`     // decoded policies.deductibles_json
	PremiumAnnual  float64            `json:"premium_annual"`  // policies.premium_annual
	Status         Status             `json:"status"`          // derived, never persisted
	CreatedAt      time.Time          `json:"created_at"`      // policies.created_at
	UpdatedAt      time.Time          `json:"updated_at"`      // policies.updated_at
}
