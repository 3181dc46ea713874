package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Seed inserts the sample portfolio the dashboard ships with: four
// agents, a handful of buildings and one policy per coverage slot that
// exists.  It is a no-op when the agents table already has rows, so it
// can be enabled in dev environments without clobbering real data.
func Seed(ctx context.Context, db *sql.DB) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil // already seeded
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	agents := [][4]string{
		{"agent-1", "Sarah Johnson", "Premier Insurance Partners", "sarah@premierinsurance.com"},
		{"agent-2", "Mike Chen", "West Coast Insurance Group", "mike@westcoastins.com"},
		{"agent-3", "Lisa Rodriguez", "California Property Shield", "lisa@capropshield.com"},
		{"agent-4", "David Park", "Metro Insurance Solutions", "david@metroins.com"},
	}
	for i, a := range agents {
		phone := fmt.Sprintf("(555) %d23-456%d", i+1, i+7)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO agents (id, name, company, email, phone) VALUES (?,?,?,?,?)`,
			a[0], a[1], a[2], a[3], phone); err != nil {
			return err
		}
	}

	buildings := []struct {
		id, name, address string
		agentID           any
	}{
		{"bld-1", "Sunset Plaza", "123 Main St, Los Angeles, CA 90210", "agent-1"},
		{"bld-2", "Harbor View Apartments", "456 Ocean Ave, Santa Monica, CA 90401", "agent-2"},
		{"bld-3", "Downtown Lofts", "789 Spring St, Los Angeles, CA 90014", "agent-1"},
		{"bld-4", "Oak Court Offices", "12 Oak Ct, Pasadena, CA 91101", nil},
	}
	for _, b := range buildings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO buildings (id, name, address, primary_agent_id) VALUES (?,?,?,?)`,
			b.id, b.name, b.address, b.agentID); err != nil {
			return err
		}
	}

	today := time.Now().UTC()
	date := func(days int) string { return today.AddDate(0, 0, days).Format("2006-01-02") }
	policies := []struct {
		id, buildingID, agentID, coverage, number, carrier string
		effective, expiration                              string
		premium                                            float64
	}{
		{"pol-1", "bld-1", "agent-1", "property", "PKG-2024-10481", "State Farm", date(-340), date(25), 48000},
		{"pol-2", "bld-1", "agent-1", "general-liability", "GL-2024-55102", "Travelers", date(-200), date(165), 21500},
		{"pol-3", "bld-2", "agent-2", "property", "CP-2025-00317", "Liberty Mutual", date(-90), date(275), 62400},
		{"pol-4", "bld-3", "agent-1", "umbrella", "UMB-2024-77881", "Chubb", date(-400), date(-35), 9800},
	}
	for _, p := range policies {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO policies
			   (id, building_id, agent_id, coverage_type, policy_number, carrier,
			    effective_date, expiration_date, limits_json, deductibles_json, premium_annual)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			p.id, p.buildingID, p.agentID, p.coverage, p.number, p.carrier,
			p.effective, p.expiration, `{"per_occurrence":1000000}`, `{"standard":25000}`, p.premium); err != nil {
			return err
		}
	}

	return tx.Commit()
}
