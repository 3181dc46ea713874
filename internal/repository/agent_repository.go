package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrAgentNotFound is returned when an agent cannot be found in the DB.
var ErrAgentNotFound = errors.New("agent not found")

// AgentRepo encapsulates all database queries related to agents.
type AgentRepo struct {
	db *sql.DB
}

// NewAgentRepo constructs an AgentRepo with the provided DB handle.
func NewAgentRepo(db *sql.DB) *AgentRepo {
	return &AgentRepo{db: db}
}

// Create inserts a new agent.  A fresh UUID is assigned when the ID
// field is empty; after the insert a follow-up SELECT populates the
// timestamp fields so callers receive a fully populated record.
func (r *AgentRepo) Create(ctx context.Context, a *model.Agent) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	const qInsert = `INSERT INTO agents (id, name, company, email, phone) VALUES (?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, a.ID, a.Name, a.Company, a.Email, a.Phone); err != nil {
		return err
	}
	const qSelect = `SELECT created_at, updated_at FROM agents WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an agent by id.  ErrAgentNotFound is returned when
// no row exists.
func (r *AgentRepo) GetByID(ctx context.Context, id string) (*model.Agent, error) {
	const q = `SELECT id, name, company, email, phone, created_at, updated_at FROM agents WHERE id = ?`
	var a model.Agent
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Name, &a.Company, &a.Email, &a.Phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all agents ordered by name.
func (r *AgentRepo) List(ctx context.Context) ([]model.Agent, error) {
	const q = `SELECT id, name, company, email, phone, created_at, updated_at
	           FROM agents ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Agent{}
	for rows.Next() {
		var a model.Agent
		if err := rows.Scan(&a.ID, &a.Name, &a.Company, &a.Email, &a.Phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an agent.  Buildings referencing the agent keep their
// stale primary_agent_id; the grouper resolves those to the unassigned
// bucket, so deletion never needs to cascade.  ErrAgentNotFound is
// returned when no row was removed.
func (r *AgentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAgentNotFound
	}
	return nil
}
