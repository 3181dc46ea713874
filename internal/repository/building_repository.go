package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrBuildingNotFound is returned when a building cannot be found in the DB.
var ErrBuildingNotFound = errors.New("building not found")

// BuildingRepo encapsulates all database queries related to buildings.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo constructs a BuildingRepo with the provided DB handle.
func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

const buildingCols = `id, name, address, COALESCE(notes,''), primary_agent_id, created_at, updated_at`

func scanBuilding(row interface{ Scan(...any) error }) (*model.Building, error) {
	var b model.Building
	var agent sql.NullString
	if err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Notes, &agent, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if agent.Valid {
		b.PrimaryAgentID = &agent.String
	}
	return &b, nil
}

// Create inserts a new building.  PrimaryAgentID may be nil for an
// unassigned building.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	const qInsert = `INSERT INTO buildings (id, name, address, notes, primary_agent_id) VALUES (?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, b.ID, b.Name, b.Address, b.Notes, b.PrimaryAgentID); err != nil {
		return err
	}
	const qSelect = `SELECT created_at, updated_at FROM buildings WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a building by id.  ErrBuildingNotFound is returned
// when no row exists.
func (r *BuildingRepo) GetByID(ctx context.Context, id string) (*model.Building, error) {
	b, err := scanBuilding(r.db.QueryRowContext(ctx,
		`SELECT `+buildingCols+` FROM buildings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	return b, err
}

// List returns buildings ordered by name.  When agentID is non-empty
// only buildings whose primary agent matches are returned; the literal
// value "unassigned" selects buildings with no primary agent.
func (r *BuildingRepo) List(ctx context.Context, agentID string) ([]model.Building, error) {
	q := `SELECT ` + buildingCols + ` FROM buildings`
	args := []any{}
	switch agentID {
	case "":
	case "unassigned":
		q += ` WHERE primary_agent_id IS NULL`
	default:
		q += ` WHERE primary_agent_id = ?`
		args = append(args, agentID)
	}
	q += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Building{}
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Update changes name, address and notes of a building.
// ErrBuildingNotFound is returned when the building does not exist.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	if _, err := r.GetByID(ctx, b.ID); err != nil {
		return err
	}
	const q = `UPDATE buildings SET name = ?, address = ?, notes = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, b.Name, b.Address, b.Notes, b.ID)
	return err
}

// SetPrimaryAgent persists a reassignment.  agentID nil moves the
// building to the unassigned bucket.  The caller is expected to have
// validated both ids already; a vanished building still reports
// ErrBuildingNotFound.  Reassigning to the current agent is a no-op
// and not an error, so the existence check cannot rely on RowsAffected.
func (r *BuildingRepo) SetPrimaryAgent(ctx context.Context, buildingID string, agentID *string) error {
	if _, err := r.GetByID(ctx, buildingID); err != nil {
		return err
	}
	const q = `UPDATE buildings SET primary_agent_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, agentID, buildingID)
	return err
}

// Delete removes a building.  ErrConflict is returned while policies
// still reference it; delete or move those first.
func (r *BuildingRepo) Delete(ctx context.Context, id string) error {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM policies WHERE building_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBuildingNotFound
	}
	return nil
}
