package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrClaimNotFound is returned when a claim cannot be found in the DB.
var ErrClaimNotFound = errors.New("claim not found")

// ClaimRepo encapsulates all database queries related to claims.
type ClaimRepo struct {
	db *sql.DB
}

// NewClaimRepo constructs a ClaimRepo with the provided DB handle.
func NewClaimRepo(db *sql.DB) *ClaimRepo {
	return &ClaimRepo{db: db}
}

const claimCols = `id, policy_id, claim_number, COALESCE(DATE_FORMAT(date, '%Y-%m-%d'), ''),
	amount, status, COALESCE(note,''), created_at, updated_at`

func scanClaim(row interface{ Scan(...any) error }) (*model.Claim, error) {
	var c model.Claim
	if err := row.Scan(&c.ID, &c.PolicyID, &c.ClaimNumber, &c.Date, &c.Amount,
		&c.Status, &c.Note, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new claim against a policy.  An empty Date is
// stored as NULL.
func (r *ClaimRepo) Create(ctx context.Context, c *model.Claim) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	var date any
	if c.Date != "" {
		date = c.Date
	}
	const qInsert = `INSERT INTO claims (id, policy_id, claim_number, date, amount, status, note)
		VALUES (?,?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, c.ID, c.PolicyID, c.ClaimNumber, date,
		c.Amount, c.Status, c.Note); err != nil {
		return err
	}
	const qSelect = `SELECT created_at, updated_at FROM claims WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a claim by id.  ErrClaimNotFound is returned when no
// row exists.
func (r *ClaimRepo) GetByID(ctx context.Context, id string) (*model.Claim, error) {
	c, err := scanClaim(r.db.QueryRowContext(ctx,
		`SELECT `+claimCols+` FROM claims WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClaimNotFound
	}
	return c, err
}

// List returns claims across policies, newest first.  policyID and
// status filter when non-empty and compose with AND.
func (r *ClaimRepo) List(ctx context.Context, policyID, status string) ([]model.Claim, error) {
	q := `SELECT ` + claimCols + ` FROM claims WHERE 1=1`
	args := []any{}
	if policyID != "" {
		q += ` AND policy_id = ?`
		args = append(args, policyID)
	}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// ListByPolicy returns all claims filed under a policy, newest first.
func (r *ClaimRepo) ListByPolicy(ctx context.Context, policyID string) ([]model.Claim, error) {
	const q = `SELECT ` + claimCols + ` FROM claims WHERE policy_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q, policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Claim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateStatus moves a claim through its lifecycle and optionally
// replaces the note.  ErrClaimNotFound is returned when no row matched.
func (r *ClaimRepo) UpdateStatus(ctx context.Context, id, status, note string) error {
	const q = `UPDATE claims SET status = ?, note = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, note, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Distinguish "missing" from "unchanged": an update that writes
		// the same values reports zero affected rows on MySQL.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
