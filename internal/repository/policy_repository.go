package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrPolicyNotFound is returned when a policy cannot be found in the DB.
var ErrPolicyNotFound = errors.New("policy not found")

// PolicyRepo encapsulates all database queries related to policies.
// Effective and expiration dates live in DATE columns and are read back
// through DATE_FORMAT so they stay plain YYYY-MM-DD strings end to end;
// limits and deductibles are stored as JSON text.
type PolicyRepo struct {
	db *sql.DB
}

// NewPolicyRepo constructs a PolicyRepo with the provided DB handle.
func NewPolicyRepo(db *sql.DB) *PolicyRepo {
	return &PolicyRepo{db: db}
}

const policyCols = `id, building_id, agent_id, coverage_type, policy_number, carrier,
	DATE_FORMAT(effective_date, '%Y-%m-%d'), DATE_FORMAT(expiration_date, '%Y-%m-%d'),
	COALESCE(limits_json,''), COALESCE(deductibles_json,''), premium_annual, created_at, updated_at`

func scanPolicy(row interface{ Scan(...any) error }) (*model.Policy, error) {
	var p model.Policy
	var limits, deductibles string
	if err := row.Scan(&p.ID, &p.BuildingID, &p.AgentID, &p.CoverageType, &p.PolicyNumber,
		&p.Carrier, &p.EffectiveDate, &p.ExpirationDate, &limits, &deductibles,
		&p.PremiumAnnual, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	// Malformed JSON in an old row degrades to empty maps rather than
	// failing the whole listing.
	if limits != "" {
		_ = json.Unmarshal([]byte(limits), &p.Limits)
	}
	if deductibles != "" {
		_ = json.Unmarshal([]byte(deductibles), &p.Deductibles)
	}
	return &p, nil
}

func encodeAmounts(m map[string]float64) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Create inserts a new policy.  ErrConflict is returned when the same
// policy number already exists on the same building.
func (r *PolicyRepo) Create(ctx context.Context, p *model.Policy) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	var n int
	const qDup = `SELECT COUNT(*) FROM policies WHERE building_id = ? AND policy_number = ?`
	if err := r.db.QueryRowContext(ctx, qDup, p.BuildingID, p.PolicyNumber).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}

	limits, err := encodeAmounts(p.Limits)
	if err != nil {
		return err
	}
	deductibles, err := encodeAmounts(p.Deductibles)
	if err != nil {
		return err
	}

	const qInsert = `INSERT INTO policies
		(id, building_id, agent_id, coverage_type, policy_number, carrier,
		 effective_date, expiration_date, limits_json, deductibles_json, premium_annual)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, p.ID, p.BuildingID, p.AgentID, p.CoverageType,
		p.PolicyNumber, p.Carrier, p.EffectiveDate, p.ExpirationDate, limits, deductibles,
		p.PremiumAnnual); err != nil {
		return err
	}
	const qSelect = `SELECT created_at, updated_at FROM policies WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a policy by id.  ErrPolicyNotFound is returned when
// no row exists.
func (r *PolicyRepo) GetByID(ctx context.Context, id string) (*model.Policy, error) {
	p, err := scanPolicy(r.db.QueryRowContext(ctx,
		`SELECT `+policyCols+` FROM policies WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	return p, err
}

// List returns policies ordered by expiration date, soonest first.
// buildingID and agentID filter when non-empty and compose with AND.
func (r *PolicyRepo) List(ctx context.Context, buildingID, agentID string) ([]model.Policy, error) {
	q := `SELECT ` + policyCols + ` FROM policies WHERE 1=1`
	args := []any{}
	if buildingID != "" {
		q += ` AND building_id = ?`
		args = append(args, buildingID)
	}
	if agentID != "" {
		q += ` AND agent_id = ?`
		args = append(args, agentID)
	}
	q += ` ORDER BY expiration_date, id`
	return r.collect(ctx, q, args...)
}

// ExpiringWithin returns policies whose expiration date falls strictly
// after today and at most days calendar days out.  Used by the renewal
// scanner; already-expired policies are excluded because an alert
// cannot help with those anymore.
func (r *PolicyRepo) ExpiringWithin(ctx context.Context, days int) ([]model.Policy, error) {
	const q = `SELECT ` + policyCols + ` FROM policies
		WHERE expiration_date > CURDATE()
		  AND expiration_date <= DATE_ADD(CURDATE(), INTERVAL ? DAY)
		ORDER BY expiration_date, id`
	return r.collect(ctx, q, days)
}

func (r *PolicyRepo) collect(ctx context.Context, q string, args ...any) ([]model.Policy, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Policy{}
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable fields of a policy.  ErrPolicyNotFound
// is returned when the policy does not exist.
func (r *PolicyRepo) Update(ctx context.Context, p *model.Policy) error {
	if _, err := r.GetByID(ctx, p.ID); err != nil {
		return err
	}
	limits, err := encodeAmounts(p.Limits)
	if err != nil {
		return err
	}
	deductibles, err := encodeAmounts(p.Deductibles)
	if err != nil {
		return err
	}
	const q = `UPDATE policies SET agent_id = ?, coverage_type = ?, policy_number = ?, carrier = ?,
		effective_date = ?, expiration_date = ?, limits_json = ?, deductibles_json = ?, premium_annual = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, p.AgentID, p.CoverageType, p.PolicyNumber, p.Carrier,
		p.EffectiveDate, p.ExpirationDate, limits, deductibles, p.PremiumAnnual, p.ID)
	return err
}

// Delete removes a policy along with its alerts, claims and history
// entries.  Uploaded files survive, unlinked, so documents are never
// lost to a mistyped delete.  ErrPolicyNotFound is returned when no
// policy row was removed.
func (r *PolicyRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		`DELETE FROM alerts WHERE policy_id = ?`,
		`DELETE FROM claims WHERE policy_id = ?`,
		`DELETE FROM policy_history WHERE policy_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM policies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPolicyNotFound
	}
	return tx.Commit()
}

// CountsByBuilding returns the number of policies per building id, used
// by the buildings listing to annotate each card without N+1 queries.
func (r *PolicyRepo) CountsByBuilding(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT building_id, COUNT(*) FROM policies GROUP BY building_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
