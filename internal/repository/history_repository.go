package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// HistoryRepo encapsulates the append-only audit trail of a policy.
// Entries are never updated or deleted individually; they go away with
// their policy.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo constructs a HistoryRepo with the provided DB handle.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append records a history entry for a policy.
func (r *HistoryRepo) Append(ctx context.Context, h *model.PolicyHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	const qInsert = `INSERT INTO policy_history (id, policy_id, note, file_id) VALUES (?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, h.ID, h.PolicyID, h.Note, h.FileID); err != nil {
		return err
	}
	const qSelect = `SELECT created_at FROM policy_history WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, h.ID).Scan(&h.CreatedAt)
}

// ListByPolicy returns history entries for a policy, newest first.
func (r *HistoryRepo) ListByPolicy(ctx context.Context, policyID string) ([]model.PolicyHistory, error) {
	const q = `SELECT id, policy_id, COALESCE(note,''), file_id, created_at
	           FROM policy_history WHERE policy_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q, policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PolicyHistory{}
	for rows.Next() {
		var h model.PolicyHistory
		var fileID sql.NullString
		if err := rows.Scan(&h.ID, &h.PolicyID, &h.Note, &fileID, &h.CreatedAt); err != nil {
			return nil, err
		}
		if fileID.Valid {
			h.FileID = &fileID.String
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
