package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrAlertNotFound is returned when an alert cannot be found in the DB.
var ErrAlertNotFound = errors.New("alert not found")

// AlertRepo encapsulates all database queries related to renewal alerts.
type AlertRepo struct {
	db *sql.DB
}

// NewAlertRepo constructs an AlertRepo with the provided DB handle.
func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

const alertCols = `id, policy_id, alert_type, message, priority, is_read, is_sent, created_at`

func scanAlert(row interface{ Scan(...any) error }) (*model.Alert, error) {
	var a model.Alert
	if err := row.Scan(&a.ID, &a.PolicyID, &a.AlertType, &a.Message, &a.Priority,
		&a.IsRead, &a.IsSent, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateIfAbsent inserts an alert unless an unread alert of the same
// type already exists for the policy.  The scanner runs on a timer, so
// without this guard every pass would duplicate its previous output.
// It reports whether a row was actually inserted.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, a *model.Alert) (bool, error) {
	var n int
	const qDup = `SELECT COUNT(*) FROM alerts WHERE policy_id = ? AND alert_type = ? AND is_read = 0`
	if err := r.db.QueryRowContext(ctx, qDup, a.PolicyID, a.AlertType).Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	const qInsert = `INSERT INTO alerts (id, policy_id, alert_type, message, priority) VALUES (?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, a.ID, a.PolicyID, a.AlertType, a.Message, a.Priority); err != nil {
		return false, err
	}
	return true, nil
}

// ListUnread returns unread alerts, most urgent and newest first.
func (r *AlertRepo) ListUnread(ctx context.Context) ([]model.Alert, error) {
	const q = `SELECT ` + alertCols + ` FROM alerts WHERE is_read = 0
		ORDER BY FIELD(priority, 'high', 'medium', 'low'), created_at DESC, id`
	return r.collect(ctx, q)
}

// ListAll returns every alert, read or not, most urgent and newest
// first.
func (r *AlertRepo) ListAll(ctx context.Context) ([]model.Alert, error) {
	const q = `SELECT ` + alertCols + ` FROM alerts
		ORDER BY FIELD(priority, 'high', 'medium', 'low'), created_at DESC, id`
	return r.collect(ctx, q)
}

// ListUnsent returns alerts at or above medium priority whose email
// notification has not gone out yet.
func (r *AlertRepo) ListUnsent(ctx context.Context) ([]model.Alert, error) {
	const q = `SELECT ` + alertCols + ` FROM alerts
		WHERE is_sent = 0 AND priority IN ('high', 'medium')
		ORDER BY FIELD(priority, 'high', 'medium'), created_at, id`
	return r.collect(ctx, q)
}

func (r *AlertRepo) collect(ctx context.Context, q string, args ...any) ([]model.Alert, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// MarkRead acknowledges an alert from the dashboard.  Marking an
// already-read alert succeeds quietly; ErrAlertNotFound is reserved for
// ids that do not exist.
func (r *AlertRepo) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE alerts SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM alerts WHERE id = ?`, id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrAlertNotFound
		}
	}
	return nil
}

// MarkSent records that the email notification for an alert went out.
func (r *AlertRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET is_sent = 1 WHERE id = ?`, id)
	return err
}

// PruneRead deletes read alerts older than the given number of days and
// returns how many rows were removed.
func (r *AlertRepo) PruneRead(ctx context.Context, olderThanDays int) (int64, error) {
	const q = `DELETE FROM alerts WHERE is_read = 1 AND created_at < DATE_SUB(NOW(), INTERVAL ? DAY)`
	res, err := r.db.ExecContext(ctx, q, olderThanDays)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
