package repository

import (
	"context"
	"strings"
)

// PolicySearchQuery defines filters & pagination for searching policies.
type PolicySearchQuery struct {
	Term     string
	Coverage string
	Carrier  string
	Page     int
	PageSize int
}

// PolicySearchRow is one search hit, denormalized with the building and
// agent names so the dashboard can render results without extra lookups.
type PolicySearchRow struct {
	ID             string  `json:"id"`
	PolicyNumber   string  `json:"policy_number"`
	Carrier        string  `json:"carrier"`
	CoverageType   string  `json:"coverage_type"`
	ExpirationDate string  `json:"expiration_date"`
	PremiumAnnual  float64 `json:"premium_annual"`
	BuildingID     string  `json:"building_id"`
	BuildingName   string  `json:"building_name"`
	AgentID        string  `json:"agent_id"`
	AgentName      string  `json:"agent_name"`
	Status         string  `json:"status"` // filled in by the handler
}

// Suggestions returns completions for a partial query, drawn from
// policy numbers, carriers, building names and agent names.  UNION
// deduplicates values that appear in more than one source.
func (r *PolicyRepo) Suggestions(ctx context.Context, term string, limit int) ([]string, error) {
	like := strings.ToLower(strings.TrimSpace(term)) + "%"

	const query = `SELECT v FROM (
			SELECT policy_number AS v FROM policies WHERE LOWER(policy_number) LIKE ?
			UNION
			SELECT carrier FROM policies WHERE LOWER(carrier) LIKE ?
			UNION
			SELECT name FROM buildings WHERE LOWER(name) LIKE ?
			UNION
			SELECT name FROM agents WHERE LOWER(name) LIKE ?
		) s
		ORDER BY v
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, like, like, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches the free-text term against policy number, carrier,
// building name, agent name and history notes, case-insensitively.
// Coverage and
// Carrier narrow the result when set.  Agents are left-joined so a
// policy whose agent was deleted still turns up with an empty agent
// name.
func (r *PolicyRepo) Search(ctx context.Context, q PolicySearchQuery) ([]PolicySearchRow, int64, error) {
	where := []string{}
	args := []any{}

	if q.Term != "" {
		like := "%" + strings.ToLower(q.Term) + "%"
		where = append(where, `(LOWER(p.policy_number) LIKE ?
			OR LOWER(p.carrier) LIKE ?
			OR LOWER(b.name) LIKE ?
			OR LOWER(a.name) LIKE ?
			OR EXISTS (SELECT 1 FROM policy_history h
				WHERE h.policy_id = p.id AND LOWER(h.note) LIKE ?))`)
		args = append(args, like, like, like, like, like)
	}
	if q.Coverage != "" {
		where = append(where, "p.coverage_type = ?")
		args = append(args, q.Coverage)
	}
	if q.Carrier != "" {
		where = append(where, "LOWER(p.carrier) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Carrier)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	countSQL := `SELECT COUNT(*)
		FROM policies p
		JOIN buildings b    ON b.id = p.building_id
		LEFT JOIN agents a  ON a.id = p.agent_id
		WHERE ` + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT
			p.id,
			p.policy_number,
			p.carrier,
			p.coverage_type,
			DATE_FORMAT(p.expiration_date, '%Y-%m-%d') AS expiration_date,
			p.premium_annual,
			b.id   AS building_id,
			b.name AS building_name,
			p.agent_id,
			COALESCE(a.name, '') AS agent_name
		FROM policies p
		JOIN buildings b    ON b.id = p.building_id
		LEFT JOIN agents a  ON a.id = p.agent_id
		WHERE ` + cond + `
		ORDER BY p.expiration_date ASC, p.id
		LIMIT ? OFFSET ?`

	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PolicySearchRow, 0, limit)
	for rows.Next() {
		var d PolicySearchRow
		if err := rows.Scan(
			&d.ID,
			&d.PolicyNumber,
			&d.Carrier,
			&d.CoverageType,
			&d.ExpirationDate,
			&d.PremiumAnnual,
			&d.BuildingID,
			&d.BuildingName,
			&d.AgentID,
			&d.AgentName,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
