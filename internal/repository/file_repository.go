package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
)

// ErrFileNotFound is returned when an uploaded file record is missing.
var ErrFileNotFound = errors.New("file not found")

// FileRepo encapsulates all database queries related to uploaded
// policy documents.  Extracted metadata is stored as JSON text next to
// the parsed text layer.
type FileRepo struct {
	db *sql.DB
}

// NewFileRepo constructs a FileRepo with the provided DB handle.
func NewFileRepo(db *sql.DB) *FileRepo {
	return &FileRepo{db: db}
}

const fileCols = `id, COALESCE(policy_id,''), COALESCE(building_id,''), filename, original_filename,
	file_path, file_size, COALESCE(content_type,''), COALESCE(parsed_text,''),
	COALESCE(parsed_metadata_json,''), confidence_score, created_at`

func scanFile(row interface{ Scan(...any) error }) (*model.PolicyFile, error) {
	var f model.PolicyFile
	var meta string
	if err := row.Scan(&f.ID, &f.PolicyID, &f.BuildingID, &f.Filename, &f.OriginalFilename,
		&f.FilePath, &f.FileSize, &f.ContentType, &f.ParsedText, &meta,
		&f.ConfidenceScore, &f.CreatedAt); err != nil {
		return nil, err
	}
	if meta != "" {
		_ = json.Unmarshal([]byte(meta), &f.ParsedMetadata)
	}
	return &f, nil
}

// Create inserts a file record.  Empty PolicyID / BuildingID are
// stored as NULL so a document can be uploaded before it is linked.
func (r *FileRepo) Create(ctx context.Context, f *model.PolicyFile) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	var policyID, buildingID any
	if f.PolicyID != "" {
		policyID = f.PolicyID
	}
	if f.BuildingID != "" {
		buildingID = f.BuildingID
	}
	meta := "{}"
	if len(f.ParsedMetadata) > 0 {
		b, err := json.Marshal(f.ParsedMetadata)
		if err != nil {
			return err
		}
		meta = string(b)
	}
	const qInsert = `INSERT INTO policy_files
		(id, policy_id, building_id, filename, original_filename, file_path,
		 file_size, content_type, parsed_text, parsed_metadata_json, confidence_score)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`
	if _, err := r.db.ExecContext(ctx, qInsert, f.ID, policyID, buildingID, f.Filename,
		f.OriginalFilename, f.FilePath, f.FileSize, f.ContentType, f.ParsedText,
		meta, f.ConfidenceScore); err != nil {
		return err
	}
	const qSelect = `SELECT created_at FROM policy_files WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, f.ID).Scan(&f.CreatedAt)
}

// GetByID fetches a file record by id, parsed text included.
func (r *FileRepo) GetByID(ctx context.Context, id string) (*model.PolicyFile, error) {
	f, err := scanFile(r.db.QueryRowContext(ctx,
		`SELECT `+fileCols+` FROM policy_files WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	return f, err
}

// ListByPolicy returns file records attached to a policy, newest first.
func (r *FileRepo) ListByPolicy(ctx context.Context, policyID string) ([]model.PolicyFile, error) {
	const q = `SELECT ` + fileCols + ` FROM policy_files WHERE policy_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, q, policyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PolicyFile{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
