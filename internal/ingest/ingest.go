package ingest

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/repository"
)

// Service stores uploaded policy documents under UploadDir, runs the
// metadata extractor over text uploads and records the result.  When
// the document is attached to a policy a history entry is appended so
// the audit trail shows who filed what.
type Service struct {
	UploadDir string
	Files     *repository.FileRepo
	History   *repository.HistoryRepo
}

// NewService constructs an ingestion Service.
func NewService(uploadDir string, files *repository.FileRepo, history *repository.HistoryRepo) *Service {
	return &Service{UploadDir: uploadDir, Files: files, History: history}
}

// Store saves an uploaded file to disk and its record to the database.
// policyID and buildingID may be empty for unlinked uploads.  The
// stored filename is a UUID with the original extension, so uploads
// can never collide or traverse out of the upload directory.
func (s *Service) Store(ctx context.Context, fh *multipart.FileHeader, policyID, buildingID string) (*model.PolicyFile, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	stored := uuid.NewString() + ext
	path := filepath.Join(s.UploadDir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write file: %w", err)
	}

	rec := &model.PolicyFile{
		PolicyID:         policyID,
		BuildingID:       buildingID,
		Filename:         stored,
		OriginalFilename: fh.Filename,
		FilePath:         path,
		FileSize:         size,
		ContentType:      fh.Header.Get("Content-Type"),
	}

	// Extraction runs over the text layer only.  PDF and other binary
	// formats have no text layer here, so they land with confidence 0
	// and get reviewed by hand.
	if raw, err := os.ReadFile(path); err == nil && utf8.Valid(raw) {
		ex := Extract(string(raw))
		rec.ParsedText = string(raw)
		rec.ParsedMetadata = ex.Fields
		rec.ConfidenceScore = ex.Confidence
	}

	if err := s.Files.Create(ctx, rec); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	if policyID != "" {
		h := &model.PolicyHistory{
			PolicyID: policyID,
			Note:     fmt.Sprintf("document uploaded: %s", fh.Filename),
			FileID:   &rec.ID,
		}
		if err := s.History.Append(ctx, h); err != nil {
			return rec, err
		}
	}
	return rec, nil
}
