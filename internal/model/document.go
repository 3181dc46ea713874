package model

import "time"

// PolicyFile is an uploaded document attached to a policy.  ParsedText
// holds the text layer extracted at ingestion time (empty for binary
// uploads with no text layer) and ParsedMetadata the fields the
// extractor pulled out of it, with a 0..1 confidence score.
type PolicyFile struct {
	ID               string            `json:"id"`                // policy_files.id
	PolicyID         string            `json:"policy_id"`         // policy_files.policy_id
	BuildingID       string            `json:"building_id"`       // policy_files.building_id
	Filename         string            `json:"filename"`          // stored name on disk
	OriginalFilename string            `json:"original_filename"` // name as uploaded
	FilePath         string            `json:"file_path"`         // path under the upload dir
	FileSize         int64             `json:"file_size"`         // bytes
	ContentType      string            `json:"content_type"`      // MIME type as uploaded
	ParsedText       string            `json:"-"`                 // extracted text, omitted from listings
	ParsedMetadata   map[string]string `json:"parsed_metadata"`   // decoded parsed_metadata_json
	ConfidenceScore  float64           `json:"confidence_score"`  // extractor confidence 0..1
	CreatedAt        time.Time         `json:"created_at"`        // policy_files.created_at
}

// PolicyHistory is one entry in a policy's audit trail: a user note,
// optionally referencing an uploaded file.
type PolicyHistory struct {
	ID        string    `json:"id"`                // policy_history.id
	PolicyID  string    `json:"policy_id"`         // policy_history.policy_id
	Note      string    `json:"note"`              // policy_history.note
	FileID    *string   `json:"file_id,omitempty"` // policy_history.file_id
	CreatedAt time.Time `json:"created_at"`        // policy_history.created_at
}
