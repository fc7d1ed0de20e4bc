package generation

import (
	"prompt-records/internal/core/domain"
)

// SubmitResult is what a successful submission returns: the created
// prompt and the freshly persisted records read back from storage.
type SubmitResult struct {
	Prompt  *domain.Prompt  `json:"prompt"`
	Records []domain.Record `json:"records"`
}

// UpdateRecordInput carries an explicit record update. Description is
// mandatory; a nil Title maps to NULL while an explicit empty string
// is preserved as-is.
type UpdateRecordInput struct {
	Title       *string `json:"title,omitempty"`
	Description string  `json:"description"`
}
