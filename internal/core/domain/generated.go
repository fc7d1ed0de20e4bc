package domain

import (
	"fmt"
)

// GeneratedRecord is the shape every provider must coerce its raw
// backend output into before it crosses into persistence. A nil Title
// means the backend produced no title for the item.
type GeneratedRecord struct {
	Title       *string `json:"title,omitempty"`
	Description string  `json:"description"`
}

// GeneratedResponse is the aggregate provider output.
type GeneratedResponse struct {
	Records []GeneratedRecord `json:"records"`
}

// Validate checks the response against the record schema. It is the
// single validation point applied after each provider's raw-extraction
// step; a backend's own schema enforcement is never trusted as
// sufficient. An empty record list is valid.
func (r *GeneratedResponse) Validate() error {
	if r == nil {
		return fmt.Errorf("response is nil")
	}
	for i, rec := range r.Records {
		if rec.Description == "" {
			return fmt.Errorf("record %d: description must not be empty", i)
		}
	}
	return nil
}
