package model

import (
	"encoding/json"
	"fmt"
)

// UploadResponse is a typed view of the JSON document returned by the
// upload endpoint. The endpoint owns the shape; every field is optional
// and unknown fields are ignored. The raw document is what the user sees,
// this view only feeds summaries.
type UploadResponse struct {
	// Type is the file type detected by the server ("pdf", "png", "dicom"...).
	Type string `json:"type,omitempty"`

	// Size is the number of bytes the server received.
	Size int64 `json:"size,omitempty"`

	// Metadata holds type-specific details (pages, width/height, files...).
	Metadata map[string]any `json:"metadata,omitempty"`

	// UUID identifies the stored upload when the server keeps it.
	UUID string `json:"uuid,omitempty"`

	// Report holds fields extracted from the document.
	Report map[string]any `json:"report,omitempty"`

	// Detail is the error detail of a rejected upload. It is a string for
	// application errors and a list for request validation errors.
	Detail any `json:"detail,omitempty"`
}

// ParseUploadResponse decodes raw into an UploadResponse.
// Non-object documents are valid responses but have no typed view.
func ParseUploadResponse(raw []byte) (*UploadResponse, error) {
	var resp UploadResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &resp, nil
}

// IsRejected reports whether the server answered with an error detail.
func (r *UploadResponse) IsRejected() bool {
	return r != nil && r.Detail != nil
}

// DetailText returns Detail as text.
func (r *UploadResponse) DetailText() string {
	if r == nil || r.Detail == nil {
		return ""
	}
	if s, ok := r.Detail.(string); ok {
		return s
	}
	b, err := json.Marshal(r.Detail)
	if err != nil {
		return fmt.Sprint(r.Detail)
	}
	return string(b)
}
