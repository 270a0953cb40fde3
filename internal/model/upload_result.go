package model

import "time"

// UploadResult records one submission for reporting.
type UploadResult struct {
	// File is the submitted file. Zero when nothing was selected.
	File SelectedFile `json:"file"`

	// State is the final submission state ("succeeded", "failed", "idle").
	State string `json:"state"`

	// Status is the HTTP status code, zero when no response arrived.
	Status int `json:"status,omitempty"`

	// RequestID is the X-Request-ID sent with the request.
	RequestID string `json:"requestId,omitempty"`

	// Fingerprint is the hex SHA3-256 digest of the file content.
	Fingerprint string `json:"sha3_256,omitempty"`

	// Text is the response text shown to the user.
	Text string `json:"text"`

	// Response is the typed view of a JSON reply, nil otherwise.
	Response *UploadResponse `json:"response,omitempty"`

	// Error describes the failure of a failed submission.
	Error string `json:"error,omitempty"`

	// Duration is the time spent on the submission.
	Duration time.Duration `json:"duration"`
}

// Succeeded reports whether the server replied with a JSON document.
func (r *UploadResult) Succeeded() bool {
	return r.State == "succeeded"
}

// UploadReport groups the results of one upload run.
type UploadReport struct {
	// Endpoint is the resolved upload URL.
	Endpoint string `json:"endpoint"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"startedAt"`

	// Results are in command-line order.
	Results []UploadResult `json:"results"`
}

// NewUploadReport creates an empty report for endpoint.
func NewUploadReport(endpoint string) *UploadReport {
	return &UploadReport{
		Endpoint:  endpoint,
		StartedAt: time.Now(),
		Results:   make([]UploadResult, 0),
	}
}

// SucceededCount returns the number of successful submissions.
func (r *UploadReport) SucceededCount() int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Succeeded() {
			n++
		}
	}
	return n
}

// FailedCount returns the number of submissions that did not succeed.
func (r *UploadReport) FailedCount() int {
	return len(r.Results) - r.SucceededCount()
}

// HasFailures reports whether any submission did not succeed.
func (r *UploadReport) HasFailures() bool {
	return r.FailedCount() > 0
}
