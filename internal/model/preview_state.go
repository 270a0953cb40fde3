package model

// PreviewState is the state of the image-preview element.
type PreviewState struct {
	// Visible is true when the preview element is displayed.
	Visible bool `json:"visible"`

	// Source is the image source, a data URI. Empty when absent.
	Source string `json:"source,omitempty"`
}
