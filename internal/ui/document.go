package ui

import "github.com/sistemamedi/medupload/internal/model"

// Document is the host page as seen by the preview and upload handlers.
// Implementations must be safe for concurrent use because preview decodes
// complete on their own goroutines.
type Document interface {
	// SetPreviewVisible shows or hides the image-preview element.
	SetPreviewVisible(visible bool)

	// SetPreviewSource sets the image source of the preview element.
	SetPreviewSource(src string)

	// SetResponseText replaces the text of the response container.
	SetResponseText(text string)

	// SelectedFile returns the first file of the file-input control,
	// or nil when nothing is selected.
	SelectedFile() *model.SelectedFile
}
