package preview

import "errors"

var (
	// ErrPreviewTooLarge is returned when an image exceeds the preview size limit.
	ErrPreviewTooLarge = errors.New("image too large to preview")

	// ErrInvalidDataURI is returned when a string is not a base64 data URI.
	ErrInvalidDataURI = errors.New("invalid data URI")
)
