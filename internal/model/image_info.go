package model

// ImageInfo describes a previewed image.
type ImageInfo struct {
	// Format is the decoder name reported by the image package
	// ("png", "jpeg", "gif"). Empty when the format is not recognized.
	Format string `json:"format,omitempty"`

	// Width and Height are the pixel dimensions, zero when unknown.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// EXIF holds a summary of the embedded EXIF metadata, nil when absent.
	EXIF *EXIFSummary `json:"exif,omitempty"`
}

// HasDimensions reports whether the image size could be decoded.
func (i ImageInfo) HasDimensions() bool {
	return i.Width > 0 && i.Height > 0
}

// EXIFSummary keeps the EXIF tags worth showing next to a preview.
// Medical images are often photographed with phones, so camera and GPS
// tags are surfaced before the file leaves the machine.
type EXIFSummary struct {
	Make     string `json:"make,omitempty"`
	Model    string `json:"model,omitempty"`
	Software string `json:"software,omitempty"`
	Taken    string `json:"taken,omitempty"`
	HasGPS   bool   `json:"hasGps,omitempty"`
}

// Camera returns "Make Model" with empty parts omitted.
func (s *EXIFSummary) Camera() string {
	if s == nil {
		return ""
	}
	switch {
	case s.Make != "" && s.Model != "":
		return s.Make + " " + s.Model
	case s.Make != "":
		return s.Make
	default:
		return s.Model
	}
}

// IsEmpty reports whether no tag of interest was found.
func (s *EXIFSummary) IsEmpty() bool {
	return s == nil || (s.Make == "" && s.Model == "" && s.Software == "" && s.Taken == "" && !s.HasGPS)
}
