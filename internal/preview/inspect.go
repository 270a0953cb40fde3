package preview

import (
	"bytes"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/sistemamedi/medupload/internal/model"
)

// Inspect returns the format, dimensions and EXIF summary of an image.
// Unknown formats yield a zero ImageInfo; images without EXIF have a nil
// EXIF summary.
func Inspect(data []byte) model.ImageInfo {
	var info model.ImageInfo

	if cfg, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Format = format
		info.Width = cfg.Width
		info.Height = cfg.Height
	}

	info.EXIF = extractEXIF(data)
	return info
}

// InspectDataURI inspects the image embedded in a base64 data URI.
func InspectDataURI(uri string) (model.ImageInfo, error) {
	_, data, err := DecodeDataURI(uri)
	if err != nil {
		return model.ImageInfo{}, err
	}
	return Inspect(data), nil
}

// extractEXIF returns the EXIF summary of data, or nil when the image has
// no readable EXIF block.
func extractEXIF(data []byte) *model.EXIFSummary {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	summary := summarizeEXIF(entries)
	if summary.IsEmpty() {
		return nil
	}
	return summary
}

// summarizeEXIF keeps the tags shown next to a preview. The original
// capture time wins over the digitized and modification times.
func summarizeEXIF(entries []exif.ExifTag) *model.EXIFSummary {
	summary := &model.EXIFSummary{}
	var digitized, modified string

	for _, entry := range entries {
		value := strings.TrimSpace(entry.Formatted)

		switch entry.TagName {
		case "Make":
			summary.Make = value
		case "Model":
			summary.Model = value
		case "Software", "ProcessingSoftware":
			if summary.Software == "" {
				summary.Software = value
			}
		case "DateTimeOriginal":
			summary.Taken = value
		case "DateTimeDigitized":
			digitized = value
		case "DateTime":
			modified = value
		case "GPSLatitude", "GPSLongitude":
			summary.HasGPS = true
		}
	}

	if summary.Taken == "" {
		summary.Taken = digitized
	}
	if summary.Taken == "" {
		summary.Taken = modified
	}
	return summary
}
