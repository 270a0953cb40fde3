package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used when a file has no declared type.
const DefaultMIMEType = "application/octet-stream"

// sniffLength is the number of leading bytes inspected by http.DetectContentType.
const sniffLength = 512

var (
	// ErrNotRegularFile is returned when a selected path is a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNoContent is returned when a SelectedFile has no content source.
	ErrNoContent = errors.New("selected file has no content")
)

// extraTypes covers extensions that the platform MIME table usually lacks
// but that the upload endpoint accepts.
var extraTypes = map[string]string{
	".dcm":   "application/dicom",
	".dicom": "application/dicom",
}

// SelectedFile is the user's chosen file as exposed by the file-input
// control. It is read-only: the name, declared type and size are fixed at
// selection time and the content can be opened any number of times.
type SelectedFile struct {
	// Name is the base name of the file, without directories.
	Name string `json:"name"`

	// Type is the declared MIME type without parameters (e.g. "image/png").
	// It may be empty when the type is unknown.
	Type string `json:"type"`

	// Size is the content length in bytes.
	Size int64 `json:"size"`

	open func() (io.ReadCloser, error)
}

// NewSelectedFile creates a SelectedFile backed by an in-memory copy of content.
func NewSelectedFile(name, mimeType string, content []byte) *SelectedFile {
	data := bytes.Clone(content)
	return &SelectedFile{
		Name: filepath.Base(name),
		Type: normalizeType(mimeType),
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewSelectedFileWithOpener creates a SelectedFile whose content is
// produced by open on every call to Open.
func NewSelectedFileWithOpener(name, mimeType string, size int64, open func() (io.ReadCloser, error)) *SelectedFile {
	return &SelectedFile{
		Name: filepath.Base(name),
		Type: normalizeType(mimeType),
		Size: size,
		open: open,
	}
}

// OpenSelectedFile creates a SelectedFile for a file on disk.
// The declared type is derived from the extension and, when the extension
// is unknown, sniffed from the first bytes of the file.
func OpenSelectedFile(path string) (*SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	f := &SelectedFile{
		Name: filepath.Base(path),
		Type: DeclaredType(path),
		Size: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // User-selected file is intentional
		},
	}

	if f.Type == "" {
		sniffed, err := sniffType(f)
		if err != nil {
			return nil, err
		}
		f.Type = sniffed
	}

	return f, nil
}

// Open returns a reader over the file content. The caller must close it.
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, ErrNoContent
	}
	return f.open()
}

// IsImage reports whether the declared MIME type starts with "image/".
func (f *SelectedFile) IsImage() bool {
	return f != nil && strings.HasPrefix(f.Type, "image/")
}

// ContentType returns the declared type, or DefaultMIMEType when it is empty.
func (f *SelectedFile) ContentType() string {
	if f == nil || f.Type == "" {
		return DefaultMIMEType
	}
	return f.Type
}

// DeclaredType returns the MIME type associated with the extension of path,
// without parameters. It returns an empty string for unknown extensions.
func DeclaredType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	return normalizeType(mime.TypeByExtension(ext))
}

// sniffType detects the content type from the leading bytes of f.
// The generic octet-stream and plain-text answers are kept as-is, matching
// what a browser would report for an unknown binary or text file.
func sniffType(f *SelectedFile) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head := make([]byte, sniffLength)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return normalizeType(http.DetectContentType(head[:n])), nil
}

// normalizeType lowercases a media type and strips its parameters.
func normalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return strings.ToLower(t)
	}
	return mediaType
}
