package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/sistemamedi/medupload/internal/model"
)

const (
	dataURIScheme  = "data:"
	base64Param    = ";base64"
	defaultURIType = "text/plain"
)

// EncodeDataURI reads file and returns its content as
// "data:<declared type>;base64,<content>", the form a browser file reader
// produces. At most maxSize bytes are read; larger files fail with
// ErrPreviewTooLarge. A maxSize of zero or less disables the limit.
func EncodeDataURI(ctx context.Context, file *model.SelectedFile, maxSize int64) (string, error) {
	data, err := readFile(ctx, file, maxSize)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(dataURIScheme) + len(file.ContentType()) + len(base64Param) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(dataURIScheme)
	b.WriteString(file.ContentType())
	b.WriteString(base64Param)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}

// DecodeDataURI splits a base64 data URI into its media type and content.
// A missing media type defaults to text/plain as in RFC 2397.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, dataURIScheme)
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mediaType, ok := strings.CutSuffix(meta, base64Param)
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	if mediaType == "" {
		mediaType = defaultURIType
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}

// readFile reads the whole content of file, honoring ctx and maxSize.
func readFile(ctx context.Context, file *model.SelectedFile, maxSize int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxSize > 0 && file.Size > maxSize {
		return nil, fmt.Errorf("%s (%d bytes): %w", file.Name, file.Size, ErrPreviewTooLarge)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer rc.Close()

	var r io.Reader = &contextReader{ctx: ctx, r: rc}
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%s: %w", file.Name, ErrPreviewTooLarge)
	}
	return data, nil
}

// contextReader stops reading once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
