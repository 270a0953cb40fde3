package upload

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/sistemamedi/medupload/internal/model"
)

// FieldName is the form field that carries the file.
const FieldName = "file"

// body is an encoded multipart request body.
type body struct {
	data        []byte
	contentType string
	fingerprint string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildBody encodes file as a multipart form with a single part named
// FieldName, carrying the file name and its declared type. The SHA3-256
// fingerprint of the content is computed on the way.
func buildBody(file *model.SelectedFile) (*body, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(FieldName), quoteEscaper.Replace(file.Name)))
	header.Set("Content-Type", file.ContentType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form part: %w", err)
	}

	hasher := sha3.New256()
	if _, err := io.Copy(io.MultiWriter(part, hasher), rc); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	return &body{
		data:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
		fingerprint: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// ProgressFunc receives the number of body bytes sent so far and the
// total body size.
type ProgressFunc func(sent, total int64)

// progressReader reports the bytes read through it.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.sent += int64(n)
	if n > 0 || err == io.EOF {
		pr.fn(pr.sent, pr.total)
	}
	return n, err
}
