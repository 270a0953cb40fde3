package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sistemamedi/medupload/internal/model"
)

// SimpleWriter prints the response text of each upload. With a single
// result the output is exactly what the response container shows; with
// several results each text is preceded by the file name.
type SimpleWriter struct {
	baseWriter

	// verbose adds status, request id and fingerprint lines.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the response texts.
func (w *SimpleWriter) Write(report *model.UploadReport) (int, error) {
	var sb strings.Builder

	multiple := len(report.Results) > 1
	for i := range report.Results {
		r := &report.Results[i]
		if multiple {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "==> %s <==\n", displayName(r))
		}
		if w.verbose {
			w.writeDetails(&sb, r)
		}
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	}

	return io.WriteString(w.output, sb.String())
}

// writeDetails writes the request details of one result.
func (w *SimpleWriter) writeDetails(sb *strings.Builder, r *model.UploadResult) {
	fmt.Fprintf(sb, "# state: %s", r.State)
	if r.Status != 0 {
		fmt.Fprintf(sb, " (HTTP %d)", r.Status)
	}
	sb.WriteString("\n")
	if r.RequestID != "" {
		fmt.Fprintf(sb, "# request id: %s\n", r.RequestID)
	}
	if r.Fingerprint != "" {
		fmt.Fprintf(sb, "# sha3-256: %s\n", r.Fingerprint)
	}
}

// displayName returns the file name of r, or "-" when no file was selected.
func displayName(r *model.UploadResult) string {
	if r.File.Name == "" {
		return "-"
	}
	return r.File.Name
}
