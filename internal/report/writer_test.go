package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sistemamedi/medupload/internal/model"
)

// createTestReport creates a report with one accepted, one rejected and
// one failed upload.
func createTestReport() *model.UploadReport {
	report := model.NewUploadReport("http://localhost:8000/upload")
	report.StartedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	report.Results = append(report.Results,
		model.UploadResult{
			File:        *model.NewSelectedFile("scan.png", "image/png", []byte("png")),
			State:       "succeeded",
			Status:      200,
			RequestID:   "req-1",
			Fingerprint: strings.Repeat("ab", 32),
			Text:        "{\n  \"type\": \"png\"\n}",
			Response: &model.UploadResponse{
				Type:     "png",
				Size:     3,
				Metadata: map[string]any{"width": float64(640), "height": float64(480)},
			},
			Duration: 1500 * time.Millisecond,
		},
		model.UploadResult{
			File:     *model.NewSelectedFile("notes.txt", "text/plain", []byte("hi")),
			State:    "succeeded",
			Status:   400,
			Text:     "{\n  \"detail\": \"File type not supported\"\n}",
			Response: &model.UploadResponse{Detail: "File type not supported"},
		},
		model.UploadResult{
			File:  *model.NewSelectedFile("exam.pdf", "application/pdf", []byte("%PDF")),
			State: "failed",
			Text:  "Erro: connection refused",
			Error: "connection refused",
		},
	)
	return report
}

// TestSimpleWriter tests the response text output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("single result prints only the response text", func(t *testing.T) {
		t.Parallel()

		report := model.NewUploadReport("http://localhost:8000/upload")
		report.Results = append(report.Results, model.UploadResult{State: "idle", Text: "Selecione um arquivo."})

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "Selecione um arquivo.\n" {
			t.Errorf("got %q", buf.String())
		}
	})

	t.Run("multiple results are labeled", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"==> scan.png <==", "==> exam.pdf <==", "Erro: connection refused", "\"type\": \"png\""} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("verbose adds request details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# request id: req-1") {
			t.Error("expected request id line")
		}
		if !strings.Contains(output, "# state: succeeded (HTTP 200)") {
			t.Error("expected state line")
		}
	})
}

// TestJSONWriter tests JSON report output.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output is valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Endpoint string `json:"endpoint"`
			Results  []struct {
				File struct {
					Name string `json:"name"`
				} `json:"file"`
				State string `json:"state"`
			} `json:"results"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Endpoint != "http://localhost:8000/upload" {
			t.Errorf("endpoint = %q", decoded.Endpoint)
		}
		if len(decoded.Results) != 3 || decoded.Results[2].State != "failed" {
			t.Errorf("unexpected results: %+v", decoded.Results)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected single-line output")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"endpoint\"") {
			t.Error("expected two-space indentation")
		}
	})
}

// TestMarkdownWriter tests Markdown report output.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"title", "# Upload Report"},
		{"endpoint", "`http://localhost:8000/upload`"},
		{"accepted row", "✅ Accepted (HTTP 200)"},
		{"rejected row", "⚠️ Rejected (HTTP 400)"},
		{"failed row", "❌ Failed"},
		{"failure alert", "[!CAUTION]"},
		{"pie chart", "```mermaid"},
		{"title-cased metadata key", "| Width"},
		{"metadata value", "640"},
		{"rejection detail", "File type not supported"},
		{"response block", "```json"},
		{"file size", "3 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.Contains(output, tt.want) {
				t.Errorf("expected output to contain %q", tt.want)
			}
		})
	}
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		w := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b))
		n, err := w.Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != a.Len()+b.Len() {
			t.Errorf("n = %d, expected %d", n, a.Len()+b.Len())
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var b bytes.Buffer
		w := NewMultiWriter(NewSimpleWriter(failWriter{}), NewJSONWriter(&b))
		if _, err := w.Write(createTestReport()); err == nil {
			t.Error("expected error")
		}
		if b.Len() != 0 {
			t.Error("expected second writer to be skipped")
		}
	})
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

// TestFormatSize tests byte count rendering.
func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{20 * 1024 * 1024, "20.0 MiB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := formatSize(tt.n); got != tt.want {
				t.Errorf("formatSize(%d) = %q, expected %q", tt.n, got, tt.want)
			}
		})
	}
}

// TestTruncateString tests shortening of long metadata values.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"short kept", "abc", 5, "abc"},
		{"ascii cut", "abcdefgh", 6, "abc..."},
		{"accents counted as one", "JOÃO DA SILVA", 13, "JOÃO DA SILVA"},
		{"multi-byte not split", "ééééé", 4, "é..."},
		{"tiny limit", "ããã", 2, "ãã"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := truncateString(tt.s, tt.maxLen)
			if got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, expected %q", tt.s, tt.maxLen, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("result %q is not valid UTF-8", got)
			}
		})
	}
}
