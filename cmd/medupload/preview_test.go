package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, width, height int) string {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "scan.png")
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestPreviewCmd tests the preview command.
func TestPreviewCmd(t *testing.T) {
	t.Parallel()

	t.Run("image is shown with dimensions", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: pt-BR\n")
		stdout, _, err := execute(t, "preview", "--config", cfgPath, writePNG(t, 4, 3))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Preview: visible", "Image:   png 4x3", "image/png", "data URI"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected output to contain %q, got %q", want, stdout)
			}
		}
	})

	t.Run("full data URI on request", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: pt-BR\n")
		stdout, _, err := execute(t, "preview", "--config", cfgPath, "--uri", writePNG(t, 1, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Source:  data:image/png;base64,iVBOR") {
			t.Errorf("unexpected output: %q", stdout)
		}
	})

	t.Run("non-image is hidden", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: pt-BR\n")
		stdout, _, err := execute(t, "preview", "--config", cfgPath, writeFile(t, "exam.pdf", "%PDF-1.4"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Preview: hidden") {
			t.Errorf("unexpected output: %q", stdout)
		}
	})

	t.Run("image over the size limit fails", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "maxPreviewSize: 8\n")
		_, _, err := execute(t, "preview", "--config", cfgPath, writePNG(t, 8, 8))
		if err == nil || !strings.Contains(err.Error(), "too large") {
			t.Errorf("expected too large error, got %v", err)
		}
	})

	t.Run("writes HTML page", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: en\n")
		out := filepath.Join(t.TempDir(), "page.html")
		if _, _, err := execute(t, "preview", "--config", cfgPath, "--html", out, writePNG(t, 2, 2)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{`<html lang="en">`, `id="preview"`, `src="data:image/png;base64,`, "display:block"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("expected page to contain %q", want)
			}
		}
	})

	t.Run("requires exactly one file", func(t *testing.T) {
		t.Parallel()

		if _, _, err := execute(t, "preview"); err == nil {
			t.Error("expected error")
		}
	})
}
