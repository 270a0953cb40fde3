package model

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// TestNewSelectedFile tests in-memory selected files.
func TestNewSelectedFile(t *testing.T) {
	t.Parallel()

	t.Run("copies content and records size", func(t *testing.T) {
		t.Parallel()

		content := []byte("abc")
		f := NewSelectedFile("dir/scan.png", "image/png", content)
		content[0] = 'x'

		if f.Name != "scan.png" {
			t.Errorf("Name = %q, expected %q", f.Name, "scan.png")
		}
		if f.Size != 3 {
			t.Errorf("Size = %d, expected 3", f.Size)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close()
		got, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(got) != "abc" {
			t.Errorf("content = %q, expected %q", got, "abc")
		}
	})

	t.Run("strips type parameters", func(t *testing.T) {
		t.Parallel()

		f := NewSelectedFile("a.txt", "Text/Plain; charset=utf-8", nil)
		if f.Type != "text/plain" {
			t.Errorf("Type = %q, expected %q", f.Type, "text/plain")
		}
	})
}

// TestSelectedFileIsImage tests image detection on the declared type.
func TestSelectedFileIsImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mimeType string
		want     bool
	}{
		{"png", "image/png", true},
		{"jpeg", "image/jpeg", true},
		{"svg", "image/svg+xml", true},
		{"pdf", "application/pdf", false},
		{"dicom", "application/dicom", false},
		{"empty", "", false},
		{"prefix only in subtype", "application/image", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := NewSelectedFile("file", tt.mimeType, []byte("x"))
			if got := f.IsImage(); got != tt.want {
				t.Errorf("IsImage() = %v, expected %v", got, tt.want)
			}
		})
	}

	t.Run("nil file is not an image", func(t *testing.T) {
		t.Parallel()

		var f *SelectedFile
		if f.IsImage() {
			t.Error("expected nil file not to be an image")
		}
	})
}

// TestSelectedFileContentType tests the fallback content type.
func TestSelectedFileContentType(t *testing.T) {
	t.Parallel()

	if got := NewSelectedFile("a", "", nil).ContentType(); got != DefaultMIMEType {
		t.Errorf("ContentType() = %q, expected %q", got, DefaultMIMEType)
	}
	if got := NewSelectedFile("a", "image/png", nil).ContentType(); got != "image/png" {
		t.Errorf("ContentType() = %q, expected %q", got, "image/png")
	}
}

// TestDeclaredType tests extension-based type lookup.
func TestDeclaredType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"scan.png", "image/png"},
		{"SCAN.PNG", "image/png"},
		{"photo.jpg", "image/jpeg"},
		{"report.pdf", "application/pdf"},
		{"exam.dcm", "application/dicom"},
		{"noextension", ""},
		{"file.zzqx", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := DeclaredType(tt.path); got != tt.want {
				t.Errorf("DeclaredType(%q) = %q, expected %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestOpenSelectedFile tests selecting files from disk.
func TestOpenSelectedFile(t *testing.T) {
	t.Parallel()

	t.Run("uses extension type", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "scan.png")
		if err := os.WriteFile(path, []byte("not really a png"), 0600); err != nil {
			t.Fatal(err)
		}

		f, err := OpenSelectedFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Type != "image/png" {
			t.Errorf("Type = %q, expected %q", f.Type, "image/png")
		}
		if f.Size != int64(len("not really a png")) {
			t.Errorf("Size = %d", f.Size)
		}
		if f.Name != "scan.png" {
			t.Errorf("Name = %q", f.Name)
		}
	})

	t.Run("sniffs type without extension", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "notes")
		if err := os.WriteFile(path, []byte("Indicação: dor no peito\n"), 0600); err != nil {
			t.Fatal(err)
		}

		f, err := OpenSelectedFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Type != "text/plain" {
			t.Errorf("Type = %q, expected %q", f.Type, "text/plain")
		}
	})

	t.Run("empty file without extension has no type", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}

		f, err := OpenSelectedFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.Type != "" {
			t.Errorf("Type = %q, expected empty", f.Type)
		}
	})

	t.Run("directory is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := OpenSelectedFile(t.TempDir())
		if !errors.Is(err, ErrNotRegularFile) {
			t.Errorf("expected ErrNotRegularFile, got %v", err)
		}
	})

	t.Run("missing file returns error", func(t *testing.T) {
		t.Parallel()

		_, err := OpenSelectedFile(filepath.Join(t.TempDir(), "missing.png"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

// TestSelectedFileOpenWithoutContent tests the zero value.
func TestSelectedFileOpenWithoutContent(t *testing.T) {
	t.Parallel()

	f := &SelectedFile{Name: "x"}
	if _, err := f.Open(); !errors.Is(err, ErrNoContent) {
		t.Errorf("expected ErrNoContent, got %v", err)
	}
}
