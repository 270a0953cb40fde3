package main

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// newTestServer replies to /upload with reply and counts requests.
func newTestServer(t *testing.T, reply string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var count atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
		if r.URL.Path != "/upload" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"detail":"missing file"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server, &count
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestUploadCmd tests the upload command end to end.
func TestUploadCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints indented reply", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{"status":"ok"}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")
		file := writeFile(t, "exam.pdf", "%PDF-1.4")

		stdout, _, err := execute(t, "upload", "--config", cfgPath, file)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "{\n  \"status\": \"ok\"\n}\n" {
			t.Errorf("stdout = %q", stdout)
		}
		if count.Load() != 1 {
			t.Errorf("expected one request, got %d", count.Load())
		}
	})

	t.Run("no file prints message and sends nothing", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")

		stdout, _, err := execute(t, "upload", "--config", cfgPath)
		if !errors.Is(err, errUploadFailed) {
			t.Errorf("expected errUploadFailed, got %v", err)
		}
		if stdout != "Selecione um arquivo.\n" {
			t.Errorf("stdout = %q", stdout)
		}
		if count.Load() != 0 {
			t.Errorf("expected no request, got %d", count.Load())
		}
	})

	t.Run("locale flag switches messages", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: pt-BR\n")

		stdout, _, err := execute(t, "upload", "--config", cfgPath, "--locale", "en")
		if err == nil {
			t.Error("expected error")
		}
		if stdout != "Select a file.\n" {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("endpoint flag overrides config file", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{"n":1}`)
		cfgPath := writeConfig(t, "endpoint: http://127.0.0.1:1\n")
		file := writeFile(t, "a.png", "png")

		if _, _, err := execute(t, "upload", "--config", cfgPath, "-e", server.URL, file); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count.Load() != 1 {
			t.Errorf("expected one request, got %d", count.Load())
		}
	})

	t.Run("environment overrides config file", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{"n":1}`)
		cfgPath := writeConfig(t, "endpoint: http://127.0.0.1:1\n")
		file := writeFile(t, "a.png", "png")

		env := map[string]string{"MEDUPLOAD_ENDPOINT": server.URL}
		if _, _, err := executeWithEnv(t, env, "upload", "--config", cfgPath, file); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count.Load() != 1 {
			t.Errorf("expected one request, got %d", count.Load())
		}
	})

	t.Run("html page shows preview and reply", func(t *testing.T) {
		t.Parallel()

		server, _ := newTestServer(t, `{"size":1.0}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")
		pagePath := filepath.Join(t.TempDir(), "page.html")

		_, _, err := execute(t, "upload", "--config", cfgPath, "--locale", "en", "--html", pagePath, writePNG(t, 2, 2))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(pagePath)
		if err != nil {
			t.Fatal(err)
		}
		page := string(data)
		for _, want := range []string{`lang="en"`, `src="data:image/png;base64,`, `display:block`, `id="response"`, `size&#34;: 1`} {
			if !strings.Contains(page, want) {
				t.Errorf("expected page to contain %q, got %q", want, page)
			}
		}
	})

	t.Run("html page requires one file", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")

		_, _, err := execute(t, "upload", "--config", cfgPath, "--html", "-",
			writeFile(t, "a.pdf", "%PDF"), writeFile(t, "b.pdf", "%PDF"))
		if !errors.Is(err, errPageNeedsOneFile) {
			t.Errorf("expected errPageNeedsOneFile, got %v", err)
		}
		if count.Load() != 0 {
			t.Errorf("expected no request, got %d", count.Load())
		}
	})

	t.Run("unreachable server prints error", func(t *testing.T) {
		t.Parallel()

		server, _ := newTestServer(t, `{}`)
		url := server.URL
		server.Close()

		cfgPath := writeConfig(t, "endpoint: "+url+"\n")
		file := writeFile(t, "a.png", "png")

		stdout, _, err := execute(t, "upload", "--config", cfgPath, file)
		if !errors.Is(err, errUploadFailed) {
			t.Errorf("expected errUploadFailed, got %v", err)
		}
		if !strings.HasPrefix(stdout, "Erro: ") {
			t.Errorf("stdout = %q", stdout)
		}
		if strings.Contains(stdout, "Post ") {
			t.Errorf("expected transport cause only, got %q", stdout)
		}
	})

	t.Run("missing file fails without request", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")

		stdout, _, err := execute(t, "upload", "--config", cfgPath, filepath.Join(t.TempDir(), "missing.pdf"))
		if !errors.Is(err, errUploadFailed) {
			t.Errorf("expected errUploadFailed, got %v", err)
		}
		if !strings.HasPrefix(stdout, "Erro: ") {
			t.Errorf("stdout = %q", stdout)
		}
		if count.Load() != 0 {
			t.Errorf("expected no request, got %d", count.Load())
		}
	})

	t.Run("several files keep command-line order", func(t *testing.T) {
		t.Parallel()

		server, count := newTestServer(t, `{"ok":true}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")
		files := []string{
			writeFile(t, "one.pdf", "1"),
			writeFile(t, "two.pdf", "2"),
			writeFile(t, "three.pdf", "3"),
		}

		args := append([]string{"upload", "--config", cfgPath, "-C", "2"}, files...)
		stdout, _, err := execute(t, args...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count.Load() != 3 {
			t.Errorf("expected three requests, got %d", count.Load())
		}
		one := strings.Index(stdout, "==> one.pdf <==")
		two := strings.Index(stdout, "==> two.pdf <==")
		three := strings.Index(stdout, "==> three.pdf <==")
		if one < 0 || two < one || three < two {
			t.Errorf("unexpected order in %q", stdout)
		}
	})

	t.Run("markdown report to file", func(t *testing.T) {
		t.Parallel()

		server, _ := newTestServer(t, `{"type":"pdf","size":8,"metadata":{"pages":1}}`)
		cfgPath := writeConfig(t, "endpoint: "+server.URL+"\n")
		file := writeFile(t, "exam.pdf", "%PDF-1.4")
		out := filepath.Join(t.TempDir(), "reports", "upload.md")

		if _, _, err := execute(t, "upload", "--config", cfgPath, "--markdown", "-o", out, file); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		content, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		for _, want := range []string{"# Upload Report", "| Pages | 1 |", "```json"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("expected report to contain %q", want)
			}
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "locale: en\n")
		if _, _, err := execute(t, "upload", "--config", cfgPath, "--json", "--markdown"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("explicit missing config is an error", func(t *testing.T) {
		t.Parallel()

		_, _, err := execute(t, "upload", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("invalid endpoint is a configuration error", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "endpoint: localhost\n")
		_, _, err := execute(t, "upload", "--config", cfgPath)
		if err == nil || !strings.Contains(err.Error(), "configuration error") {
			t.Errorf("expected configuration error, got %v", err)
		}
	})
}
