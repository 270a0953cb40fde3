package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sistemamedi/medupload/internal/config"
	"github.com/sistemamedi/medupload/internal/i18n"
	"github.com/sistemamedi/medupload/internal/model"
	"github.com/sistemamedi/medupload/internal/report"
	"github.com/sistemamedi/medupload/internal/ui"
	"github.com/sistemamedi/medupload/internal/upload"
)

var (
	// errUploadFailed is returned when at least one upload did not succeed.
	errUploadFailed = errors.New("one or more uploads failed")

	// errPageNeedsOneFile is returned when --html is used with several files.
	errPageNeedsOneFile = errors.New("--html requires exactly one file")
)

// uploadOptions are the output settings of the upload command.
type uploadOptions struct {
	json       bool
	markdown   bool
	outputFile string
	htmlPath   string
	progress   bool
}

// NewUploadCmd creates the upload command.
func NewUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Upload files and print the server's reply",
		Long: `Upload submits each file to <endpoint>/upload as multipart form data,
in a form field named "file", and prints the server's JSON reply indented
with two spaces.

Without a file, nothing is sent and "Selecione um arquivo." is printed.
Network errors and replies that are not JSON are printed as
"Erro: <description>". The exit status is non-zero when any upload fails.

Examples:
  # Upload one file to the default endpoint
  medupload upload exam.pdf

  # Upload several files, two at a time, to a remote server
  medupload upload -e https://medi.example.com -C 2 *.dcm

  # Write a Markdown summary
  medupload upload --markdown -o report.md exam.pdf scan.png

  # Send through a SOCKS5 proxy with English messages
  medupload upload --proxy 127.0.0.1:1080 --locale en exam.pdf

  # Save the upload page as it looks after the reply
  medupload upload --html page.html scan.png`,
		Args: cobra.ArbitraryArgs,
		RunE: runUploadCmd,
	}

	cmd.Flags().StringP("endpoint", "e", config.DefaultEndpoint,
		"Base URL of the API; files are posted to <endpoint>/upload")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each upload")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:1080)")
	cmd.Flags().IntP("concurrency", "C", config.DefaultConcurrency,
		"Number of files uploaded in parallel")
	cmd.Flags().StringToString("header", nil,
		"Extra request header, repeatable (e.g., --header X-Gateway-Key=abc)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().BoolP("progress", "p", false,
		"Show upload progress on stderr")
	cmd.Flags().String("html", "",
		"Write the upload page with preview and reply to the given path (\"-\" for stdout)")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runUploadCmd executes the upload command.
func runUploadCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := getUploadOptions(cmd)
	if err != nil {
		return err
	}
	if opts.htmlPath != "" && len(args) != 1 {
		return errPageNeedsOneFile
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	client, err := upload.NewHTTPClient(upload.ClientOptions{
		ProxyAddress: cfg.ProxyAddress,
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		Headers:      cfg.Headers,
	})
	if err != nil {
		return err
	}

	endpoint, err := upload.ResolveEndpoint(cfg.Endpoint)
	if err != nil {
		return err
	}

	u := &uploader{
		cfg:      cfg,
		client:   client,
		messages: i18n.New(cfg.Locale),
		logger:   logger,
		stderr:   cmd.ErrOrStderr(),
		progress: opts.progress && (len(args) <= 1 || cfg.Concurrency == 1),
	}

	result := model.NewUploadReport(endpoint)
	result.Results, err = u.uploadAll(ctx, args)
	if err != nil {
		return err
	}

	if err := outputReport(cmd.OutOrStdout(), opts, cfg.Verbose, result); err != nil {
		return err
	}

	if opts.htmlPath != "" {
		view, err := u.pageView(ctx, args[0], &result.Results[0])
		if err != nil {
			return err
		}
		if err := writePage(cmd.OutOrStdout(), opts.htmlPath, view); err != nil {
			return err
		}
	}

	if result.HasFailures() {
		return errUploadFailed
	}
	return nil
}

// getUploadOptions reads the output flags.
func getUploadOptions(cmd *cobra.Command) (uploadOptions, error) {
	var opts uploadOptions
	var err error

	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.outputFile, err = cmd.Flags().GetString("output"); err != nil {
		return opts, err
	}
	if opts.progress, err = cmd.Flags().GetBool("progress"); err != nil {
		return opts, err
	}
	if opts.htmlPath, err = cmd.Flags().GetString("html"); err != nil {
		return opts, err
	}
	return opts, nil
}

// uploader submits files, each through its own page and submitter.
type uploader struct {
	cfg      *config.Config
	client   upload.Doer
	messages *i18n.Messages
	logger   *slog.Logger
	stderr   io.Writer
	progress bool
}

// uploadAll submits paths with at most cfg.Concurrency uploads in flight
// and returns the results in the order of paths. With no paths, a single
// submission with nothing selected is made.
func (u *uploader) uploadAll(ctx context.Context, paths []string) ([]model.UploadResult, error) {
	if len(paths) == 0 {
		r, err := u.uploadOne(ctx, "")
		if err != nil {
			return nil, err
		}
		return []model.UploadResult{r}, nil
	}

	results := make([]model.UploadResult, len(paths))

	var g errgroup.Group
	g.SetLimit(u.cfg.Concurrency)
	for i, path := range paths {
		g.Go(func() error {
			r, err := u.uploadOne(ctx, path)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// uploadOne selects path on a fresh page and submits it. An empty path
// submits with nothing selected. A path that cannot be selected yields a
// failed result without sending anything.
func (u *uploader) uploadOne(ctx context.Context, path string) (model.UploadResult, error) {
	page := ui.NewPage()

	if path != "" {
		file, err := model.OpenSelectedFile(path)
		if err != nil {
			u.logger.Warn("cannot select file", slog.String("path", path), slog.String("error", err.Error()))
			return model.UploadResult{
				File:  model.SelectedFile{Name: filepath.Base(path)},
				State: upload.StateFailed.String(),
				Text:  u.messages.Error(err.Error()),
				Error: err.Error(),
			}, nil
		}
		page.Select(file)
	}

	opts := []upload.Option{
		upload.WithHTTPClient(u.client),
		upload.WithMessages(u.messages),
		upload.WithLogger(u.logger),
	}
	if u.progress && path != "" {
		bar := ui.NewProgressBar(u.stderr, filepath.Base(path))
		opts = append(opts, upload.WithProgress(bar.Update))
	}

	submitter, err := upload.New(page, u.cfg.Endpoint, opts...)
	if err != nil {
		return model.UploadResult{}, err
	}

	start := time.Now()
	out := submitter.Submit(ctx)

	r := out.Result()
	r.Duration = time.Since(start)
	r.Text = page.ResponseText()
	return r, nil
}

// pageView rebuilds the upload page after uploading path: the preview
// the file selection produced and the response text of r. A file that
// cannot be selected leaves the preview hidden.
func (u *uploader) pageView(ctx context.Context, path string, r *model.UploadResult) (report.PageView, error) {
	view := report.PageView{
		Title:        r.File.Name + " - medupload",
		Lang:         u.messages.Tag().String(),
		FileName:     r.File.Name,
		ResponseText: r.Text,
	}

	file, err := model.OpenSelectedFile(path)
	if err != nil {
		return view, nil
	}
	view.Preview, view.Info, err = renderPreview(ctx, u.cfg, u.logger, file)
	if err != nil {
		return report.PageView{}, err
	}
	return view, nil
}

// outputReport writes the upload report in the selected format.
func outputReport(stdout io.Writer, opts uploadOptions, verbose bool, result *model.UploadReport) error {
	output := stdout
	if opts.outputFile != "" {
		dir := filepath.Dir(opts.outputFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports can name patient files; keep them owner-readable only.
		f, err := os.OpenFile(opts.outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case opts.json:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case opts.markdown:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(verbose))
	}

	_, err := writer.Write(result)
	return err
}
