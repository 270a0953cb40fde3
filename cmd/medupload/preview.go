package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sistemamedi/medupload/internal/config"
	"github.com/sistemamedi/medupload/internal/i18n"
	"github.com/sistemamedi/medupload/internal/model"
	"github.com/sistemamedi/medupload/internal/preview"
	"github.com/sistemamedi/medupload/internal/report"
	"github.com/sistemamedi/medupload/internal/ui"
)

// NewPreviewCmd creates the preview command.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the preview the upload page would display for a file",
		Long: `Preview selects a file the way the upload page does and reports the
resulting preview.

Image files are read into a base64 data URI and shown; any other file
hides the preview. For images, the dimensions and EXIF details such as
the camera and GPS position are printed, so that identifying metadata is
noticed before the file is uploaded.

Examples:
  # Show preview state and image details
  medupload preview exam.jpg

  # Print the full data URI
  medupload preview --uri exam.png

  # Write the upload page with the preview to an HTML file
  medupload preview --html page.html exam.png`,
		Args: cobra.ExactArgs(1),
		RunE: runPreviewCmd,
	}

	cmd.Flags().Int64("max-size", config.DefaultMaxPreviewSize,
		"Largest image, in bytes, read for a preview")
	cmd.Flags().Bool("uri", false,
		"Print the full data URI instead of its length")
	cmd.Flags().String("html", "",
		"Write the upload page as HTML to the given path (\"-\" for stdout)")

	return cmd
}

// runPreviewCmd executes the preview command.
func runPreviewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	ctx, cancel := signalContext(logger)
	defer cancel()

	file, err := model.OpenSelectedFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to select %s: %w", args[0], err)
	}

	state, info, err := renderPreview(ctx, cfg, logger, file)
	if err != nil {
		return err
	}

	uri, err := cmd.Flags().GetBool("uri")
	if err != nil {
		return err
	}
	printPreview(cmd.OutOrStdout(), file, state, info, uri)

	htmlPath, err := cmd.Flags().GetString("html")
	if err != nil {
		return err
	}
	if htmlPath == "" {
		return nil
	}

	view := report.PageView{
		Title:    file.Name + " - medupload",
		Lang:     i18n.New(cfg.Locale).Tag().String(),
		FileName: file.Name,
		Preview:  state,
		Info:     info,
	}
	return writePage(cmd.OutOrStdout(), htmlPath, view)
}

// renderPreview selects file on a fresh page, waits for the preview and
// inspects the shown image. info is nil when the preview is hidden.
func renderPreview(ctx context.Context, cfg *config.Config, logger *slog.Logger, file *model.SelectedFile) (model.PreviewState, *model.ImageInfo, error) {
	page := ui.NewPage()
	previewer := preview.New(page,
		preview.WithLogger(logger),
		preview.WithMaxSize(cfg.MaxPreviewSize),
	)
	page.OnChange(previewer.Handler(ctx))
	page.Select(file)

	if err := previewer.Wait(); err != nil {
		return model.PreviewState{}, nil, fmt.Errorf("failed to preview %s: %w", file.Name, err)
	}

	state := page.Preview()
	if !state.Visible {
		return state, nil, nil
	}
	info, err := preview.InspectDataURI(state.Source)
	if err != nil {
		return state, nil, err
	}
	return state, &info, nil
}

// printPreview writes a summary of the preview state.
func printPreview(w io.Writer, file *model.SelectedFile, state model.PreviewState, info *model.ImageInfo, fullURI bool) {
	fmt.Fprintf(w, "File:    %s (%s, %d bytes)\n", file.Name, file.ContentType(), file.Size)

	if !state.Visible {
		fmt.Fprintln(w, "Preview: hidden")
		return
	}
	fmt.Fprintln(w, "Preview: visible")

	if info != nil {
		if info.HasDimensions() {
			fmt.Fprintf(w, "Image:   %s %dx%d\n", info.Format, info.Width, info.Height)
		}
		if s := info.EXIF; s != nil {
			if camera := s.Camera(); camera != "" {
				fmt.Fprintf(w, "Camera:  %s\n", camera)
			}
			if s.Software != "" {
				fmt.Fprintf(w, "Software: %s\n", s.Software)
			}
			if s.Taken != "" {
				fmt.Fprintf(w, "Taken:   %s\n", s.Taken)
			}
			if s.HasGPS {
				fmt.Fprintln(w, "Warning: image contains GPS coordinates")
			}
		}
	}

	if fullURI {
		fmt.Fprintf(w, "Source:  %s\n", state.Source)
		return
	}
	fmt.Fprintf(w, "Source:  data URI, %d characters\n", len(state.Source))
}

// writePage renders view to path, or to stdout when path is "-".
func writePage(stdout io.Writer, path string, view report.PageView) error {
	if path == "-" {
		_, err := report.NewPageWriter(stdout).Write(view)
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := report.NewPageWriter(f).Write(view); err != nil {
		return err
	}
	return f.Close()
}
