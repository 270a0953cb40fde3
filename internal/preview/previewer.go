package preview

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sistemamedi/medupload/internal/config"
	"github.com/sistemamedi/medupload/internal/log"
	"github.com/sistemamedi/medupload/internal/model"
	"github.com/sistemamedi/medupload/internal/ui"
)

// Previewer keeps the preview element of a Document in sync with the
// selected file.
type Previewer struct {
	doc     ui.Document
	logger  *slog.Logger
	maxSize int64

	// mu guards token and lastErr and serializes page updates, so a
	// decode result is checked against the latest token and applied
	// atomically.
	mu      sync.Mutex
	token   uint64
	lastErr error

	wg sync.WaitGroup
}

// Option configures a Previewer.
type Option func(*Previewer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Previewer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxSize limits the bytes read for one preview.
// Zero or a negative value disables the limit.
func WithMaxSize(n int64) Option {
	return func(p *Previewer) {
		p.maxSize = n
	}
}

// New creates a Previewer that updates doc.
func New(doc ui.Document, opts ...Option) *Previewer {
	p := &Previewer{
		doc:     doc,
		logger:  log.Discard(),
		maxSize: config.DefaultMaxPreviewSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Select handles a selection change. Non-image and empty selections hide
// the preview immediately and leave its source untouched. An image is
// read on a new goroutine; when the read completes and no newer selection
// happened in between, the source is set to the data URI and the preview
// is shown.
func (p *Previewer) Select(ctx context.Context) {
	file := p.doc.SelectedFile()

	p.mu.Lock()
	p.token++
	token := p.token

	p.lastErr = nil

	if !file.IsImage() {
		p.doc.SetPreviewVisible(false)
		p.mu.Unlock()
		if file != nil {
			p.logger.Debug("preview hidden for non-image file",
				slog.String("file", file.Name),
				slog.String("type", file.Type),
			)
		}
		return
	}
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.decode(ctx, token, file)
	}()
}

// Handler returns a change listener that calls Select with ctx.
// It is meant for ui.Page.OnChange.
func (p *Previewer) Handler(ctx context.Context) func() {
	return func() {
		p.Select(ctx)
	}
}

// Wait blocks until every started decode has finished and returns the
// error of the latest selection's decode, if it failed.
func (p *Previewer) Wait() error {
	p.wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// decode reads file and applies the result when token is still current.
func (p *Previewer) decode(ctx context.Context, token uint64, file *model.SelectedFile) {
	uri, err := EncodeDataURI(ctx, file, p.maxSize)

	p.mu.Lock()
	defer p.mu.Unlock()

	if token != p.token {
		p.logger.Debug("discarding stale preview",
			slog.String("file", file.Name),
			slog.Uint64("seq", token),
			slog.Uint64("latest_seq", p.token),
		)
		return
	}

	if err != nil {
		p.lastErr = err
		p.logger.Warn("failed to build preview",
			slog.String("file", file.Name),
			slog.String("error", err.Error()),
		)
		return
	}

	p.lastErr = nil
	p.doc.SetPreviewSource(uri)
	p.doc.SetPreviewVisible(true)
	p.logger.Debug("preview updated",
		slog.String("file", file.Name),
		slog.Int64("size", file.Size),
		slog.String("source", uri),
	)
}
