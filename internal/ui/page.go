package ui

import (
	"sync"

	"github.com/sistemamedi/medupload/internal/model"
)

// Page is an in-memory Document holding the four elements of the upload
// page: the file-input control, the preview image, and the response text.
type Page struct {
	mu       sync.RWMutex
	files    []*model.SelectedFile
	preview  model.PreviewState
	response string

	listenersMu sync.Mutex
	listeners   []func()
}

// NewPage creates an empty page with nothing selected and the preview hidden.
func NewPage() *Page {
	return &Page{}
}

// OnChange registers fn to run after every selection change, like a
// "change" listener on the file-input control. Listeners run on the
// caller's goroutine, outside the page lock.
func (p *Page) OnChange(fn func()) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners = append(p.listeners, fn)
}

// Select replaces the selection of the file-input control and fires the
// change listeners. Nil entries are ignored; calling Select with no files
// clears the selection.
func (p *Page) Select(files ...*model.SelectedFile) {
	selected := make([]*model.SelectedFile, 0, len(files))
	for _, f := range files {
		if f != nil {
			selected = append(selected, f)
		}
	}

	p.mu.Lock()
	p.files = selected
	p.mu.Unlock()

	p.listenersMu.Lock()
	listeners := append([]func(){}, p.listeners...)
	p.listenersMu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// SelectedFile returns the first selected file, or nil.
func (p *Page) SelectedFile() *model.SelectedFile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.files) == 0 {
		return nil
	}
	return p.files[0]
}

// SetPreviewVisible implements Document.
func (p *Page) SetPreviewVisible(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview.Visible = visible
}

// SetPreviewSource implements Document.
func (p *Page) SetPreviewSource(src string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview.Source = src
}

// SetResponseText implements Document.
func (p *Page) SetResponseText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.response = text
}

// Preview returns a snapshot of the preview element.
func (p *Page) Preview() model.PreviewState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.preview
}

// ResponseText returns the current text of the response container.
func (p *Page) ResponseText() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.response
}

var _ Document = (*Page)(nil)
