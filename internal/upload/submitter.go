package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/sistemamedi/medupload/internal/i18n"
	"github.com/sistemamedi/medupload/internal/log"
	"github.com/sistemamedi/medupload/internal/model"
	"github.com/sistemamedi/medupload/internal/ui"
)

// UploadPath is the path the form is posted to, resolved against the
// base URL like a root-relative link.
const UploadPath = "/upload"

// RequestIDHeader carries the identifier of one submission.
const RequestIDHeader = "X-Request-ID"

// maxResponseSize limits the response body that is read and rendered.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Doer sends an HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Outcome is the result of one submission.
type Outcome struct {
	// State is StateIdle when no file was selected, otherwise
	// StateSucceeded or StateFailed.
	State State

	// Text is the response text produced by this submission. It was
	// written to the page only when Applied is true.
	Text string

	// Applied is false when a newer submission started before this one
	// finished.
	Applied bool

	// File is the submitted file, nil when none was selected.
	File *model.SelectedFile

	// Body is the raw response body, nil when no response was received.
	Body []byte

	// Status is the HTTP status code, zero when no response was received.
	Status int

	// RequestID is the X-Request-ID sent with the request.
	RequestID string

	// Fingerprint is the hex SHA3-256 digest of the file content.
	Fingerprint string

	// Err is the cause of a StateFailed or StateIdle outcome.
	Err error
}

// Submitter posts the selected file of a Document and renders the reply.
type Submitter struct {
	doc      ui.Document
	endpoint string
	client   Doer
	messages *i18n.Messages
	logger   *slog.Logger
	progress ProgressFunc
	newID    func() string
	maxBody  int64

	mu    sync.Mutex
	token uint64
	state State
}

// Option configures a Submitter.
type Option func(*Submitter)

// WithHTTPClient sets the client used to send requests.
// The default is http.DefaultClient.
func WithHTTPClient(client Doer) Option {
	return func(s *Submitter) {
		if client != nil {
			s.client = client
		}
	}
}

// WithMessages sets the localized messages. The default is pt-BR.
func WithMessages(m *i18n.Messages) Option {
	return func(s *Submitter) {
		if m != nil {
			s.messages = m
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Submitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress sets a callback that observes the request body upload.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Submitter) {
		s.progress = fn
	}
}

// WithRequestIDFunc replaces the generator of X-Request-ID values.
func WithRequestIDFunc(fn func() string) Option {
	return func(s *Submitter) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New creates a Submitter for doc that posts to UploadPath on baseURL.
func New(doc ui.Document, baseURL string, opts ...Option) (*Submitter, error) {
	endpoint, err := ResolveEndpoint(baseURL)
	if err != nil {
		return nil, err
	}

	s := &Submitter{
		doc:      doc,
		endpoint: endpoint,
		client:   http.DefaultClient,
		messages: i18n.New(""),
		logger:   log.Discard(),
		newID:    uuid.NewString,
		maxBody:  maxResponseSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ResolveEndpoint returns the upload URL for baseURL. Any path on baseURL
// is replaced, the way a browser resolves "/upload" against the page URL.
func ResolveEndpoint(baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidEndpoint, baseURL)
	}
	return base.ResolveReference(&url.URL{Path: UploadPath}).String(), nil
}

// State returns the state of the latest submission.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit handles a form submission. With no file selected it shows the
// localized "select a file" message and sends nothing. Otherwise it sends
// exactly one POST request and shows either the indented JSON reply or
// the localized error message.
func (s *Submitter) Submit(ctx context.Context) Outcome {
	s.mu.Lock()
	s.token++
	token := s.token
	s.state = StateValidating
	s.mu.Unlock()

	file := s.doc.SelectedFile()
	if file == nil {
		out := Outcome{State: StateIdle, Text: s.messages.NoFile(), Err: ErrNoFile}
		return s.finish(token, out)
	}

	s.setState(token, StateSending)
	out := s.send(ctx, file)
	if out.Err != nil {
		out.State = StateFailed
		out.Text = s.messages.Error(Describe(out.Err))
		s.logger.Warn("upload failed",
			slog.String("file", file.Name),
			slog.String("request_id", out.RequestID),
			slog.String("error", out.Err.Error()),
		)
	} else {
		out.State = StateSucceeded
		s.logger.Info("upload completed",
			slog.String("file", file.Name),
			slog.String("request_id", out.RequestID),
			slog.Int("status", out.Status),
		)
	}
	return s.finish(token, out)
}

// send builds and sends the request for file. Text and State of the
// returned Outcome are left for the caller.
func (s *Submitter) send(ctx context.Context, file *model.SelectedFile) Outcome {
	out := Outcome{File: file, RequestID: s.newID()}

	b, err := buildBody(file)
	if err != nil {
		out.Err = err
		return out
	}
	out.Fingerprint = b.fingerprint

	var reader io.Reader = bytes.NewReader(b.data)
	if s.progress != nil {
		reader = &progressReader{r: reader, total: int64(len(b.data)), fn: s.progress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, reader)
	if err != nil {
		out.Err = fmt.Errorf("failed to create request: %w", err)
		return out
	}
	req.ContentLength = int64(len(b.data))
	req.Header.Set("Content-Type", b.contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, out.RequestID)

	s.logger.Debug("sending upload",
		slog.String("endpoint", s.endpoint),
		slog.String("file", file.Name),
		slog.String("type", file.ContentType()),
		slog.Int64("size", file.Size),
		slog.String("sha3_256", out.Fingerprint),
		slog.String("request_id", out.RequestID),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		out.Err = err
		return out
	}
	defer resp.Body.Close()

	out.Status = resp.StatusCode
	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		out.Err = fmt.Errorf("failed to read response: %w", err)
		return out
	}
	if int64(len(raw)) > s.maxBody {
		out.Err = fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, s.maxBody)
		return out
	}
	out.Body = raw

	pretty, err := PrettyJSON(raw)
	if err != nil {
		out.Err = err
		return out
	}
	if resp.StatusCode >= http.StatusBadRequest {
		s.logger.Warn("server rejected upload",
			slog.String("file", file.Name),
			slog.Int("status", resp.StatusCode),
		)
	}
	out.Text = pretty
	return out
}

// setState records state when token is the latest submission.
func (s *Submitter) setState(token uint64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.token {
		s.state = state
	}
}

// finish writes out.Text to the page when token is still the latest
// submission.
func (s *Submitter) finish(token uint64, out Outcome) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		s.logger.Debug("discarding stale upload result",
			slog.String("request_id", out.RequestID),
			slog.Uint64("seq", token),
			slog.Uint64("latest_seq", s.token),
		)
		return out
	}

	s.state = out.State
	s.doc.SetResponseText(out.Text)
	out.Applied = true
	return out
}

// Describe returns the message shown after "Erro: " for err. Transport
// errors are reduced to their cause, without the method and URL prefix.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}

// Result converts o into a report entry.
func (o Outcome) Result() model.UploadResult {
	r := model.UploadResult{
		State:       o.State.String(),
		Status:      o.Status,
		RequestID:   o.RequestID,
		Fingerprint: o.Fingerprint,
		Text:        o.Text,
	}
	if o.File != nil {
		r.File = *o.File
	}
	if o.Err != nil {
		r.Error = Describe(o.Err)
	}
	if o.State == StateSucceeded {
		if resp, err := model.ParseUploadResponse(o.Body); err == nil {
			r.Response = resp
		}
	}
	return r
}
