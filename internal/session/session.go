// Package session runs editing sessions: every edit re-renders the site at
// once for preview, while persistence waits for a quiet period.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

// DefaultDebounce is the quiet period before a pending save fires.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrClosed          = errors.New("session is closed")
	ErrUnknownTemplate = errors.New("unknown template")
)

// Op is a pure editing operation, typically a closure over an editor
// function.
type Op func(*schema.Document) (*schema.Document, error)

// Saver persists a complete schema. Saves are full overwrites.
type Saver func(ctx context.Context, s *schema.SiteSchema) error

// Options configure a Session. Assembler is required.
//
// OnPreview runs synchronously in edit order, after the session lock is
// released. It may read session state but must not call Apply or
// SetTemplate on the same session.
type Options struct {
	SiteID      string
	Template    string
	UserPrompt  string
	Assembler   *site.Assembler
	Save        Saver
	OnPreview   func(files site.Files)
	OnSaveError func(err error)
	Debounce    time.Duration
	Logger      *zap.Logger
	Metrics     *metrics.Collector
}

// Session owns the current document of one site being edited.
type Session struct {
	ID     string
	SiteID string

	opts Options

	mu       sync.Mutex
	doc      *schema.Document
	template string
	files    site.Files
	timer    *time.Timer
	pending  bool
	closed   bool
	saveErr  error
	lastSave time.Time

	// previewMu keeps preview callbacks in edit order without holding mu.
	// It is always taken before mu.
	previewMu sync.Mutex
	// saveMu orders saves by snapshot time.
	saveMu sync.Mutex
}

// New starts a session on doc. The document is validated and rendered
// once before New returns.
func New(doc *schema.Document, opts Options) (*Session, error) {
	if opts.Assembler == nil {
		return nil, errors.New("session: assembler is required")
	}
	if doc == nil {
		return nil, schema.ErrNoPages
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:       id,
		SiteID:   opts.SiteID,
		opts:     opts,
		doc:      doc,
		template: opts.Template,
	}
	s.files = opts.Assembler.Render(doc, s.template)
	opts.Metrics.IncrementSessionOpened()
	return s, nil
}

// Apply runs op against the current document. On success the returned
// document becomes current, the site is re-rendered and previewed, and a
// save is scheduled. An operation that returns its input unchanged has no
// side effects.
func (s *Session) Apply(op Op) error {
	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	next, err := op(s.doc)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if next == s.doc {
		s.mu.Unlock()
		return nil
	}
	s.doc = next
	s.opts.Metrics.IncrementEditApplied()
	s.commitLocked()
	return nil
}

// SetTemplate switches the site to another registered template.
func (s *Session) SetTemplate(name string) error {
	if !s.opts.Assembler.HasTemplate(name) {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	s.previewMu.Lock()
	defer s.previewMu.Unlock()
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if name == s.template {
		s.mu.Unlock()
		return nil
	}
	s.template = name
	s.opts.Metrics.IncrementCustomCounter("template_switch")
	s.commitLocked()
	return nil
}

// commitLocked re-renders, reschedules the save and hands the files to the
// preview callback. It is entered with previewMu and mu held and releases
// mu only.
func (s *Session) commitLocked() {
	s.files = s.opts.Assembler.Render(s.doc, s.template)
	files := s.files
	s.pending = true
	if s.timer == nil {
		s.timer = time.AfterFunc(s.opts.Debounce, s.fire)
	} else {
		s.timer.Reset(s.opts.Debounce)
	}
	s.mu.Unlock()

	if s.opts.OnPreview != nil {
		s.opts.OnPreview(files)
	}
}

func (s *Session) fire() {
	if err := s.flush(context.Background()); err != nil {
		s.opts.Logger.Error("debounced save failed",
			zap.String("site", s.SiteID),
			zap.String("session", s.ID),
			zap.Error(err))
	}
}

// Flush saves immediately if a save is pending.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.flush(ctx)
}

func (s *Session) flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	snapshot := s.schemaLocked()
	s.mu.Unlock()

	var err error
	if s.opts.Save != nil {
		err = s.opts.Save(ctx, snapshot)
	}
	s.opts.Metrics.RecordSave(err)

	s.mu.Lock()
	s.saveErr = err
	if err != nil {
		// The document stays current; mark it dirty so the next flush retries.
		s.pending = true
	} else {
		s.lastSave = time.Now()
	}
	s.mu.Unlock()

	if err != nil && s.opts.OnSaveError != nil {
		s.opts.OnSaveError(err)
	}
	return err
}

// Close flushes any pending save and stops the session. Closing twice is
// harmless.
func (s *Session) Close(ctx context.Context) error {
	return s.close(ctx, false)
}

func (s *Session) close(ctx context.Context, evicted bool) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	s.opts.Metrics.IncrementSessionClosed(evicted)
	return s.flush(ctx)
}

func (s *Session) schemaLocked() *schema.SiteSchema {
	return &schema.SiteSchema{
		UserPrompt:    s.opts.UserPrompt,
		GeneratedData: *s.doc,
		Template:      s.template,
	}
}

// Document returns the current document. Callers must not modify it.
func (s *Session) Document() *schema.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Schema returns the envelope that the next save would write.
func (s *Session) Schema() *schema.SiteSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemaLocked()
}

// Template returns the active template name.
func (s *Session) Template() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// Files returns the latest rendered file map.
func (s *Session) Files() site.Files {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files
}

// Pending reports whether edits have not been saved yet.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// LastSaveError returns the error of the most recent save, or nil.
func (s *Session) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// LastSaved returns when the last successful save completed.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSave
}

// generateSessionID creates a cryptographically secure session ID
func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
