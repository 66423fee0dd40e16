package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

// Repository loads and stores site schemas by site ID.
type Repository interface {
	GetSchema(ctx context.Context, id string) (*schema.SiteSchema, error)
	SaveSchema(ctx context.Context, id string, s *schema.SiteSchema) error
}

// ManagerOptions configure a Manager.
type ManagerOptions struct {
	TTL             time.Duration // idle time before a session is closed
	Debounce        time.Duration
	DefaultTemplate string
	Assembler       *site.Assembler
	OnPreview       func(siteID string, files site.Files)
	Logger          *zap.Logger
	Metrics         *metrics.Collector
}

// Manager keeps one session per open site and closes idle ones.
type Manager struct {
	repo  Repository
	opts  ManagerOptions
	cache *cache.Cache
	mu    sync.Mutex // serializes Open
}

// NewManager creates a new session manager
func NewManager(repo Repository, opts ManagerOptions) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	m := &Manager{
		repo:  repo,
		opts:  opts,
		cache: cache.New(opts.TTL, cleanupInterval(opts.TTL)),
	}
	m.cache.OnEvicted(m.evicted)
	return m
}

func cleanupInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < 10*time.Millisecond {
		interval = 10 * time.Millisecond
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}

// evicted runs when the cache drops a session; idle sessions are flushed.
func (m *Manager) evicted(id string, v interface{}) {
	s, ok := v.(*Session)
	if !ok || s.Closed() {
		return
	}
	m.opts.Logger.Info("closing idle session", zap.String("site", id), zap.String("session", s.ID))
	if err := s.close(context.Background(), true); err != nil {
		m.opts.Logger.Error("flush on eviction failed", zap.String("site", id), zap.Error(err))
	}
}

// Open returns the live session for a site, loading it from the repository
// if needed. Loading validates the stored schema.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if s, ok := m.Get(id); ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.Get(id); ok {
		return s, nil
	}

	stored, err := m.repo.GetSchema(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.Template == "" {
		stored.Template = m.opts.DefaultTemplate
	}
	if err := stored.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", id, err)
	}

	var onPreview func(site.Files)
	if m.opts.OnPreview != nil {
		onPreview = func(files site.Files) { m.opts.OnPreview(id, files) }
	}
	doc := stored.GeneratedData
	s, err := New(&doc, Options{
		SiteID:     id,
		Template:   stored.Template,
		UserPrompt: stored.UserPrompt,
		Assembler:  m.opts.Assembler,
		Save: func(ctx context.Context, sch *schema.SiteSchema) error {
			return m.repo.SaveSchema(ctx, id, sch)
		},
		OnPreview: onPreview,
		OnSaveError: func(err error) {
			m.opts.Logger.Warn("site not saved, edits kept in memory", zap.String("site", id), zap.Error(err))
		},
		Debounce: m.opts.Debounce,
		Logger:   m.opts.Logger,
		Metrics:  m.opts.Metrics,
	})
	if err != nil {
		return nil, err
	}
	m.cache.SetDefault(id, s)
	return s, nil
}

// Get returns an open session and refreshes its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	if s.Closed() {
		return nil, false
	}
	m.cache.SetDefault(id, s)
	return s, true
}

// Apply opens the site's session and applies op to it.
func (m *Manager) Apply(ctx context.Context, id string, op Op) (*Session, error) {
	s, err := m.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, s.Apply(op)
}

// Close flushes and closes one session.
func (m *Manager) Close(ctx context.Context, id string) error {
	v, ok := m.cache.Get(id)
	if !ok {
		return nil
	}
	err := v.(*Session).Close(ctx)
	m.cache.Delete(id)
	return err
}

// CloseAll flushes and closes every open session.
func (m *Manager) CloseAll(ctx context.Context) error {
	var firstErr error
	for id := range m.cache.Items() {
		if err := m.Close(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	return m.cache.ItemCount()
}
