package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/livefir/onprty/internal/schema"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// goose keeps its dialect and base FS in package state.
var gooseMu sync.Mutex

// SQLite is the SQLite-backed Store.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ Store = (*SQLite)(nil)

// Option configures a SQLite store.
type Option func(*SQLite)

func WithLogger(l *zap.Logger) Option {
	return func(s *SQLite) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SQLite) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the database at path and applies all
// pending migrations.
func Open(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("site store ready", zap.String("path", path))
	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Create(ctx context.Context, site *StoredSite) error {
	if site.Status == "" {
		site.Status = StatusDraft
	}
	if err := site.Validate(); err != nil {
		return fmt.Errorf("invalid site: %w", err)
	}

	site.ID = uuid.NewString()
	site.Slug = EnsureUniqueSlug(ctx, s.SlugExists, site.Slug)
	site.Schema.GeneratedData.Metadata.Slug = site.Slug
	raw, err := site.Schema.Encode()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	site.CreatedAt, site.UpdatedAt = now, now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, description, slug, schema_json, status, published_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		site.ID, site.Name, site.Description, site.Slug, string(raw),
		string(site.Status), site.PublishedURL, formatTime(now), formatTime(now))
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrSlugTaken, site.Slug)
	}
	if err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}
	return nil
}

const selectSite = `SELECT id, name, description, slug, schema_json, status, published_url, created_at, updated_at FROM sites`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (*StoredSite, error) {
	var (
		site             StoredSite
		raw, status      string
		created, updated string
	)
	if err := row.Scan(&site.ID, &site.Name, &site.Description, &site.Slug, &raw, &status, &site.PublishedURL, &created, &updated); err != nil {
		return nil, err
	}
	var sch schema.SiteSchema
	if err := json.Unmarshal([]byte(raw), &sch); err != nil {
		return nil, fmt.Errorf("site %s: corrupt schema: %w", site.ID, err)
	}
	site.Schema = &sch
	site.Status = Status(status)
	site.CreatedAt = parseTime(created)
	site.UpdatedAt = parseTime(updated)
	return &site, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*StoredSite, error) {
	site, err := scanSite(s.db.QueryRowContext(ctx, selectSite+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return site, err
}

// List returns all sites, most recently updated first.
func (s *SQLite) List(ctx context.Context) ([]*StoredSite, error) {
	rows, err := s.db.QueryContext(ctx, selectSite+` ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []*StoredSite
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	return expectRow(res, id)
}

func (s *SQLite) GetSchema(ctx context.Context, id string) (*schema.SiteSchema, error) {
	site, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return site.Schema, nil
}

// SaveSchema overwrites the schema. An edited metadata slug moves the
// record to that slug, made unique among the other sites; the slug finally
// stored is written back into sch.
func (s *SQLite) SaveSchema(ctx context.Context, id string, sch *schema.SiteSchema) error {
	if sch == nil {
		return errors.New("nil schema")
	}
	if err := sch.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	var current string
	err := s.db.QueryRowContext(ctx, `SELECT slug FROM sites WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}
	slug := s.nextSlug(ctx, id, current, schema.Slugify(sch.GeneratedData.Metadata.Slug))
	sch.GeneratedData.Metadata.Slug = slug

	raw, err := sch.Encode()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sites SET schema_json = ?, slug = ?, updated_at = ? WHERE id = ?`,
		string(raw), slug, formatTime(s.now().UTC()), id)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}
	if err != nil {
		return fmt.Errorf("failed to save schema: %w", err)
	}
	if slug != current {
		s.logger.Info("site slug changed", zap.String("site", id), zap.String("from", current), zap.String("to", slug))
	}
	return expectRow(res, id)
}

// nextSlug picks the record slug for a requested metadata slug. An empty
// request keeps current, as does a suffixed variant of the request that the
// site already holds.
func (s *SQLite) nextSlug(ctx context.Context, id, current, requested string) string {
	if requested == "" || requested == current {
		return current
	}
	if strings.HasPrefix(current, requested+"-") && len(current) == len(requested)+5 {
		return current
	}
	others := func(ctx context.Context, slug string) (bool, error) {
		var n int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sites WHERE slug = ? AND id <> ?`, slug, id).Scan(&n)
		return n > 0, err
	}
	return EnsureUniqueSlug(ctx, others, requested)
}

func (s *SQLite) SetStatus(ctx context.Context, id string, status Status, publishedURL string) error {
	if err := validate.Var(string(status), "oneof=draft published error"); err != nil {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sites SET status = ?, published_url = ?, updated_at = ? WHERE id = ?`,
		string(status), publishedURL, formatTime(s.now().UTC()), id)
	if err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return expectRow(res, id)
}

func (s *SQLite) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM sites WHERE slug = ?`, slug).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
