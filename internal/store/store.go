// Package store persists site schemas. Rendered files are never stored;
// they are derived from the schema on every load.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/livefir/onprty/internal/schema"
)

var (
	ErrNotFound  = errors.New("site not found")
	ErrSlugTaken = errors.New("slug already in use")
)

// Status is the publishing lifecycle state of a stored site.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusError     Status = "error"
)

// StoredSite is the storage record around a schema.
type StoredSite struct {
	ID           string             `json:"id"`
	Name         string             `json:"name" validate:"required"`
	Description  string             `json:"description"`
	Slug         string             `json:"slug" validate:"required"`
	Schema       *schema.SiteSchema `json:"schema" validate:"required"`
	Status       Status             `json:"status" validate:"oneof=draft published error"`
	PublishedURL string             `json:"publishedUrl"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Store is the storage collaborator.
type Store interface {
	// Create assigns an ID, makes the slug unique and inserts the site.
	Create(ctx context.Context, site *StoredSite) error
	Get(ctx context.Context, id string) (*StoredSite, error)
	List(ctx context.Context) ([]*StoredSite, error)
	Delete(ctx context.Context, id string) error

	GetSchema(ctx context.Context, id string) (*schema.SiteSchema, error)
	// SaveSchema overwrites the stored schema in full and keeps the record
	// slug in step with the metadata slug.
	SaveSchema(ctx context.Context, id string, s *schema.SiteSchema) error
	SetStatus(ctx context.Context, id string, status Status, publishedURL string) error

	SlugExists(ctx context.Context, slug string) (bool, error)
	Close() error
}

var validate = validator.New()

// Validate checks the record and the schema it carries.
func (s *StoredSite) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	return s.Schema.Validate()
}

// NewSite builds a draft record for a schema, naming it after the site
// title and deriving the slug from the metadata slug or the title.
func NewSite(s *schema.SiteSchema) *StoredSite {
	meta := s.GeneratedData.Metadata
	name := meta.Title
	if name == "" {
		name = "Untitled site"
	}
	slug := schema.Slugify(meta.Slug)
	if slug == "" {
		slug = schema.PageSlug(name)
	}
	return &StoredSite{
		Name:        name,
		Description: meta.Description,
		Slug:        slug,
		Schema:      s,
		Status:      StatusDraft,
	}
}

// EnsureUniqueSlug returns slug if it is free, otherwise slug with a short
// random suffix. The check is advisory: if it fails, slug is returned as is.
func EnsureUniqueSlug(ctx context.Context, exists func(context.Context, string) (bool, error), slug string) string {
	candidate := slug
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return slug
		}
		if !taken {
			return candidate
		}
		candidate = slug + "-" + uuid.NewString()[:4]
	}
	return candidate
}
