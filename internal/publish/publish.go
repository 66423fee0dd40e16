// Package publish delivers rendered file maps to a public location.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

var ErrInvalidSlug = errors.New("invalid slug")

// Publisher exposes a site under its slug.
type Publisher interface {
	Publish(ctx context.Context, slug string, files site.Files) (string, error)
	Unpublish(ctx context.Context, slug string) error
}

// DirPublisher writes sites to <Root>/<slug>/ for a static web server to
// serve from BaseURL.
type DirPublisher struct {
	Root    string
	BaseURL string
	Logger  *zap.Logger
}

var _ Publisher = (*DirPublisher)(nil)

// NewDirPublisher returns a DirPublisher rooted at root.
func NewDirPublisher(root, baseURL string, logger *zap.Logger) *DirPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirPublisher{Root: root, BaseURL: baseURL, Logger: logger}
}

// Publish replaces the site directory with files and returns the public URL.
func (p *DirPublisher) Publish(ctx context.Context, slug string, files site.Files) (string, error) {
	dir, err := p.siteDir(slug)
	if err != nil {
		return "", err
	}

	// Write into a sibling directory first so a failed publish leaves the
	// previous version in place.
	staging := dir + ".tmp"
	if err := os.RemoveAll(staging); err != nil {
		return "", err
	}
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("failed to create publish directory: %w", err)
	}

	for _, name := range files.Names() {
		if err := ctx.Err(); err != nil {
			os.RemoveAll(staging)
			return "", err
		}
		if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			os.RemoveAll(staging)
			return "", fmt.Errorf("refusing to publish file %q", name)
		}
		if err := os.WriteFile(filepath.Join(staging, name), []byte(files[name]), 0o644); err != nil {
			os.RemoveAll(staging)
			return "", fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	if err := os.Rename(staging, dir); err != nil {
		return "", fmt.Errorf("failed to activate published site: %w", err)
	}

	url := p.URL(slug)
	p.Logger.Info("site published", zap.String("slug", slug), zap.String("url", url), zap.Int("files", len(files)))
	return url, nil
}

// Unpublish removes the site directory. Unknown slugs are not an error.
func (p *DirPublisher) Unpublish(_ context.Context, slug string) error {
	dir, err := p.siteDir(slug)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to unpublish %s: %w", slug, err)
	}
	p.Logger.Info("site unpublished", zap.String("slug", slug))
	return nil
}

// URL returns the public address of a published slug.
func (p *DirPublisher) URL(slug string) string {
	return strings.TrimRight(p.BaseURL, "/") + "/" + slug + "/"
}

func (p *DirPublisher) siteDir(slug string) (string, error) {
	if slug == "" || schema.Slugify(slug) != slug {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return filepath.Join(p.Root, slug), nil
}
