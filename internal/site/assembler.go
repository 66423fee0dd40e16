// Package site assembles a whole site document into its file map: one HTML
// file per page plus the shared stylesheet and script.
package site

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/sections"
	"github.com/livefir/onprty/internal/substitute"
)

// Markers in base.html replaced by inline blocks in Inline mode.
const (
	StylesLink = kits.StylesLink
	ScriptTag  = kits.ScriptTag
)

// AssetMode selects how pages reference the shared stylesheet and script.
type AssetMode int

const (
	// Inline embeds styles.css and script.js into every page.
	Inline AssetMode = iota
	// Linked keeps the link and script tags so the files are fetched separately.
	Linked
)

func (m AssetMode) String() string {
	if m == Linked {
		return "linked"
	}
	return "inline"
}

// Files maps output file names to their content.
type Files map[string]string

// Names returns the file names in sorted order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Assembler renders documents to file maps.
type Assembler struct {
	registry *kits.Registry
	renderer *sections.Renderer
	mode     AssetMode
	clock    func() time.Time
	minify   bool
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures an Assembler.
type Option func(*Assembler)

func WithAssetMode(m AssetMode) Option {
	return func(a *Assembler) { a.mode = m }
}

// WithClock sets the time source for the footer year.
func WithClock(clock func() time.Time) Option {
	return func(a *Assembler) {
		if clock != nil {
			a.clock = clock
		}
	}
}

func WithMinify(enabled bool) Option {
	return func(a *Assembler) { a.minify = enabled }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(a *Assembler) { a.metrics = c }
}

// New returns an Assembler for the templates in registry.
func New(registry *kits.Registry, opts ...Option) *Assembler {
	a := &Assembler{
		registry: registry,
		clock:    time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.renderer = sections.New(registry, sections.WithLogger(a.logger), sections.WithMetrics(a.metrics))
	return a
}

// With returns a copy of the assembler with opts applied.
func (a *Assembler) With(opts ...Option) *Assembler {
	cp := *a
	for _, opt := range opts {
		opt(&cp)
	}
	cp.renderer = sections.New(cp.registry, sections.WithLogger(cp.logger), sections.WithMetrics(cp.metrics))
	return &cp
}

// HasTemplate reports whether template is registered.
func (a *Assembler) HasTemplate(template string) bool {
	return a.registry != nil && a.registry.Has(template)
}

// Defaults returns the item defaults in effect for template.
func (a *Assembler) Defaults(template string) kits.Defaults {
	if a.registry == nil {
		return kits.BuiltinDefaults()
	}
	return a.registry.Defaults(template)
}

// Mode reports the asset mode.
func (a *Assembler) Mode() AssetMode {
	return a.mode
}

// Render builds the file map for doc under template. The output depends
// only on its inputs and the clock's year.
func (a *Assembler) Render(doc *schema.Document, template string) Files {
	files := Files{}
	if doc == nil {
		return files
	}

	css := a.asset(template, kits.AssetStyles)
	js := a.asset(template, kits.AssetScript)
	base := a.asset(template, kits.AssetBase)
	if base == "" {
		a.logger.Warn("template has no base scaffold", zap.String("template", template))
	} else if a.mode == Inline {
		base = strings.Replace(base, StylesLink, "{{@styles}}", 1)
		base = strings.Replace(base, ScriptTag, "{{@script}}", 1)
	}

	nav := Navigation(doc)
	year := strconv.Itoa(a.clock().Year())

	for _, page := range doc.Pages {
		title := page.PageTitle
		if title == "" {
			title = doc.Metadata.Title
		}
		files[page.FileName] = substitute.Apply(base, substitute.Vars{
			"pageTitle":       title,
			"siteDescription": doc.Metadata.Description,
			"navigation":      nav,
			"content":         a.renderer.RenderAll(page.Sections, template),
			"currentYear":     year,
			"siteAuthor":      doc.Metadata.Author,
			"@styles":         "<style>" + css + "</style>",
			"@script":         "<script>" + js + "</script>",
		})
	}
	files[kits.AssetStyles] = css
	files[kits.AssetScript] = js

	if a.minify {
		minifyFiles(files)
	}
	a.metrics.RecordSiteRendered(len(doc.Pages))
	return files
}

func (a *Assembler) asset(template, name string) string {
	if a.registry == nil {
		return ""
	}
	return a.registry.Asset(template, name)
}

// Navigation builds the shared nav: a home link labelled with the site nav
// title, then one link per non-home page in page order.
func Navigation(doc *schema.Document) string {
	navTitle := doc.Metadata.NavTitle
	if navTitle == "" {
		navTitle = doc.Metadata.Title
	}

	var b strings.Builder
	b.WriteString(`<nav><a href="`)
	b.WriteString(schema.HomeFileName)
	b.WriteString(`">`)
	b.WriteString(navTitle)
	b.WriteString(`</a><div class="nav-links">`)
	for _, page := range doc.Pages {
		if page.IsHome() {
			continue
		}
		label := page.NavLabel
		if label == "" {
			label = page.PageTitle
		}
		b.WriteString(`<a href="`)
		b.WriteString(page.FileName)
		b.WriteString(`">`)
		b.WriteString(label)
		b.WriteString(`</a>`)
	}
	b.WriteString(`</div></nav>`)
	return b.String()
}
