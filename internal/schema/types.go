// Package schema defines the site document model: the in-memory SiteDocument
// edited by users, and the SiteSchema envelope persisted by the storage layer.
//
// Rendered files are always derived from these types and never stored.
package schema

const (
	// HomeFileName is the file name pinned to the first page of every document.
	HomeFileName = "index.html"

	// HomePath is the path pinned to the first page of every document.
	HomePath = "/"
)

// Metadata holds site-wide values shared by every page.
type Metadata struct {
	Title       string `json:"title"`
	NavTitle    string `json:"navTitle"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Slug        string `json:"slug"` // Public hosting identifier, unique across stored sites
}

// Section is one content block of a page.
//
// Data is an open attribute bag. Its shape depends on Type and tolerates
// legacy key names; the sections package resolves it into typed values.
type Section struct {
	Type Kind           `json:"type"`
	Data map[string]any `json:"data"`
}

// Page is one HTML file of the site.
type Page struct {
	Path      string    `json:"path"`
	FileName  string    `json:"fileName" validate:"required"`
	NavLabel  string    `json:"navLabel"`
	PageTitle string    `json:"pageTitle"`
	Sections  []Section `json:"sections"`
}

// IsHome reports whether the page is the site's home page.
func (p Page) IsHome() bool {
	return p.FileName == HomeFileName
}

// Document is the root artifact: metadata plus an ordered list of pages.
// The first page is always the home page.
type Document struct {
	Metadata Metadata `json:"siteMetadata"`
	Pages    []Page   `json:"pages" validate:"min=1,dive"`
}

// HomeIndex returns the index of the page named index.html, or -1.
func (d *Document) HomeIndex() int {
	for i, p := range d.Pages {
		if p.IsHome() {
			return i
		}
	}
	return -1
}

// SiteSchema is the persisted envelope: the single source of truth for a site.
type SiteSchema struct {
	UserPrompt    string   `json:"userPrompt"`
	GeneratedData Document `json:"generatedData"`
	Template      string   `json:"template"`
}
