package editor

import (
	"fmt"
	"strconv"

	"github.com/livefir/onprty/internal/schema"
)

// AddPage appends an empty page titled "Page N", where N is the new page
// count.
func AddPage(doc *schema.Document) (*schema.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", ErrPageIndex)
	}
	out := doc.Clone()
	n := strconv.Itoa(len(out.Pages) + 1)
	slug := uniqueSlug(out, "page"+n, -1)
	out.Pages = append(out.Pages, schema.Page{
		Path:      schema.PagePath(slug),
		FileName:  schema.PageFileName(slug),
		NavLabel:  "Page " + n,
		PageTitle: "Page " + n,
		Sections:  []schema.Section{},
	})
	return out, nil
}

// RemovePage deletes a non-home page.
func RemovePage(doc *schema.Document, pageIdx int) (*schema.Document, error) {
	p, err := page(doc, pageIdx)
	if err != nil {
		return nil, err
	}
	if p.IsHome() {
		return nil, ErrHomePage
	}
	out := doc.Clone()
	out.Pages = append(out.Pages[:pageIdx], out.Pages[pageIdx+1:]...)
	return out, nil
}

// MovePage swaps a page with its neighbour. The home page stays first:
// moving it, moving onto it, or moving past the end returns doc unchanged.
func MovePage(doc *schema.Document, pageIdx int, dir Direction) (*schema.Document, error) {
	p, err := page(doc, pageIdx)
	if err != nil {
		return nil, err
	}
	target := pageIdx + int(dir)
	if p.IsHome() || target < 0 || target >= len(doc.Pages) || doc.Pages[target].IsHome() {
		return doc, nil
	}
	out := doc.Clone()
	out.Pages[pageIdx], out.Pages[target] = out.Pages[target], out.Pages[pageIdx]
	return out, nil
}

// UpdatePageTitle sets a page title. Non-home pages also take a file name
// and path derived from the title; a colliding name gets a numeric suffix.
// The home page is re-pinned to index.html and "/".
func UpdatePageTitle(doc *schema.Document, pageIdx int, title string) (*schema.Document, error) {
	out := doc.Clone()
	p, err := page(out, pageIdx)
	if err != nil {
		return nil, err
	}
	p.PageTitle = title
	if pageIdx == 0 || p.IsHome() {
		p.FileName = schema.HomeFileName
		p.Path = schema.HomePath
		return out, nil
	}
	slug := uniqueSlug(out, schema.PageSlug(title), pageIdx)
	p.FileName = schema.PageFileName(slug)
	p.Path = schema.PagePath(slug)
	return out, nil
}

// UpdateNavLabel sets the navigation text of a page without touching its title.
func UpdateNavLabel(doc *schema.Document, pageIdx int, label string) (*schema.Document, error) {
	out := doc.Clone()
	p, err := page(out, pageIdx)
	if err != nil {
		return nil, err
	}
	p.NavLabel = label
	return out, nil
}
