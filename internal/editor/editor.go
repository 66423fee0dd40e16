// Package editor implements the editing model: structural operations on a
// site document. Every operation leaves its input untouched and returns a
// new document; callers must continue from the returned value.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/schema"
)

var (
	ErrPageIndex    = errors.New("page index out of range")
	ErrSectionIndex = errors.New("section index out of range")
	ErrItemIndex    = errors.New("item index out of range")
	ErrUnknownKind  = errors.New("unknown section type")
	ErrNoList       = errors.New("section has no such list")
	ErrHomePage     = errors.New("the home page cannot be removed")
	ErrUnknownField = errors.New("unknown metadata field")
)

// Direction is the way a move operation shifts an element.
type Direction int

const (
	Up   Direction = -1
	Down Direction = 1
)

// ParseDirection accepts "up" and "down".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	}
	return 0, fmt.Errorf("invalid direction %q: want up or down", s)
}

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// UpdateSectionField replaces one key of a section's data, keeping the rest.
func UpdateSectionField(doc *schema.Document, pageIdx, sectionIdx int, field string, value any) (*schema.Document, error) {
	out := doc.Clone()
	sec, err := section(out, pageIdx, sectionIdx)
	if err != nil {
		return nil, err
	}
	if sec.Data == nil {
		sec.Data = map[string]any{}
	}
	sec.Data[field] = schema.CloneValue(value)
	return out, nil
}

// AddSection appends a section of kind with its empty default data.
func AddSection(doc *schema.Document, pageIdx int, kind schema.Kind) (*schema.Document, error) {
	if !kind.Known() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	out := doc.Clone()
	page, err := page(out, pageIdx)
	if err != nil {
		return nil, err
	}
	page.Sections = append(page.Sections, schema.Section{Type: kind, Data: schema.EmptyData(kind)})
	return out, nil
}

func RemoveSection(doc *schema.Document, pageIdx, sectionIdx int) (*schema.Document, error) {
	out := doc.Clone()
	if _, err := section(out, pageIdx, sectionIdx); err != nil {
		return nil, err
	}
	p := &out.Pages[pageIdx]
	p.Sections = append(p.Sections[:sectionIdx], p.Sections[sectionIdx+1:]...)
	return out, nil
}

// MoveSection swaps a section with its neighbour. Moving past either end
// returns doc unchanged.
func MoveSection(doc *schema.Document, pageIdx, sectionIdx int, dir Direction) (*schema.Document, error) {
	if _, err := section(doc, pageIdx, sectionIdx); err != nil {
		return nil, err
	}
	target := sectionIdx + int(dir)
	if target < 0 || target >= len(doc.Pages[pageIdx].Sections) {
		return doc, nil
	}
	out := doc.Clone()
	s := out.Pages[pageIdx].Sections
	s[sectionIdx], s[target] = s[target], s[sectionIdx]
	return out, nil
}

// AddItem appends item to a section list. An empty list name selects the
// kind's primary list.
func AddItem(doc *schema.Document, pageIdx, sectionIdx int, list string, item map[string]any) (*schema.Document, error) {
	out := doc.Clone()
	items, set, err := listOf(out, pageIdx, sectionIdx, list)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = map[string]any{}
	}
	set(append(items, schema.CloneMap(item)))
	return out, nil
}

// AddDefaultItem appends the configured default item for the list.
func AddDefaultItem(doc *schema.Document, pageIdx, sectionIdx int, list string, defaults kits.Defaults) (*schema.Document, error) {
	sec, err := section(doc, pageIdx, sectionIdx)
	if err != nil {
		return nil, err
	}
	spec, ok := schema.List(sec.Type, list)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no list %q", ErrNoList, sec.Type, list)
	}
	return AddItem(doc, pageIdx, sectionIdx, spec.Key, defaults.NewItem(sec.Type, spec.Key))
}

func RemoveItem(doc *schema.Document, pageIdx, sectionIdx int, list string, index int) (*schema.Document, error) {
	out := doc.Clone()
	items, set, err := listOf(out, pageIdx, sectionIdx, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	set(append(items[:index], items[index+1:]...))
	return out, nil
}

// MoveItem swaps an item with its neighbour. Moving past either end returns
// doc unchanged.
func MoveItem(doc *schema.Document, pageIdx, sectionIdx int, list string, index int, dir Direction) (*schema.Document, error) {
	out := doc.Clone()
	items, set, err := listOf(out, pageIdx, sectionIdx, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	target := index + int(dir)
	if target < 0 || target >= len(items) {
		return doc, nil
	}
	items[index], items[target] = items[target], items[index]
	set(items)
	return out, nil
}

// UpdateItem sets one field of a list item.
func UpdateItem(doc *schema.Document, pageIdx, sectionIdx int, list string, index int, field string, value any) (*schema.Document, error) {
	out := doc.Clone()
	items, set, err := listOf(out, pageIdx, sectionIdx, list)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	item, ok := items[index].(map[string]any)
	if !ok {
		item = map[string]any{}
	}
	item[field] = schema.CloneValue(value)
	items[index] = item
	set(items)
	return out, nil
}

// UpdateMetadata sets one site metadata field. The slug is normalised.
func UpdateMetadata(doc *schema.Document, field, value string) (*schema.Document, error) {
	out := doc.Clone()
	m := &out.Metadata
	switch field {
	case "title":
		m.Title = value
	case "navTitle":
		m.NavTitle = value
	case "description":
		m.Description = value
	case "author":
		m.Author = value
	case "slug":
		m.Slug = schema.Slugify(value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return out, nil
}

func page(doc *schema.Document, pageIdx int) (*schema.Page, error) {
	if doc == nil || pageIdx < 0 || pageIdx >= len(doc.Pages) {
		return nil, fmt.Errorf("%w: %d", ErrPageIndex, pageIdx)
	}
	return &doc.Pages[pageIdx], nil
}

func section(doc *schema.Document, pageIdx, sectionIdx int) (*schema.Section, error) {
	p, err := page(doc, pageIdx)
	if err != nil {
		return nil, err
	}
	if sectionIdx < 0 || sectionIdx >= len(p.Sections) {
		return nil, fmt.Errorf("%w: %d", ErrSectionIndex, sectionIdx)
	}
	return &p.Sections[sectionIdx], nil
}

// listOf resolves a list field of a section in doc, which must already be
// a private clone. Values stored under a legacy key are moved to the
// canonical key. The returned setter stores a new slice.
func listOf(doc *schema.Document, pageIdx, sectionIdx int, list string) ([]any, func([]any), error) {
	sec, err := section(doc, pageIdx, sectionIdx)
	if err != nil {
		return nil, nil, err
	}
	spec, ok := schema.List(sec.Type, list)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s has no list %q", ErrNoList, sec.Type, list)
	}
	if sec.Data == nil {
		sec.Data = map[string]any{}
	}

	var items []any
	if v, ok := sec.Data[spec.Key]; ok {
		items = asList(v)
	} else {
		for _, legacy := range spec.Legacy {
			if v, ok := sec.Data[legacy]; ok {
				items = asList(v)
				delete(sec.Data, legacy)
				break
			}
		}
	}
	if items == nil {
		items = []any{}
	}

	data := sec.Data
	set := func(v []any) { data[spec.Key] = v }
	set(items)
	return items, set, nil
}

func asList(v any) []any {
	if items, ok := schema.CloneValue(v).([]any); ok {
		return items
	}
	return nil
}

// uniqueSlug returns slug, or slug-2, slug-3, ... so that the resulting
// file name is not used by any page other than skip. "index" is reserved
// for the home page.
func uniqueSlug(doc *schema.Document, slug string, skip int) string {
	taken := map[string]bool{schema.HomeFileName: true}
	for i, p := range doc.Pages {
		if i != skip {
			taken[p.FileName] = true
		}
	}
	candidate := slug
	for n := 2; taken[schema.PageFileName(candidate)]; n++ {
		candidate = slug + "-" + strconv.Itoa(n)
	}
	return candidate
}
