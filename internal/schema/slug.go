package schema

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
// It returns "" when nothing survives.
func Slugify(text string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(slug, "-")
}

// PageSlug is Slugify with the literal "page" as fallback for empty results.
func PageSlug(title string) string {
	if slug := Slugify(title); slug != "" {
		return slug
	}
	return "page"
}

// PageFileName returns the file name for a page slug ("about" -> "about.html").
func PageFileName(slug string) string {
	return slug + ".html"
}

// PagePath returns the public path for a page slug ("about" -> "/about").
func PagePath(slug string) string {
	return "/" + slug
}
