package kits

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Markers in base.html that the assembler swaps for inline blocks.
const (
	StylesLink = `<link rel="stylesheet" href="styles.css">`
	ScriptTag  = `<script src="script.js"></script>`
)

// Level is the severity of a validation issue.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Issue is one validation finding.
type Issue struct {
	Level   Level
	Message string
	File    string
}

func (i Issue) String() string {
	if i.File == "" {
		return fmt.Sprintf("[%s] %s", i.Level, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Level, i.File, i.Message)
}

// ValidationResult collects the issues found in a kit directory.
type ValidationResult struct {
	Issues []Issue
}

func (r *ValidationResult) add(level Level, file, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Level: level, Message: fmt.Sprintf(format, args...), File: file})
}

// HasErrors reports whether any issue is an error.
func (r *ValidationResult) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Level == LevelError {
			return true
		}
	}
	return false
}

// Count returns the number of issues at level.
func (r *ValidationResult) Count(level Level) int {
	n := 0
	for _, i := range r.Issues {
		if i.Level == level {
			n++
		}
	}
	return n
}

// basePlaceholders are the page variables base.html is expected to use.
var basePlaceholders = []string{"pageTitle", "navigation", "content"}

var (
	placeholderToken = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	spacedName       = regexp.MustCompile(`^\s|\s$`)
)

// ValidateDir checks a kit directory before it is added to template_paths.
// Missing fragments are warnings because rendering treats them as empty.
func ValidateDir(dir string) *ValidationResult {
	result := &ValidationResult{}

	info, err := os.Stat(dir)
	if err != nil {
		result.add(LevelError, dir, "kit directory not found")
		return result
	}
	if !info.IsDir() {
		result.add(LevelError, dir, "path is not a directory")
		return result
	}

	kit, err := loadKit(os.DirFS(dir), ".", SourceLocal, dir)
	if err != nil {
		result.add(LevelError, ManifestFileName, "%v", err)
		return result
	}

	if kit.Manifest.Author == "" {
		result.add(LevelWarning, ManifestFileName, "author field is empty")
	}
	if kit.Manifest.License == "" {
		result.add(LevelWarning, ManifestFileName, "license field is empty")
	}
	if len(kit.Manifest.Tags) == 0 {
		result.add(LevelInfo, ManifestFileName, "no tags specified - consider adding tags for discoverability")
	}

	for _, name := range kit.MissingAssets() {
		level := LevelWarning
		if name == AssetBase {
			level = LevelError
		}
		result.add(level, name, "asset is missing")
	}

	if base, ok := kit.Assets[AssetBase]; ok {
		for _, p := range basePlaceholders {
			if !strings.Contains(base, "{{"+p+"}}") {
				result.add(LevelWarning, AssetBase, "no {{%s}} placeholder", p)
			}
		}
		if !strings.Contains(base, StylesLink) {
			result.add(LevelWarning, AssetBase, "stylesheet link %s not found; styles will not be inlined", StylesLink)
		}
		if !strings.Contains(base, ScriptTag) {
			result.add(LevelWarning, AssetBase, "script tag %s not found; script will not be inlined", ScriptTag)
		}
	}

	for _, name := range StandardAssets {
		body, ok := kit.Assets[name]
		if !ok || !strings.HasSuffix(name, ".html") {
			continue
		}
		for _, m := range placeholderToken.FindAllStringSubmatch(body, -1) {
			if spacedName.MatchString(m[1]) {
				result.add(LevelWarning, name, "placeholder %q has surrounding spaces and will never match", m[0])
			}
		}
	}

	return result
}
