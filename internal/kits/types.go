package kits

import (
	"regexp"
	"strings"
)

// KitSource represents where a kit was loaded from
type KitSource string

const (
	SourceSystem KitSource = "system" // Built-in, embedded in the binary
	SourceLocal  KitSource = "local"  // User directories from template_paths
)

// ManifestFileName is the kit manifest inside every kit directory.
const ManifestFileName = "kit.yaml"

// Asset names shared by every template. Placeholder contracts are the same
// across templates; only the markup differs.
const (
	AssetBase   = "base.html"
	AssetStyles = "styles.css"
	AssetScript = "script.js"

	AssetHero               = "hero.html"
	AssetLandingHero        = "landing-hero.html"
	AssetProblemSolution    = "problem-solution.html"
	AssetFeatures           = "features.html"
	AssetFeaturesItem       = "features-item.html"
	AssetTextBlock          = "text-block.html"
	AssetCallToAction       = "call-to-action.html"
	AssetLandingCTA         = "landing-cta.html"
	AssetTeamMembers        = "team-members.html"
	AssetTeamMemberItem     = "team-member-item.html"
	AssetProjectGrid        = "project-grid.html"
	AssetProjectItem        = "project-item.html"
	AssetSkillsMatrix       = "skills-matrix.html"
	AssetSkillCategory      = "skill-category.html"
	AssetExperienceTimeline = "experience-timeline.html"
	AssetExperienceItem     = "experience-item.html"
	AssetContactForm        = "contact-form.html"
)

// StandardAssets lists the assets a complete kit provides. Kits may omit
// any of them; the affected sections then render empty.
var StandardAssets = []string{
	AssetBase, AssetStyles, AssetScript,
	AssetHero, AssetLandingHero, AssetProblemSolution,
	AssetFeatures, AssetFeaturesItem, AssetTextBlock,
	AssetCallToAction, AssetLandingCTA,
	AssetTeamMembers, AssetTeamMemberItem,
	AssetProjectGrid, AssetProjectItem,
	AssetSkillsMatrix, AssetSkillCategory,
	AssetExperienceTimeline, AssetExperienceItem,
	AssetContactForm,
}

// KitManifest represents the kit.yaml file structure
type KitManifest struct {
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version"`
	Description string    `yaml:"description"`
	Author      string    `yaml:"author,omitempty"`
	License     string    `yaml:"license,omitempty"`
	Tags        []string  `yaml:"tags,omitempty"`
	Defaults    *Defaults `yaml:"defaults,omitempty"` // Overrides for item defaults
}

// Kit is a loaded template: its manifest plus every asset file keyed by name.
type Kit struct {
	Manifest KitManifest
	Source   KitSource
	Path     string
	Assets   map[string]string
}

// SearchOptions filters List results.
type SearchOptions struct {
	Source KitSource // empty = all
	Query  string    // matched against name, description and tags
}

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Validate checks if the kit manifest is valid
func (m *KitManifest) Validate() error {
	if m.Name == "" {
		return ErrInvalidManifest{Field: "name", Reason: "name is required"}
	}
	if m.Version == "" {
		return ErrInvalidManifest{Field: "version", Reason: "version is required"}
	}
	if !versionPattern.MatchString(m.Version) {
		return ErrInvalidManifest{Field: "version", Reason: "version must be semantic (x.y.z)"}
	}
	if m.Description == "" {
		return ErrInvalidManifest{Field: "description", Reason: "description is required"}
	}
	return nil
}

// MatchesQuery checks if the kit matches a search query
func (m *KitManifest) MatchesQuery(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Description), q) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Name returns the manifest name.
func (k *Kit) Name() string {
	return k.Manifest.Name
}

// MissingAssets reports which standard assets the kit does not provide.
func (k *Kit) MissingAssets() []string {
	var missing []string
	for _, name := range StandardAssets {
		if _, ok := k.Assets[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
