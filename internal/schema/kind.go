package schema

// Kind is the closed enumeration of section types.
type Kind string

const (
	KindHero               Kind = "hero"
	KindLandingHero        Kind = "landing_hero"
	KindProblemSolution    Kind = "problem_solution"
	KindFeatures           Kind = "features"
	KindTextBlock          Kind = "text_block"
	KindCallToAction       Kind = "call_to_action"
	KindLandingCTA         Kind = "landing_cta"
	KindTeamMembers        Kind = "team_members"
	KindProjectGrid        Kind = "project_grid"
	KindSkillsMatrix       Kind = "skills_matrix"
	KindExperienceTimeline Kind = "experience_timeline"
	KindContactForm        Kind = "contact_form"
	KindTestimonials       Kind = "testimonials"
	KindStats              Kind = "stats"
	KindPricing            Kind = "pricing"
	KindFAQ                Kind = "faq"
	KindFooter             Kind = "footer"
)

// Kinds lists every known section kind in editor display order.
var Kinds = []Kind{
	KindHero,
	KindLandingHero,
	KindProblemSolution,
	KindFeatures,
	KindTextBlock,
	KindCallToAction,
	KindLandingCTA,
	KindTeamMembers,
	KindProjectGrid,
	KindSkillsMatrix,
	KindExperienceTimeline,
	KindContactForm,
	KindTestimonials,
	KindStats,
	KindPricing,
	KindFAQ,
	KindFooter,
}

// Known reports whether k is one of the enumerated kinds.
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// ListSpec names a list-valued field of a section kind and the legacy keys
// older documents may store it under. Key is the canonical name.
type ListSpec struct {
	Key    string
	Legacy []string
}

// Keys returns the canonical key followed by its legacy keys.
func (s ListSpec) Keys() []string {
	return append([]string{s.Key}, s.Legacy...)
}

// kindLists maps each list-bearing kind to its lists. The first entry is the
// primary list addressed by item operations when no list is named.
var kindLists = map[Kind][]ListSpec{
	KindFeatures:           {{Key: "items", Legacy: []string{"features"}}},
	KindTeamMembers:        {{Key: "members", Legacy: []string{"team"}}},
	KindProjectGrid:        {{Key: "projects"}},
	KindSkillsMatrix:       {{Key: "categories", Legacy: []string{"skills"}}},
	KindExperienceTimeline: {{Key: "experiences", Legacy: []string{"jobs"}}},
	KindContactForm:        {{Key: "socialLinks"}},
	KindTestimonials:       {{Key: "testimonials"}},
	KindStats:              {{Key: "stats"}},
	KindPricing:            {{Key: "plans"}},
	KindFAQ:                {{Key: "items", Legacy: []string{"faqs"}}},
	KindFooter:             {{Key: "links"}, {Key: "socialLinks"}},
}

// Lists returns the list fields of kind k, primary first.
func Lists(k Kind) []ListSpec {
	return kindLists[k]
}

// List returns the list spec of kind k named key. An empty key selects the
// primary list.
func List(k Kind, key string) (ListSpec, bool) {
	specs := kindLists[k]
	if len(specs) == 0 {
		return ListSpec{}, false
	}
	if key == "" {
		return specs[0], true
	}
	for _, s := range specs {
		for _, candidate := range s.Keys() {
			if candidate == key {
				return s, true
			}
		}
	}
	return ListSpec{}, false
}

// EmptyData returns the data bag a freshly added section of kind k starts with.
func EmptyData(k Kind) map[string]any {
	data := map[string]any{}
	for _, s := range kindLists[k] {
		data[s.Key] = []any{}
	}
	return data
}
