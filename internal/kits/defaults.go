package kits

import (
	"github.com/livefir/onprty/internal/schema"
)

// Defaults holds the boilerplate used when a section or item is missing
// content. Kits and the config file may override any field.
type Defaults struct {
	Icons            []string `yaml:"icons,omitempty"`
	PlaceholderImage string   `yaml:"placeholder_image,omitempty"`
	CTAText          string   `yaml:"cta_text,omitempty"`
	SubmitText       string   `yaml:"submit_text,omitempty"`
	PlanCTAText      string   `yaml:"plan_cta_text,omitempty"`
	EndDate          string   `yaml:"end_date,omitempty"`

	// NewItems maps "<kind>.<list>" (e.g. "features.items") to the item
	// inserted by addItem.
	NewItems map[string]map[string]any `yaml:"new_items,omitempty"`
}

// BuiltinDefaults returns the defaults used when nothing overrides them.
func BuiltinDefaults() Defaults {
	return Defaults{
		Icons:            []string{"⚡", "🎨", "📱", "🚀", "💡", "🔧", "📊", "🎯", "🌟", "💎"},
		PlaceholderImage: "https://via.placeholder.com/150",
		CTAText:          "Learn More",
		SubmitText:       "Send Message",
		PlanCTAText:      "Get Started",
		EndDate:          "Present",
		NewItems: map[string]map[string]any{
			"features.items": {
				"icon": "⭐", "heading": "New Feature", "description": "Feature description",
			},
			"team_members.members": {
				"name": "New Member", "role": "Role", "bio": "Bio",
				"image": "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?w=150&h=150",
			},
			"project_grid.projects": {
				"title": "New Project", "description": "Project description", "category": "", "image": "", "link": "#",
			},
			"skills_matrix.categories": {
				"categoryName": "New Category", "skills": []any{},
			},
			"experience_timeline.experiences": {
				"role": "Role", "company": "Company", "startDate": "", "endDate": "", "description": "",
			},
			"contact_form.socialLinks": {
				"platform": "Platform", "url": "#",
			},
			"testimonials.testimonials": {
				"quote": "Testimonial quote", "author": "Name", "role": "Role",
			},
			"stats.stats": {
				"value": "0", "label": "Label",
			},
			"pricing.plans": {
				"name": "New Plan", "price": "$0", "period": "month", "features": []any{},
				"ctaText": "Get Started", "ctaLink": "#", "featured": false,
			},
			"faq.items": {
				"question": "New question?", "answer": "Answer",
			},
			"footer.links": {
				"label": "Link", "url": "#",
			},
			"footer.socialLinks": {
				"platform": "Platform", "url": "#",
			},
		},
	}
}

// Merge returns d with every non-empty field of o applied on top.
// NewItems are merged per key.
func (d Defaults) Merge(o *Defaults) Defaults {
	if o == nil {
		return d
	}
	out := d
	if len(o.Icons) > 0 {
		out.Icons = append([]string(nil), o.Icons...)
	}
	if o.PlaceholderImage != "" {
		out.PlaceholderImage = o.PlaceholderImage
	}
	if o.CTAText != "" {
		out.CTAText = o.CTAText
	}
	if o.SubmitText != "" {
		out.SubmitText = o.SubmitText
	}
	if o.PlanCTAText != "" {
		out.PlanCTAText = o.PlanCTAText
	}
	if o.EndDate != "" {
		out.EndDate = o.EndDate
	}
	if len(o.NewItems) > 0 {
		items := make(map[string]map[string]any, len(d.NewItems)+len(o.NewItems))
		for k, v := range d.NewItems {
			items[k] = v
		}
		for k, v := range o.NewItems {
			items[k] = v
		}
		out.NewItems = items
	}
	return out
}

// Icon returns the palette glyph for position i.
func (d Defaults) Icon(i int) string {
	if len(d.Icons) == 0 || i < 0 {
		return ""
	}
	return d.Icons[i%len(d.Icons)]
}

// NewItem returns a fresh copy of the default item for a list. Unknown
// lists yield an empty item.
func (d Defaults) NewItem(kind schema.Kind, list string) map[string]any {
	item, ok := d.NewItems[string(kind)+"."+list]
	if !ok {
		return map[string]any{}
	}
	return schema.CloneMap(item)
}
