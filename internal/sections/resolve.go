package sections

import (
	"strings"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/substitute"
)

// Every Resolve function reads one kind's loosely typed data bag into its
// typed form. Field lookups try the canonical key first, then the legacy
// keys in order, then the configured default.

// CTAData serves hero, landing_hero, call_to_action and landing_cta.
type CTAData struct {
	Heading     string
	Subheading  string
	CTAText     string
	CTALink     string
	TrustSignal string
}

func ResolveCTA(d map[string]any, def kits.Defaults) CTAData {
	return CTAData{
		Heading:     text(d, "heading"),
		Subheading:  text(d, "subheading", "description"),
		CTAText:     or(text(d, "ctaText", "buttonText"), def.CTAText),
		CTALink:     relativeLink(or(text(d, "ctaLink"), "#")),
		TrustSignal: text(d, "trustSignal"),
	}
}

func (c CTAData) vars() substitute.Vars {
	return substitute.Vars{
		"heading":     c.Heading,
		"subheading":  c.Subheading,
		"ctaText":     c.CTAText,
		"ctaLink":     c.CTALink,
		"trustSignal": c.TrustSignal,
	}
}

type ProblemSolutionData struct {
	ProblemHeading  string
	ProblemText     string
	SolutionHeading string
	SolutionText    string
}

func ResolveProblemSolution(d map[string]any) ProblemSolutionData {
	return ProblemSolutionData{
		ProblemHeading:  text(d, "problemHeading", "problemTitle"),
		ProblemText:     text(d, "problemText", "problem"),
		SolutionHeading: text(d, "solutionHeading", "solutionTitle"),
		SolutionText:    text(d, "solutionText", "solution"),
	}
}

func (p ProblemSolutionData) vars() substitute.Vars {
	return substitute.Vars{
		"problemHeading":  p.ProblemHeading,
		"problemText":     p.ProblemText,
		"solutionHeading": p.SolutionHeading,
		"solutionText":    p.SolutionText,
	}
}

type FeatureItem struct {
	Icon        string
	Heading     string
	Description string
}

type FeaturesData struct {
	Title      string
	Subheading string
	Items      []FeatureItem
}

// ResolveFeatures assigns palette icons by position to items without one.
func ResolveFeatures(d map[string]any, def kits.Defaults) FeaturesData {
	out := FeaturesData{
		Title:      text(d, "title", "heading"),
		Subheading: text(d, "subheading", "description"),
	}
	for i, item := range list(d, schema.KindFeatures, "items") {
		out.Items = append(out.Items, FeatureItem{
			Icon:        or(text(item, "icon"), def.Icon(i)),
			Heading:     text(item, "heading", "title"),
			Description: text(item, "description"),
		})
	}
	return out
}

type TextBlockData struct {
	Title   string
	Content string
}

func ResolveTextBlock(d map[string]any) TextBlockData {
	return TextBlockData{
		Title:   text(d, "title", "heading"),
		Content: text(d, "content", "text"),
	}
}

type TeamMember struct {
	Name  string
	Role  string
	Bio   string
	Image string
}

type TeamData struct {
	Title   string
	Members []TeamMember
}

func ResolveTeam(d map[string]any, def kits.Defaults) TeamData {
	out := TeamData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindTeamMembers, "members") {
		out.Members = append(out.Members, TeamMember{
			Name:  text(item, "name"),
			Role:  text(item, "role"),
			Bio:   text(item, "bio", "description"),
			Image: or(text(item, "image"), def.PlaceholderImage),
		})
	}
	return out
}

type Project struct {
	Title       string
	Description string
	Category    string
	Image       string
	Link        string
}

type ProjectGridData struct {
	Title    string
	Projects []Project
}

func ResolveProjects(d map[string]any, def kits.Defaults) ProjectGridData {
	out := ProjectGridData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindProjectGrid, "projects") {
		out.Projects = append(out.Projects, Project{
			Title:       text(item, "title", "name"),
			Description: text(item, "description"),
			Category:    text(item, "category"),
			Image:       or(text(item, "image"), def.PlaceholderImage),
			Link:        relativeLink(or(text(item, "link", "url"), "#")),
		})
	}
	return out
}

type SkillCategory struct {
	Name   string
	Skills []string
}

type SkillsData struct {
	Title      string
	Categories []SkillCategory
}

func ResolveSkills(d map[string]any) SkillsData {
	out := SkillsData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindSkillsMatrix, "categories") {
		out.Categories = append(out.Categories, SkillCategory{
			Name:   text(item, "categoryName", "name", "title"),
			Skills: strs(item["skills"]),
		})
	}
	return out
}

type Experience struct {
	Role        string
	Company     string
	StartDate   string
	EndDate     string
	Description string
}

type TimelineData struct {
	Title       string
	Experiences []Experience
}

func ResolveTimeline(d map[string]any, def kits.Defaults) TimelineData {
	out := TimelineData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindExperienceTimeline, "experiences") {
		out.Experiences = append(out.Experiences, Experience{
			Role:        text(item, "role", "title"),
			Company:     text(item, "company", "organization"),
			StartDate:   text(item, "startDate"),
			EndDate:     or(text(item, "endDate"), def.EndDate),
			Description: text(item, "description"),
		})
	}
	return out
}

type SocialLink struct {
	Platform string
	URL      string
}

type ContactData struct {
	Title       string
	Description string
	SubmitText  string
	Email       string
	SocialLinks []SocialLink
}

func ResolveContact(d map[string]any, def kits.Defaults) ContactData {
	return ContactData{
		Title:       text(d, "title", "heading"),
		Description: text(d, "description", "subheading"),
		SubmitText:  or(text(d, "submitText", "buttonText"), def.SubmitText),
		Email:       text(d, "email"),
		SocialLinks: socialLinks(list(d, schema.KindContactForm, "socialLinks")),
	}
}

type Testimonial struct {
	Quote  string
	Author string
	Role   string
}

type TestimonialsData struct {
	Title string
	Items []Testimonial
}

func ResolveTestimonials(d map[string]any) TestimonialsData {
	out := TestimonialsData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindTestimonials, "testimonials") {
		out.Items = append(out.Items, Testimonial{
			Quote:  text(item, "quote", "text"),
			Author: text(item, "author", "name"),
			Role:   text(item, "role"),
		})
	}
	return out
}

type Stat struct {
	Value string
	Label string
}

type StatsData struct {
	Title string
	Items []Stat
}

func ResolveStats(d map[string]any) StatsData {
	out := StatsData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindStats, "stats") {
		out.Items = append(out.Items, Stat{
			Value: text(item, "value", "number"),
			Label: text(item, "label"),
		})
	}
	return out
}

type Plan struct {
	Name     string
	Price    string
	Period   string
	Features []string
	CTAText  string
	CTALink  string
	Featured bool
}

type PricingData struct {
	Title      string
	Subheading string
	Plans      []Plan
}

func ResolvePricing(d map[string]any, def kits.Defaults) PricingData {
	out := PricingData{
		Title:      text(d, "title", "heading"),
		Subheading: text(d, "subheading", "description"),
	}
	for _, item := range list(d, schema.KindPricing, "plans") {
		out.Plans = append(out.Plans, Plan{
			Name:     text(item, "name"),
			Price:    text(item, "price"),
			Period:   text(item, "period"),
			Features: strs(item["features"]),
			CTAText:  or(text(item, "ctaText"), def.PlanCTAText),
			CTALink:  relativeLink(or(text(item, "ctaLink"), "#")),
			Featured: truthy(item["featured"]),
		})
	}
	return out
}

type FAQItem struct {
	Question string
	Answer   string
}

type FAQData struct {
	Title string
	Items []FAQItem
}

func ResolveFAQ(d map[string]any) FAQData {
	out := FAQData{Title: text(d, "title", "heading")}
	for _, item := range list(d, schema.KindFAQ, "items") {
		out.Items = append(out.Items, FAQItem{
			Question: text(item, "question", "q"),
			Answer:   text(item, "answer", "a"),
		})
	}
	return out
}

type FooterLink struct {
	Label string
	URL   string
}

type FooterData struct {
	ContactText string
	Links       []FooterLink
	SocialLinks []SocialLink
}

func ResolveFooter(d map[string]any) FooterData {
	out := FooterData{
		ContactText: text(d, "contactText", "text"),
		SocialLinks: socialLinks(list(d, schema.KindFooter, "socialLinks")),
	}
	for _, item := range list(d, schema.KindFooter, "links") {
		out.Links = append(out.Links, FooterLink{
			Label: text(item, "label", "text"),
			URL:   relativeLink(or(text(item, "url"), "#")),
		})
	}
	return out
}

func socialLinks(items []map[string]any) []SocialLink {
	var out []SocialLink
	for _, item := range items {
		out = append(out, SocialLink{
			Platform: text(item, "platform", "name"),
			URL:      or(text(item, "url", "link"), "#"),
		})
	}
	return out
}

// text returns the first key holding a non-empty scalar.
func text(d map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := substitute.Stringify(d[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// relativeLink strips one leading slash so that links resolve inside the
// preview frame as well as on the published site.
func relativeLink(link string) string {
	return strings.TrimPrefix(link, "/")
}

// list returns the map items of one list field, reading legacy keys when
// the canonical key is absent. Items that are not objects are dropped.
func list(d map[string]any, kind schema.Kind, key string) []map[string]any {
	spec, ok := schema.List(kind, key)
	if !ok {
		return nil
	}
	for _, k := range spec.Keys() {
		v, ok := d[k]
		if !ok || v == nil {
			continue
		}
		var out []map[string]any
		switch items := v.(type) {
		case []any:
			for _, item := range items {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
				}
			}
		case []map[string]any:
			out = append(out, items...)
		}
		return out
	}
	return nil
}

// strs returns the scalar members of a list as strings.
func strs(v any) []string {
	var out []string
	switch items := v.(type) {
	case []any:
		for _, item := range items {
			if s, ok := substitute.Stringify(item); ok && s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range items {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	case float64:
		return t != 0
	}
	return false
}
