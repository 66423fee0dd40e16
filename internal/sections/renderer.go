// Package sections renders one site section into an HTML fragment under a
// named template. Rendering never fails: unknown kinds and missing assets
// produce empty output.
package sections

import (
	"strings"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/substitute"
)

// Renderer renders sections using the assets of a kit registry.
type Renderer struct {
	registry *kits.Registry
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// Option configures a Renderer.
type Option func(*Renderer)

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(r *Renderer) {
		r.metrics = c
	}
}

// New returns a Renderer reading assets from registry.
func New(registry *kits.Registry, opts ...Option) *Renderer {
	r := &Renderer{
		registry: registry,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the fragment for one section.
func (r *Renderer) Render(sec schema.Section, template string) string {
	return r.render(sec, template, r.defaults(template))
}

// RenderAll concatenates the fragments of sections in order.
func (r *Renderer) RenderAll(secs []schema.Section, template string) string {
	def := r.defaults(template)
	var b strings.Builder
	for _, sec := range secs {
		b.WriteString(r.render(sec, template, def))
	}
	return b.String()
}

func (r *Renderer) defaults(template string) kits.Defaults {
	if r.registry == nil {
		return kits.BuiltinDefaults()
	}
	return r.registry.Defaults(template)
}

func (r *Renderer) render(sec schema.Section, tpl string, def kits.Defaults) string {
	d := sec.Data
	var out string

	switch sec.Type {
	case schema.KindHero:
		out = r.apply(tpl, kits.AssetHero, ResolveCTA(d, def).vars())
	case schema.KindLandingHero:
		out = r.apply(tpl, kits.AssetLandingHero, ResolveCTA(d, def).vars())
	case schema.KindCallToAction:
		out = r.apply(tpl, kits.AssetCallToAction, ResolveCTA(d, def).vars())
	case schema.KindLandingCTA:
		out = r.apply(tpl, kits.AssetLandingCTA, ResolveCTA(d, def).vars())
	case schema.KindProblemSolution:
		out = r.apply(tpl, kits.AssetProblemSolution, ResolveProblemSolution(d).vars())
	case schema.KindFeatures:
		out = r.features(tpl, ResolveFeatures(d, def))
	case schema.KindTextBlock:
		tb := ResolveTextBlock(d)
		out = r.apply(tpl, kits.AssetTextBlock, substitute.Vars{"title": tb.Title, "content": tb.Content})
	case schema.KindTeamMembers:
		out = r.team(tpl, ResolveTeam(d, def))
	case schema.KindProjectGrid:
		out = r.projects(tpl, ResolveProjects(d, def))
	case schema.KindSkillsMatrix:
		out = r.skills(tpl, ResolveSkills(d))
	case schema.KindExperienceTimeline:
		out = r.timeline(tpl, ResolveTimeline(d, def))
	case schema.KindContactForm:
		out = r.contact(tpl, ResolveContact(d, def))
	case schema.KindTestimonials:
		out = renderTestimonials(ResolveTestimonials(d))
	case schema.KindStats:
		out = renderStats(ResolveStats(d))
	case schema.KindPricing:
		out = renderPricing(ResolvePricing(d, def))
	case schema.KindFAQ:
		out = renderFAQ(ResolveFAQ(d))
	case schema.KindFooter:
		out = renderFooter(ResolveFooter(d))
	default:
		r.logger.Warn("unknown section type", zap.String("type", string(sec.Type)), zap.String("template", tpl))
		r.metrics.IncrementUnknownSection()
		return ""
	}

	r.metrics.IncrementSectionRendered()
	return out
}

// asset fetches a template asset, counting misses.
func (r *Renderer) asset(tpl, name string) string {
	if r.registry == nil {
		r.metrics.IncrementMissingAsset()
		return ""
	}
	a := r.registry.Asset(tpl, name)
	if a == "" {
		r.metrics.IncrementMissingAsset()
	}
	return a
}

func (r *Renderer) apply(tpl, name string, vars substitute.Vars) string {
	return substitute.Apply(r.asset(tpl, name), vars)
}

// each substitutes every vars entry into the item asset and concatenates.
func (r *Renderer) each(tpl, name string, items []substitute.Vars) string {
	if len(items) == 0 {
		return ""
	}
	frag := r.asset(tpl, name)
	var b strings.Builder
	for _, vars := range items {
		b.WriteString(substitute.Apply(frag, vars))
	}
	return b.String()
}

func (r *Renderer) features(tpl string, f FeaturesData) string {
	items := make([]substitute.Vars, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, substitute.Vars{
			"icon":        it.Icon,
			"heading":     it.Heading,
			"description": it.Description,
		})
	}
	return r.apply(tpl, kits.AssetFeatures, substitute.Vars{
		"title":      f.Title,
		"subheading": f.Subheading,
		"items":      r.each(tpl, kits.AssetFeaturesItem, items),
	})
}

func (r *Renderer) team(tpl string, t TeamData) string {
	items := make([]substitute.Vars, 0, len(t.Members))
	for _, m := range t.Members {
		items = append(items, substitute.Vars{
			"name":  m.Name,
			"role":  m.Role,
			"bio":   m.Bio,
			"image": m.Image,
		})
	}
	return r.apply(tpl, kits.AssetTeamMembers, substitute.Vars{
		"title":   t.Title,
		"members": r.each(tpl, kits.AssetTeamMemberItem, items),
	})
}

func (r *Renderer) projects(tpl string, p ProjectGridData) string {
	items := make([]substitute.Vars, 0, len(p.Projects))
	for _, pr := range p.Projects {
		items = append(items, substitute.Vars{
			"title":       pr.Title,
			"description": pr.Description,
			"category":    pr.Category,
			"image":       pr.Image,
			"link":        pr.Link,
		})
	}
	return r.apply(tpl, kits.AssetProjectGrid, substitute.Vars{
		"title":    p.Title,
		"projects": r.each(tpl, kits.AssetProjectItem, items),
	})
}

func (r *Renderer) skills(tpl string, s SkillsData) string {
	items := make([]substitute.Vars, 0, len(s.Categories))
	for _, c := range s.Categories {
		items = append(items, substitute.Vars{
			"categoryName": c.Name,
			"skills":       listItems(c.Skills),
		})
	}
	return r.apply(tpl, kits.AssetSkillsMatrix, substitute.Vars{
		"title":      s.Title,
		"categories": r.each(tpl, kits.AssetSkillCategory, items),
	})
}

func (r *Renderer) timeline(tpl string, t TimelineData) string {
	items := make([]substitute.Vars, 0, len(t.Experiences))
	for _, e := range t.Experiences {
		items = append(items, substitute.Vars{
			"role":        e.Role,
			"company":     e.Company,
			"startDate":   e.StartDate,
			"endDate":     e.EndDate,
			"description": e.Description,
		})
	}
	return r.apply(tpl, kits.AssetExperienceTimeline, substitute.Vars{
		"title":       t.Title,
		"experiences": r.each(tpl, kits.AssetExperienceItem, items),
	})
}

func (r *Renderer) contact(tpl string, c ContactData) string {
	return r.apply(tpl, kits.AssetContactForm, substitute.Vars{
		"title":       c.Title,
		"description": c.Description,
		"submitText":  c.SubmitText,
		"email":       c.Email,
		"socialLinks": renderSocialLinks(c.SocialLinks),
	})
}
