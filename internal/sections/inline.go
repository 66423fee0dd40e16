package sections

import (
	"strings"

	"github.com/livefir/onprty/internal/substitute"
)

// Fragments for the landing-page kinds. These are built the same way under
// every template; the kit stylesheet provides the look.
const (
	testimonialsFragment = `<section class="testimonials"><div class="container"><h2>{{title}}</h2><div class="testimonials-grid">{{testimonials}}</div></div></section>`
	testimonialFragment  = `<div class="testimonial"><blockquote>{{quote}}</blockquote><p class="testimonial-author">{{author}}</p><p class="testimonial-role">{{role}}</p></div>`

	statsFragment = `<section class="stats"><div class="container"><h2>{{title}}</h2><div class="stats-grid">{{stats}}</div></div></section>`
	statFragment  = `<div class="stat"><span class="stat-value">{{value}}</span><span class="stat-label">{{label}}</span></div>`

	pricingFragment = `<section class="pricing"><div class="container"><h2>{{title}}</h2><p class="section-intro">{{subheading}}</p><div class="pricing-grid">{{plans}}</div></div></section>`
	planFragment    = `<div class="pricing-plan{{featured}}"><h3>{{name}}</h3><p><span class="plan-price">{{price}}</span><span class="plan-period">{{period}}</span></p><ul class="plan-features">{{features}}</ul><a href="{{ctaLink}}" class="cta-button">{{ctaText}}</a></div>`

	faqFragment     = `<section class="faq"><div class="container"><h2>{{title}}</h2><div class="faq-list">{{items}}</div></div></section>`
	faqItemFragment = `<details class="faq-item"><summary>{{question}}</summary><p>{{answer}}</p></details>`

	footerFragment     = `<section class="footer-section"><div class="container"><p class="footer-contact">{{contactText}}</p><nav class="footer-links">{{links}}</nav><div class="footer-social">{{socialLinks}}</div></div></section>`
	footerLinkFragment = `<a href="{{url}}">{{label}}</a>`
	socialLinkFragment = `<a href="{{url}}" class="social-link" target="_blank" rel="noopener">{{platform}}</a>`

	listItemFragment = `<li>{{item}}</li>`
)

func join(frag string, items []substitute.Vars) string {
	var b strings.Builder
	for _, vars := range items {
		b.WriteString(substitute.Apply(frag, vars))
	}
	return b.String()
}

func listItems(values []string) string {
	items := make([]substitute.Vars, 0, len(values))
	for _, v := range values {
		items = append(items, substitute.Vars{"item": v})
	}
	return join(listItemFragment, items)
}

func renderSocialLinks(links []SocialLink) string {
	items := make([]substitute.Vars, 0, len(links))
	for _, l := range links {
		items = append(items, substitute.Vars{"platform": l.Platform, "url": l.URL})
	}
	return join(socialLinkFragment, items)
}

func renderTestimonials(t TestimonialsData) string {
	items := make([]substitute.Vars, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, substitute.Vars{"quote": it.Quote, "author": it.Author, "role": it.Role})
	}
	return substitute.Apply(testimonialsFragment, substitute.Vars{
		"title":        t.Title,
		"testimonials": join(testimonialFragment, items),
	})
}

func renderStats(s StatsData) string {
	items := make([]substitute.Vars, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, substitute.Vars{"value": it.Value, "label": it.Label})
	}
	return substitute.Apply(statsFragment, substitute.Vars{
		"title": s.Title,
		"stats": join(statFragment, items),
	})
}

func renderPricing(p PricingData) string {
	items := make([]substitute.Vars, 0, len(p.Plans))
	for _, plan := range p.Plans {
		period := ""
		if plan.Period != "" {
			period = "/" + plan.Period
		}
		featured := ""
		if plan.Featured {
			featured = " featured"
		}
		items = append(items, substitute.Vars{
			"name":     plan.Name,
			"price":    plan.Price,
			"period":   period,
			"features": listItems(plan.Features),
			"ctaText":  plan.CTAText,
			"ctaLink":  plan.CTALink,
			"featured": featured,
		})
	}
	return substitute.Apply(pricingFragment, substitute.Vars{
		"title":      p.Title,
		"subheading": p.Subheading,
		"plans":      join(planFragment, items),
	})
}

func renderFAQ(f FAQData) string {
	items := make([]substitute.Vars, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, substitute.Vars{"question": it.Question, "answer": it.Answer})
	}
	return substitute.Apply(faqFragment, substitute.Vars{
		"title": f.Title,
		"items": join(faqItemFragment, items),
	})
}

func renderFooter(f FooterData) string {
	links := make([]substitute.Vars, 0, len(f.Links))
	for _, l := range f.Links {
		links = append(links, substitute.Vars{"label": l.Label, "url": l.URL})
	}
	return substitute.Apply(footerFragment, substitute.Vars{
		"contactText": f.ContactText,
		"links":       join(footerLinkFragment, links),
		"socialLinks": renderSocialLinks(f.SocialLinks),
	})
}
