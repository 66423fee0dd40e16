package site

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/schema"
)

var fixedClock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

func newAssembler(t *testing.T, opts ...Option) *Assembler {
	t.Helper()
	reg, err := kits.Default()
	if err != nil {
		t.Fatalf("kits.Default() failed: %v", err)
	}
	return New(reg, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func minimalDoc() *schema.Document {
	return &schema.Document{
		Metadata: schema.Metadata{Title: "T", NavTitle: "T", Description: "D", Author: "A", Slug: "t"},
		Pages: []schema.Page{{
			Path: "/", FileName: "index.html", NavLabel: "Home", PageTitle: "T",
			Sections: []schema.Section{{Type: schema.KindHero, Data: map[string]any{"heading": "Hi", "ctaText": "Go"}}},
		}},
	}
}

func multiPageDoc() *schema.Document {
	doc := minimalDoc()
	doc.Pages = append(doc.Pages,
		schema.Page{Path: "/about", FileName: "about.html", NavLabel: "About us", PageTitle: "About",
			Sections: []schema.Section{{Type: schema.KindTextBlock, Data: map[string]any{"title": "Story", "content": "Since 1999"}}}},
		schema.Page{Path: "/contact", FileName: "contact.html", PageTitle: "Contact",
			Sections: []schema.Section{{Type: schema.KindContactForm, Data: map[string]any{"email": "a@b.c"}}}},
	)
	return doc
}

func TestMinimalHeroPage(t *testing.T) {
	files := newAssembler(t).Render(minimalDoc(), "monospace")

	index, ok := files["index.html"]
	if !ok {
		t.Fatalf("index.html missing, got %v", files.Names())
	}
	for _, want := range []string{"Hi", "Go", "<title>T</title>", "&copy; 2026 A", `content="D"`} {
		if !strings.Contains(index, want) {
			t.Errorf("index.html lacks %q", want)
		}
	}
	for _, name := range []string{"styles.css", "script.js"} {
		if _, ok := files[name]; !ok {
			t.Errorf("%s missing from output", name)
		}
	}
	if strings.Contains(index, "{{") {
		t.Error("placeholder leaked into page")
	}
}

func TestInlineAssets(t *testing.T) {
	files := newAssembler(t).Render(minimalDoc(), "swiss")
	index := files["index.html"]

	if strings.Contains(index, StylesLink) || strings.Contains(index, ScriptTag) {
		t.Error("inline mode kept external asset references")
	}
	if !strings.Contains(index, "<style>"+files["styles.css"]+"</style>") {
		t.Error("stylesheet not inlined")
	}
	if !strings.Contains(index, "<script>"+files["script.js"]+"</script>") {
		t.Error("script not inlined")
	}
}

func TestLinkedAssets(t *testing.T) {
	a := newAssembler(t).With(WithAssetMode(Linked))
	if a.Mode() != Linked {
		t.Fatalf("Mode() = %v, want linked", a.Mode())
	}
	index := a.Render(minimalDoc(), "swiss")["index.html"]
	if !strings.Contains(index, StylesLink) || !strings.Contains(index, ScriptTag) {
		t.Error("linked mode must keep the link and script tags")
	}
	if strings.Contains(index, "<style>") {
		t.Error("linked mode inlined the stylesheet")
	}
}

func TestNavigation(t *testing.T) {
	got := Navigation(multiPageDoc())
	want := `<nav><a href="index.html">T</a><div class="nav-links">` +
		`<a href="about.html">About us</a><a href="contact.html">Contact</a></div></nav>`
	if got != want {
		t.Errorf("Navigation() =\n%s\nwant\n%s", got, want)
	}

	files := newAssembler(t).Render(multiPageDoc(), "terminal")
	for _, name := range []string{"index.html", "about.html", "contact.html"} {
		if !strings.Contains(files[name], want) {
			t.Errorf("%s does not carry the shared navigation", name)
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	a := newAssembler(t)
	doc := multiPageDoc()
	first := a.Render(doc, "neubrutalism")
	second := a.Render(doc, "neubrutalism")

	if len(first) != len(second) {
		t.Fatalf("file counts differ: %d vs %d", len(first), len(second))
	}
	for name, content := range first {
		if second[name] != content {
			t.Errorf("%s differs between renders", name)
		}
	}
}

func TestRenderDoesNotMutateDocument(t *testing.T) {
	doc := multiPageDoc()
	before, _ := (&schema.SiteSchema{GeneratedData: *doc, Template: "x"}).Encode()
	newAssembler(t).Render(doc, "monospace")
	after, _ := (&schema.SiteSchema{GeneratedData: *doc, Template: "x"}).Encode()
	if string(before) != string(after) {
		t.Error("Render mutated the document")
	}
}

func TestTemplateSwitchInvariance(t *testing.T) {
	faker := gofakeit.New(7)
	doc := minimalDoc()

	var texts []string
	add := func(s string) string {
		texts = append(texts, s)
		return s
	}

	var features, members []any
	for i := 0; i < 4; i++ {
		features = append(features, map[string]any{"heading": add(faker.Word()), "description": add(faker.Sentence(5))})
		members = append(members, map[string]any{"name": add(faker.Name()), "role": add(faker.JobTitle()), "bio": add(faker.Sentence(4))})
	}
	doc.Pages[0].Sections = append(doc.Pages[0].Sections,
		schema.Section{Type: schema.KindFeatures, Data: map[string]any{"title": add(faker.Word()), "items": features}},
		schema.Section{Type: schema.KindTeamMembers, Data: map[string]any{"title": add(faker.Word()), "members": members}},
		schema.Section{Type: schema.KindFAQ, Data: map[string]any{"items": []any{
			map[string]any{"question": add(faker.Question()), "answer": add(faker.Sentence(3))},
		}}},
	)

	a := newAssembler(t)
	for _, tpl := range []string{"monospace", "neubrutalism", "swiss", "terminal"} {
		index := a.Render(doc, tpl)["index.html"]
		for _, s := range texts {
			if !strings.Contains(index, s) {
				t.Errorf("%s dropped %q", tpl, s)
			}
		}
	}
}

func TestMissingTemplateRendersEmptyPages(t *testing.T) {
	files := newAssembler(t).Render(minimalDoc(), "does-not-exist")
	if files["index.html"] != "" {
		t.Errorf("missing template produced %q", files["index.html"])
	}
	if _, ok := files["styles.css"]; !ok {
		t.Error("styles.css key should still be present")
	}
}

func TestPageTitleFallsBackToSiteTitle(t *testing.T) {
	doc := minimalDoc()
	doc.Pages[0].PageTitle = ""
	doc.Metadata.Title = "Acme"
	index := newAssembler(t).Render(doc, "monospace")["index.html"]
	if !strings.Contains(index, "<title>Acme</title>") {
		t.Error("page title did not fall back to the site title")
	}
}

func TestMinify(t *testing.T) {
	plain := newAssembler(t).Render(minimalDoc(), "monospace")
	small := newAssembler(t, WithMinify(true)).Render(minimalDoc(), "monospace")

	if len(small["styles.css"]) >= len(plain["styles.css"]) {
		t.Errorf("styles.css not minified: %d >= %d", len(small["styles.css"]), len(plain["styles.css"]))
	}
	if len(small["index.html"]) >= len(plain["index.html"]) {
		t.Errorf("index.html not minified: %d >= %d", len(small["index.html"]), len(plain["index.html"]))
	}
	if !strings.Contains(small["index.html"], "Hi") {
		t.Error("minified page lost content")
	}
}

func TestRenderRecordsMetrics(t *testing.T) {
	m := metrics.NewCollector()
	newAssembler(t, WithMetrics(m)).Render(multiPageDoc(), "monospace")

	got := m.GetMetrics()
	if got.SitesRendered != 1 || got.PagesRendered != 3 || got.SectionsRendered != 3 {
		t.Errorf("metrics = %+v", got)
	}
}

func TestFilesNamesSorted(t *testing.T) {
	names := newAssembler(t).Render(multiPageDoc(), "monospace").Names()
	want := []string{"about.html", "contact.html", "index.html", "script.js", "styles.css"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}
