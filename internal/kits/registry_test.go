package kits

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestDefaultRegistryLoadsSystemKits(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	expected := []string{"monospace", "neubrutalism", "swiss", "terminal"}
	if got := r.Names(); strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Fatalf("Names() = %v, want %v", got, expected)
	}

	for _, name := range expected {
		t.Run(name, func(t *testing.T) {
			kit, err := r.Get(name)
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", name, err)
			}
			if kit.Source != SourceSystem {
				t.Errorf("source = %v, want %v", kit.Source, SourceSystem)
			}
			if missing := kit.MissingAssets(); len(missing) != 0 {
				t.Errorf("kit %q is missing assets %v", name, missing)
			}

			base := r.Asset(name, AssetBase)
			for _, marker := range []string{
				"{{pageTitle}}", "{{siteDescription}}", "{{navigation}}",
				"{{content}}", "{{currentYear}}", "{{siteAuthor}}",
				`<link rel="stylesheet" href="styles.css">`,
				`<script src="script.js"></script>`,
			} {
				if !strings.Contains(base, marker) {
					t.Errorf("base.html of %q lacks %s", name, marker)
				}
			}
		})
	}
}

func TestAssetFailSoft(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if got := r.Asset("nonexistent", AssetBase); got != "" {
		t.Errorf("unknown template asset = %q, want empty", got)
	}
	if got := r.Asset("swiss", "nope.html"); got != "" {
		t.Errorf("unknown asset = %q, want empty", got)
	}

	var notFound ErrKitNotFound
	if _, err := r.Get("nonexistent"); !errors.As(err, &notFound) {
		t.Errorf("Get error = %v, want ErrKitNotFound", err)
	}
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name     string
		manifest KitManifest
		field    string
	}{
		{"missing name", KitManifest{Version: "1.0.0", Description: "d"}, "name"},
		{"missing version", KitManifest{Name: "x", Description: "d"}, "version"},
		{"bad version", KitManifest{Name: "x", Version: "one", Description: "d"}, "version"},
		{"missing description", KitManifest{Name: "x", Version: "1.0.0"}, "description"},
		{"valid", KitManifest{Name: "x", Version: "1.0.0", Description: "d"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var invalid ErrInvalidManifest
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("Validate() = %v, want invalid field %q", err, tt.field)
			}
		})
	}
}

func TestLoadFSSkipsInvalidKits(t *testing.T) {
	fsys := fstest.MapFS{
		"good/kit.yaml":   {Data: []byte("name: good\nversion: 1.0.0\ndescription: ok\n")},
		"good/base.html":  {Data: []byte("<html>{{content}}</html>")},
		"bad/kit.yaml":    {Data: []byte("name: bad\n")},
		"broken/kit.yaml": {Data: []byte("name: [\n")},
		"wrong/kit.yaml":  {Data: []byte("name: other\nversion: 1.0.0\ndescription: d\n")},
		"plain/base.html": {Data: []byte("no manifest")},
	}

	r := NewRegistry()
	if err := r.LoadFS(fsys, SourceLocal, "mem", false); err != nil {
		t.Fatalf("LoadFS failed: %v", err)
	}
	if got := r.Names(); len(got) != 1 || got[0] != "good" {
		t.Fatalf("Names() = %v, want [good]", got)
	}
	if got := r.Asset("good", AssetBase); got != "<html>{{content}}</html>" {
		t.Errorf("Asset = %q", got)
	}

	strict := NewRegistry()
	err := strict.LoadFS(fstest.MapFS{"broken/kit.yaml": {Data: []byte("name: [\n")}}, SourceLocal, "mem", true)
	var parseErr ErrManifestParse
	if !errors.As(err, &parseErr) {
		t.Errorf("strict LoadFS error = %v, want ErrManifestParse", err)
	}
}

func TestLocalKitOverridesSystem(t *testing.T) {
	dir := t.TempDir()
	kitDir := filepath.Join(dir, "swiss")
	if err := os.MkdirAll(kitDir, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := "name: swiss\nversion: 2.0.0\ndescription: local swiss\ndefaults:\n  cta_text: Read on\n"
	if err := os.WriteFile(filepath.Join(kitDir, ManifestFileName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(kitDir, AssetHero), []byte("<h1>{{heading}}</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}

	kit, _ := r.Get("swiss")
	if kit.Source != SourceLocal || kit.Manifest.Version != "2.0.0" {
		t.Errorf("swiss kit = %+v, want local 2.0.0", kit.Manifest)
	}
	if got := r.Asset("swiss", AssetHero); got != "<h1>{{heading}}</h1>" {
		t.Errorf("hero asset = %q", got)
	}
	if got := r.Asset("swiss", AssetFeatures); got != "" {
		t.Errorf("local kit should not inherit system assets, got %q", got)
	}
	if got := r.Defaults("swiss").CTAText; got != "Read on" {
		t.Errorf("CTAText = %q, want %q", got, "Read on")
	}

	if locals := r.List(&SearchOptions{Source: SourceLocal}); len(locals) != 1 {
		t.Errorf("List(local) returned %d kits, want 1", len(locals))
	}

	if err := r.LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("LoadDir on a missing path should fail")
	}
}

func TestDefaultsPrecedence(t *testing.T) {
	base := BuiltinDefaults().Merge(&Defaults{
		PlaceholderImage: "https://img.example/blank.png",
		NewItems: map[string]map[string]any{
			"faq.items": {"question": "Ask?", "answer": ""},
		},
	})

	r, err := Default(WithDefaults(base))
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	mono := r.Defaults("monospace")
	if mono.PlaceholderImage != "https://img.example/blank.png" {
		t.Errorf("config override lost: %q", mono.PlaceholderImage)
	}
	if mono.CTAText != "Learn More" {
		t.Errorf("builtin CTA = %q, want Learn More", mono.CTAText)
	}
	if got := mono.NewItem("faq", "items")["question"]; got != "Ask?" {
		t.Errorf("faq new item = %v, want Ask?", got)
	}
	if got := mono.NewItem("features", "items")["heading"]; got != "New Feature" {
		t.Errorf("features new item = %v, want New Feature", got)
	}

	term := r.Defaults("terminal")
	if term.CTAText != "Run" {
		t.Errorf("kit override CTA = %q, want Run", term.CTAText)
	}
	if term.PlaceholderImage != "https://img.example/blank.png" {
		t.Errorf("terminal should keep config placeholder, got %q", term.PlaceholderImage)
	}
}

func TestIconPaletteCycles(t *testing.T) {
	d := BuiltinDefaults()
	if d.Icon(0) != "⚡" || d.Icon(10) != "⚡" || d.Icon(11) != "🎨" {
		t.Errorf("palette = %q %q %q", d.Icon(0), d.Icon(10), d.Icon(11))
	}
	if (Defaults{}).Icon(3) != "" {
		t.Error("empty palette should yield empty icon")
	}
}

func TestNewItemIsCopy(t *testing.T) {
	d := BuiltinDefaults()
	item := d.NewItem("features", "items")
	item["heading"] = "mutated"
	if d.NewItem("features", "items")["heading"] != "New Feature" {
		t.Error("NewItem must return an independent copy")
	}
	if len(d.NewItem("hero", "items")) != 0 {
		t.Error("unknown list should produce an empty item")
	}
}
