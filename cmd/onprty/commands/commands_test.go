package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/schema"
)

// testConfig writes a config file pointing all state into a temp dir and
// captures stdout.
func testConfig(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "database_path: " + filepath.Join(dir, "sites.db") + "\n" +
		"publish_dir: " + filepath.Join(dir, "public") + "\n" +
		"public_base_url: https://sites.example\n" +
		"debounce_ms: 10\n" +
		"log_level: error\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return path, &buf
}

func TestSplitFlags(t *testing.T) {
	flags, rest := splitFlags([]string{"site.json", "--template", "swiss", "--linked", "--out=dist", "extra"}, "linked")

	if flags["template"] != "swiss" {
		t.Errorf("template = %q, want swiss", flags["template"])
	}
	if flags["linked"] != "true" {
		t.Errorf("linked = %q, want true", flags["linked"])
	}
	if flags["out"] != "dist" {
		t.Errorf("out = %q, want dist", flags["out"])
	}
	if len(rest) != 2 || rest[0] != "site.json" || rest[1] != "extra" {
		t.Errorf("rest = %v", rest)
	}
}

func TestParseOp(t *testing.T) {
	doc := schema.Blank("Acme")
	defaults := kits.BuiltinDefaults()

	tests := []struct {
		name    string
		op      string
		args    []string
		wantErr bool
		check   func(t *testing.T, d *schema.Document)
	}{
		{
			name: "set field",
			op:   "set-field",
			args: []string{"0", "0", "heading", "Fresh Bread"},
			check: func(t *testing.T, d *schema.Document) {
				if got := d.Pages[0].Sections[0].Data["heading"]; got != "Fresh Bread" {
					t.Errorf("heading = %v", got)
				}
			},
		},
		{
			name: "add section",
			op:   "add-section",
			args: []string{"0", "features"},
			check: func(t *testing.T, d *schema.Document) {
				if len(d.Pages[0].Sections) != 2 || d.Pages[0].Sections[1].Type != schema.KindFeatures {
					t.Errorf("sections = %+v", d.Pages[0].Sections)
				}
			},
		},
		{
			name: "set meta joins words",
			op:   "set-meta",
			args: []string{"author", "Jane", "Doe"},
			check: func(t *testing.T, d *schema.Document) {
				if d.Metadata.Author != "Jane Doe" {
					t.Errorf("author = %q", d.Metadata.Author)
				}
			},
		},
		{
			name: "add page",
			op:   "add-page",
			check: func(t *testing.T, d *schema.Document) {
				if len(d.Pages) != 2 {
					t.Errorf("pages = %d, want 2", len(d.Pages))
				}
			},
		},
		{name: "bad index", op: "remove-section", args: []string{"0", "x"}, wantErr: true},
		{name: "bad direction", op: "move-page", args: []string{"1", "sideways"}, wantErr: true},
		{name: "missing args", op: "set-field", args: []string{"0"}, wantErr: true},
		{name: "extra args", op: "add-page", args: []string{"now"}, wantErr: true},
		{name: "item must be object", op: "add-item", args: []string{"0", "0", "items", "[1]"}, wantErr: true},
		{name: "unknown op", op: "explode", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := parseOp(tt.op, tt.args, defaults)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseOp error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got, err := op(doc)
			if err != nil {
				t.Fatalf("op failed: %v", err)
			}
			tt.check(t, got)
		})
	}
}

func TestRenderCommand(t *testing.T) {
	cfg, out := testConfig(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "site.json")
	data, _ := (&schema.SiteSchema{GeneratedData: *schema.Blank("Acme"), Template: "swiss"}).Encode()
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatal(err)
	}

	dist := filepath.Join(dir, "dist")
	if err := Render([]string{file, "--config", cfg, "--out", dist, "--template", "terminal"}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, name := range []string{"index.html", "styles.css", "script.js"} {
		if _, err := os.Stat(filepath.Join(dist, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	index, _ := os.ReadFile(filepath.Join(dist, "index.html"))
	if !strings.Contains(string(index), "theme-terminal") {
		t.Error("--template override not applied")
	}
	if !strings.Contains(out.String(), "Rendered 3 files") {
		t.Errorf("output = %q", out.String())
	}

	if err := Render([]string{file, "--config", cfg, "--template", "nope"}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestTemplatesJSON(t *testing.T) {
	cfg, out := testConfig(t)
	if err := Templates([]string{"--config", cfg, "--format", "json"}); err != nil {
		t.Fatalf("Templates failed: %v", err)
	}

	var list []struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(out.Bytes(), &list); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	names := map[string]bool{}
	for _, k := range list {
		names[k.Name] = true
	}
	for _, want := range []string{"monospace", "neubrutalism", "swiss", "terminal"} {
		if !names[want] {
			t.Errorf("template %s not listed", want)
		}
	}
}

func TestTemplatesTable(t *testing.T) {
	cfg, out := testConfig(t)
	if err := Templates([]string{"--config", cfg}); err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	if !strings.Contains(out.String(), "Neubrutalism") {
		t.Errorf("display names not title-cased:\n%s", out.String())
	}
}

var idPattern = regexp.MustCompile(`id:\s+(\S+)`)

func TestSiteLifecycle(t *testing.T) {
	cfg, out := testConfig(t)

	if err := New([]string{"Acme", "Bakery", "--config", cfg, "--template", "swiss"}); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m := idPattern.FindStringSubmatch(out.String())
	if m == nil {
		t.Fatalf("no id in output: %q", out.String())
	}
	id := m[1]

	if err := Edit([]string{id, "set-field", "0", "0", "heading", "Warm Loaves", "--config", cfg}); err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if err := Edit([]string{id, "template", "terminal", "--config", cfg}); err != nil {
		t.Fatalf("Edit template failed: %v", err)
	}

	out.Reset()
	if err := Sites([]string{"--config", cfg}); err != nil {
		t.Fatalf("Sites failed: %v", err)
	}
	if !strings.Contains(out.String(), "acme-bakery") || !strings.Contains(out.String(), "Terminal") {
		t.Errorf("sites output missing row:\n%s", out.String())
	}

	out.Reset()
	if err := Publish([]string{id, "--config", cfg}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !strings.Contains(out.String(), "https://sites.example/acme-bakery/") {
		t.Errorf("publish output = %q", out.String())
	}
	publishDir := filepath.Join(filepath.Dir(cfg), "public", "acme-bakery")
	index, err := os.ReadFile(filepath.Join(publishDir, "index.html"))
	if err != nil {
		t.Fatalf("published index missing: %v", err)
	}
	if !strings.Contains(string(index), "Warm Loaves") {
		t.Error("edit not persisted before publish")
	}

	if err := Unpublish([]string{id, "--config", cfg}); err != nil {
		t.Fatalf("Unpublish failed: %v", err)
	}
	if _, err := os.Stat(publishDir); !os.IsNotExist(err) {
		t.Error("site still published")
	}

	if err := Sites([]string{"rm", id, "--config", cfg}); err != nil {
		t.Fatalf("Sites rm failed: %v", err)
	}
	if err := Edit([]string{id, "add-page", "--config", cfg}); err == nil {
		t.Error("expected error editing a deleted site")
	}
}

func TestServeSiteAppliesEdits(t *testing.T) {
	cfg, out := testConfig(t)
	if err := New([]string{"Acme", "Bakery", "--config", cfg}); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	m := idPattern.FindStringSubmatch(out.String())
	if m == nil {
		t.Fatalf("no id in output: %q", out.String())
	}
	id := m[1]

	e, err := newEnv(map[string]string{"config": cfg})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	srv, closeSite, err := siteServer(ctx, e, id)
	if err != nil {
		t.Fatalf("siteServer failed: %v", err)
	}
	hs := httptest.NewServer(srv.Handler())
	defer hs.Close()

	if _, ok := srv.Files()["index.html"]; !ok {
		t.Fatal("site not rendered before the first edit")
	}

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(hs.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer ws.Close()
	deadline := time.Now().Add(2 * time.Second)
	for srv.Clients() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	post := func(body string) int {
		t.Helper()
		resp, err := http.Post(hs.URL+"/edit", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST /edit: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	if code := post(`{"op": "set-field", "args": ["0", "0", "heading", "Warm Loaves"]}`); code != http.StatusOK {
		t.Fatalf("edit status = %d, want 200", code)
	}
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string `json:"type"`
	}
	if err := ws.ReadJSON(&msg); err != nil || msg.Type != "reload" {
		t.Fatalf("reload message = %+v, err = %v", msg, err)
	}

	resp, err := http.Get(hs.URL + "/index.html")
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(page), "Warm Loaves") {
		t.Error("preview not re-rendered after edit")
	}

	if code := post(`{"op": "remove-page", "args": ["0"]}`); code != http.StatusUnprocessableEntity {
		t.Errorf("home page removal status = %d, want 422", code)
	}
	if code := post(`{"args": []}`); code != http.StatusBadRequest {
		t.Errorf("missing op status = %d, want 400", code)
	}

	if err := closeSite(ctx); err != nil {
		t.Fatalf("closing site failed: %v", err)
	}
	st, err := e.openStore(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	saved, err := st.GetSchema(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got := saved.GeneratedData.Pages[0].Sections[0].Data["heading"]; got != "Warm Loaves" {
		t.Errorf("saved heading = %v, want Warm Loaves", got)
	}
}

func TestImportGeneratedDocument(t *testing.T) {
	cfg, out := testConfig(t)
	file := filepath.Join(t.TempDir(), "generated.json")
	raw := `{"siteMetadata": {"title": "Studio K", "slug": "studio-k"},
		"pages": [{"path": "/", "fileName": "index.html", "sections": [{"type": "hero", "data": {"heading": "Hi"}}]}]}`
	if err := os.WriteFile(file, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Import([]string{file, "--config", cfg, "--prompt", "a design studio"}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if !strings.Contains(out.String(), "slug: studio-k") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConfigCommand(t *testing.T) {
	cfg, out := testConfig(t)

	if err := Config([]string{"set", "default_template", "terminal", "--config", cfg}); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out.Reset()
	if err := Config([]string{"get", "default_template", "--config", cfg}); err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if strings.TrimSpace(out.String()) != "terminal" {
		t.Errorf("default_template = %q, want terminal", out.String())
	}
	if err := Config([]string{"set", "debounce_ms", "0", "--config", cfg}); err == nil {
		t.Error("expected validation error for zero debounce")
	}
	if err := Config([]string{"get", "nope", "--config", cfg}); err == nil {
		t.Error("expected error for unknown key")
	}
}
