package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

// Render compiles a site file to a directory of HTML, CSS and JS.
//
//	onprty render <file> [--template t] [--out dir] [--linked] [--minify]
func Render(args []string) error {
	flags, rest := splitFlags(args, "linked", "minify")
	if len(rest) != 1 {
		return fmt.Errorf("usage: onprty render <file> [--template t] [--out dir] [--linked] [--minify]")
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	raw, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rest[0], err)
	}
	s, err := schema.DecodeAny(raw, e.cfg.DefaultTemplate)
	if err != nil {
		return err
	}
	tpl := s.Template
	if flags["template"] != "" {
		tpl = flags["template"]
	}
	if tpl, err = e.template(tpl); err != nil {
		return err
	}

	opts := []site.Option{}
	if _, ok := flags["linked"]; ok {
		opts = append(opts, site.WithAssetMode(site.Linked))
	}
	if _, ok := flags["minify"]; ok {
		opts = append(opts, site.WithMinify(true))
	}
	files := e.assembler(opts...).Render(&s.GeneratedData, tpl)

	out := flags["out"]
	if out == "" {
		out = "dist"
	}
	if err := writeFiles(out, files); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ Rendered %d files with template %s to %s\n", len(files), tpl, out)
	return nil
}

func writeFiles(dir string, files site.Files) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, name := range files.Names() {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(files[name]), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}
