package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/store"
)

// New starts a site from the blank scaffold. With --out the schema is
// written to a file; otherwise it is stored as a new draft.
//
//	onprty new <title> [--template t] [--out file]
func New(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) == 0 {
		return fmt.Errorf("usage: onprty new <title> [--template t] [--out file]")
	}
	title := strings.Join(rest, " ")

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	tpl, err := e.template(flags["template"])
	if err != nil {
		return err
	}
	s := &schema.SiteSchema{GeneratedData: *schema.Blank(title), Template: tpl}

	if out := flags["out"]; out != "" {
		data, err := s.Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(stdout, "✅ Created %s\n", out)
		return nil
	}

	return createSite(context.Background(), e, s)
}

// Import stores a document produced by the upstream generator.
//
//	onprty import <generated.json> [--prompt p] [--template t]
func Import(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) != 1 {
		return fmt.Errorf("usage: onprty import <generated.json> [--prompt p] [--template t]")
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
	if flags["template"] != "" {
		s.Template = flags["template"]
	}
	if s.Template, err = e.template(s.Template); err != nil {
		return err
	}
	if p := flags["prompt"]; p != "" {
		s.UserPrompt = p
	}

	return createSite(context.Background(), e, s)
}

func createSite(ctx context.Context, e *env, s *schema.SiteSchema) error {
	st, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	rec := store.NewSite(s)
	if err := st.Create(ctx, rec); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "✅ Created site %s\n", titleStyle.Render(rec.Name))
	fmt.Fprintf(stdout, "   id:   %s\n", rec.ID)
	fmt.Fprintf(stdout, "   slug: %s\n", rec.Slug)
	return nil
}
