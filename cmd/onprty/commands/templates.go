package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/livefir/onprty/internal/kits"
)

// Templates lists the registered template kits, or checks a kit directory.
//
//	onprty templates [--filter all|system|local] [--search q] [--format table|json|simple]
//	onprty templates validate <dir>
func Templates(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) > 0 {
		if rest[0] != "validate" || len(rest) != 2 {
			return fmt.Errorf("usage: onprty templates validate <dir>")
		}
		return validateTemplate(rest[1])
	}

	filter := flags["filter"]
	if filter == "" {
		filter = "all"
	}
	validFilters := map[string]bool{"all": true, "system": true, "local": true}
	if !validFilters[filter] {
		return fmt.Errorf("invalid filter: %s (valid: all, system, local)", filter)
	}
	format := flags["format"]
	if format == "" {
		format = "table"
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	opts := &kits.SearchOptions{Query: flags["search"]}
	if filter != "all" {
		opts.Source = kits.KitSource(filter)
	}
	list := e.registry.List(opts)

	switch format {
	case "json":
		return outputTemplatesJSON(list)
	case "simple":
		for _, k := range list {
			fmt.Fprintln(stdout, k.Name())
		}
		return nil
	case "table":
		return outputTemplatesTable(list, e.cfg.DefaultTemplate)
	default:
		return fmt.Errorf("invalid format: %s (valid: table, json, simple)", format)
	}
}

func outputTemplatesTable(list []*kits.Kit, def string) error {
	if len(list) == 0 {
		fmt.Fprintln(stdout, "No templates found")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, k := range list {
		name := displayName(k.Name())
		if k.Name() == def {
			name += " *"
		}
		desc := k.Manifest.Description
		if len(desc) > 50 {
			desc = desc[:47] + "..."
		}
		status := "complete"
		if missing := k.MissingAssets(); len(missing) > 0 {
			status = "missing " + strings.Join(missing, ", ")
		}
		rows = append(rows, []string{name, k.Name(), string(k.Source), k.Manifest.Version, desc, status})
	}

	fmt.Fprintln(stdout, renderTable([]string{"TEMPLATE", "ID", "SOURCE", "VERSION", "DESCRIPTION", "ASSETS"}, rows))
	fmt.Fprintf(stdout, "\n%d templates (* default)\n", len(list))
	return nil
}

func outputTemplatesJSON(list []*kits.Kit) error {
	type entry struct {
		Name        string   `json:"name"`
		Source      string   `json:"source"`
		Version     string   `json:"version"`
		Description string   `json:"description"`
		Tags        []string `json:"tags,omitempty"`
		Missing     []string `json:"missing_assets,omitempty"`
	}
	out := make([]entry, 0, len(list))
	for _, k := range list {
		out = append(out, entry{
			Name:        k.Name(),
			Source:      string(k.Source),
			Version:     k.Manifest.Version,
			Description: k.Manifest.Description,
			Tags:        k.Manifest.Tags,
			Missing:     k.MissingAssets(),
		})
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func validateTemplate(dir string) error {
	result := kits.ValidateDir(dir)
	for _, issue := range result.Issues {
		fmt.Fprintln(stdout, issue.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("template %s is invalid: %d errors", dir, result.Count(kits.LevelError))
	}
	fmt.Fprintf(stdout, "✅ Template %s is valid (%d warnings)\n", dir, result.Count(kits.LevelWarning))
	return nil
}
