package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/livefir/onprty/internal/store"
)

// Sites lists stored sites, or deletes one.
//
//	onprty sites
//	onprty sites rm <id>
func Sites(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) > 0 && rest[0] != "rm" && rest[0] != "list" {
		return fmt.Errorf("unknown command: %s (expected: list, rm)", rest[0])
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	ctx := context.Background()
	st, err := e.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(rest) > 0 && rest[0] == "rm" {
		if len(rest) != 2 {
			return fmt.Errorf("usage: onprty sites rm <id>")
		}
		if err := st.Delete(ctx, rest[1]); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "✅ Deleted site %s\n", rest[1])
		return nil
	}

	list, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(stdout, "No sites yet. Create one with: onprty new <title>")
		return nil
	}
	fmt.Fprintln(stdout, renderTable(siteHeaders, siteRows(list)))
	return nil
}

var siteHeaders = []string{"ID", "NAME", "SLUG", "TEMPLATE", "PAGES", "STATUS", "UPDATED"}

func siteRows(list []*store.StoredSite) [][]string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		status := string(s.Status)
		if s.PublishedURL != "" {
			status += " " + s.PublishedURL
		}
		rows = append(rows, []string{
			s.ID,
			s.Name,
			s.Slug,
			displayName(s.Schema.Template),
			strconv.Itoa(len(s.Schema.GeneratedData.Pages)),
			status,
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}
