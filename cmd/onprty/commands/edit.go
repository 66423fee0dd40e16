package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/livefir/onprty/internal/editor"
	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/session"
)

const editUsage = `usage: onprty edit <id> <op> args...

ops:
  set-field <page> <section> <field> <value>
  add-section <page> <kind>
  remove-section <page> <section>
  move-section <page> <section> up|down
  add-item <page> <section> <list> [json]
  remove-item <page> <section> <list> <index>
  move-item <page> <section> <list> <index> up|down
  set-item <page> <section> <list> <index> <field> <value>
  set-meta <field> <value>
  add-page
  remove-page <page>
  move-page <page> up|down
  page-title <page> <title>
  nav-label <page> <label>
  template <name>`

// Edit applies one editing operation to a stored site and saves it.
func Edit(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) < 2 {
		return fmt.Errorf("%s", editUsage)
	}
	id, opName, opArgs := rest[0], rest[1], rest[2:]

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

	mgr := e.sessions(st, e.assembler(), nil)
	defer mgr.CloseAll(ctx)

	sess, err := mgr.Open(ctx, id)
	if err != nil {
		return err
	}
	if err := applyEdit(sess, e.registry, opName, opArgs); err != nil {
		return err
	}

	if err := mgr.Close(ctx, id); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	fmt.Fprintf(stdout, "✅ Applied %s (%d pages, %d files)\n", opName, len(sess.Document().Pages), len(sess.Files()))
	return nil
}

// applyEdit runs one named operation against a session. "template" switches
// the template; every other name goes through parseOp.
func applyEdit(sess *session.Session, reg *kits.Registry, name string, args []string) error {
	if name == "template" {
		if len(args) != 1 {
			return fmt.Errorf("usage: template <name>")
		}
		return sess.SetTemplate(args[0])
	}
	op, err := parseOp(name, args, reg.Defaults(sess.Template()))
	if err != nil {
		return err
	}
	return sess.Apply(op)
}

// parseOp maps a CLI operation and its arguments to an editor operation.
func parseOp(name string, args []string, defaults kits.Defaults) (session.Op, error) {
	p := &argParser{args: args}

	var op session.Op
	switch name {
	case "set-field":
		page, sec, field, value := p.index(), p.index(), p.str(), p.value()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.UpdateSectionField(d, page, sec, field, value)
		}
	case "add-section":
		page, kind := p.index(), schema.Kind(p.str())
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.AddSection(d, page, kind)
		}
	case "remove-section":
		page, sec := p.index(), p.index()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.RemoveSection(d, page, sec)
		}
	case "move-section":
		page, sec, dir := p.index(), p.index(), p.dir()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.MoveSection(d, page, sec, dir)
		}
	case "add-item":
		page, sec, list := p.index(), p.index(), p.str()
		if p.more() {
			item, ok := p.value().(map[string]any)
			if !ok {
				return nil, fmt.Errorf("add-item: item must be a JSON object")
			}
			op = func(d *schema.Document) (*schema.Document, error) {
				return editor.AddItem(d, page, sec, list, item)
			}
		} else {
			op = func(d *schema.Document) (*schema.Document, error) {
				return editor.AddDefaultItem(d, page, sec, list, defaults)
			}
		}
	case "remove-item":
		page, sec, list, idx := p.index(), p.index(), p.str(), p.index()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.RemoveItem(d, page, sec, list, idx)
		}
	case "move-item":
		page, sec, list, idx, dir := p.index(), p.index(), p.str(), p.index(), p.dir()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.MoveItem(d, page, sec, list, idx, dir)
		}
	case "set-item":
		page, sec, list, idx, field, value := p.index(), p.index(), p.str(), p.index(), p.str(), p.value()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.UpdateItem(d, page, sec, list, idx, field, value)
		}
	case "set-meta":
		field, value := p.str(), p.rest()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.UpdateMetadata(d, field, value)
		}
	case "add-page":
		op = editor.AddPage
	case "remove-page":
		page := p.index()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.RemovePage(d, page)
		}
	case "move-page":
		page, dir := p.index(), p.dir()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.MovePage(d, page, dir)
		}
	case "page-title":
		page, title := p.index(), p.rest()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.UpdatePageTitle(d, page, title)
		}
	case "nav-label":
		page, label := p.index(), p.rest()
		op = func(d *schema.Document) (*schema.Document, error) {
			return editor.UpdateNavLabel(d, page, label)
		}
	default:
		return nil, fmt.Errorf("unknown op: %s\n\n%s", name, editUsage)
	}

	if p.err != nil {
		return nil, fmt.Errorf("%s: %w", name, p.err)
	}
	if p.more() {
		return nil, fmt.Errorf("%s: unexpected arguments %v", name, p.args[p.pos:])
	}
	return op, nil
}

// argParser consumes positional arguments, keeping the first error.
type argParser struct {
	args []string
	pos  int
	err  error
}

func (p *argParser) more() bool { return p.pos < len(p.args) }

func (p *argParser) str() string {
	if !p.more() {
		if p.err == nil {
			p.err = fmt.Errorf("missing argument %d", p.pos+1)
		}
		return ""
	}
	s := p.args[p.pos]
	p.pos++
	return s
}

func (p *argParser) index() int {
	s := p.str()
	if p.err != nil {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.err = fmt.Errorf("argument %d: %q is not an index", p.pos, s)
	}
	return n
}

func (p *argParser) dir() editor.Direction {
	s := p.str()
	if p.err != nil {
		return 0
	}
	d, err := editor.ParseDirection(s)
	if err != nil {
		p.err = err
	}
	return d
}

// value reads a JSON literal, falling back to the raw string.
func (p *argParser) value() any {
	s := p.str()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

// rest joins the remaining arguments with spaces.
func (p *argParser) rest() string {
	if !p.more() {
		p.str()
		return ""
	}
	s := strings.Join(p.args[p.pos:], " ")
	p.pos = len(p.args)
	return s
}
