package schema

// Clone returns a deep copy of the document. Editing operations work on
// clones so that a previously handed-out document is never mutated.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Metadata: d.Metadata,
		Pages:    make([]Page, len(d.Pages)),
	}
	for i, p := range d.Pages {
		out.Pages[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := p
	if p.Sections != nil {
		out.Sections = make([]Section, len(p.Sections))
		for i, s := range p.Sections {
			out.Sections[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the section and its data bag.
func (s Section) Clone() Section {
	return Section{Type: s.Type, Data: CloneMap(s.Data)}
}

// CloneMap deep-copies a data bag. A nil bag stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies the container types found in decoded JSON and in
// values handed to editing operations. Scalars are returned as is.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneMap(e)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	default:
		return v
	}
}
