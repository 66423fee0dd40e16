package schema

// Blank returns a minimal valid document: one home page holding a hero.
// It is used when a site is started without the upstream generator.
func Blank(title string) *Document {
	if title == "" {
		title = "My Site"
	}
	return &Document{
		Metadata: Metadata{
			Title:    title,
			NavTitle: title,
			Slug:     PageSlug(title),
		},
		Pages: []Page{
			{
				Path:      HomePath,
				FileName:  HomeFileName,
				NavLabel:  "Home",
				PageTitle: title,
				Sections: []Section{
					{Type: KindHero, Data: map[string]any{"heading": title}},
				},
			},
		},
	}
}
