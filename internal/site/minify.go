package site

import (
	"path"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var (
	minifier *minify.M
	once     sync.Once
)

// getMinifier returns a configured minifier (singleton)
func getMinifier() *minify.M {
	once.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", html.Minify)
		minifier.AddFunc("text/css", css.Minify)
		minifier.AddFunc("application/javascript", js.Minify)
		minifier.AddFunc("text/javascript", js.Minify)
	})
	return minifier
}

var mediaTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// minifyFiles minifies every file with a known extension in place. A file
// that fails to minify keeps its original content.
func minifyFiles(files Files) {
	m := getMinifier()
	for name, content := range files {
		mediaType, ok := mediaTypes[path.Ext(name)]
		if !ok || content == "" {
			continue
		}
		if out, err := m.String(mediaType, content); err == nil {
			files[name] = out
		}
	}
}
