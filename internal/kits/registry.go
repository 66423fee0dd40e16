package kits

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed system
var systemFS embed.FS

// Registry maps template names to loaded kits. It is built once at startup
// and then read by every render.
type Registry struct {
	mu       sync.RWMutex
	kits     map[string]*Kit
	defaults Defaults
	logger   *zap.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithDefaults sets the base item defaults that kit manifests override.
func WithDefaults(d Defaults) Option {
	return func(r *Registry) {
		r.defaults = d
	}
}

// WithLogger sets the logger used for skipped kits and missing assets.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		kits:     make(map[string]*Kit),
		defaults: BuiltinDefaults(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default returns a registry holding the embedded system kits.
func Default(opts ...Option) (*Registry, error) {
	r := NewRegistry(opts...)
	sub, err := fs.Sub(systemFS, "system")
	if err != nil {
		return nil, err
	}
	if err := r.LoadFS(sub, SourceSystem, "system", true); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadDir registers local kits from path. The path may be a single kit
// directory or a directory of kits. Local kits replace system kits of the
// same name. Invalid kits are skipped with a warning.
func (r *Registry) LoadDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("template path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("template path %s is not a directory", dir)
	}

	fsys := os.DirFS(dir)
	if _, err := fs.Stat(fsys, ManifestFileName); err == nil {
		kit, err := loadKit(fsys, ".", SourceLocal, dir)
		if err != nil {
			return err
		}
		r.add(kit)
		return nil
	}
	return r.LoadFS(fsys, SourceLocal, dir, false)
}

// LoadFS registers every kit directory found at the root of fsys. With
// strict set, the first invalid kit aborts loading.
func (r *Registry) LoadFS(fsys fs.FS, source KitSource, location string, strict bool) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read kits in %s: %w", location, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := fs.Stat(fsys, path.Join(entry.Name(), ManifestFileName)); err != nil {
			continue
		}
		kit, err := loadKit(fsys, entry.Name(), source, path.Join(location, entry.Name()))
		if err != nil {
			if strict {
				return err
			}
			r.logger.Warn("skipping template kit", zap.String("path", path.Join(location, entry.Name())), zap.Error(err))
			continue
		}
		r.add(kit)
	}
	return nil
}

func (r *Registry) add(kit *Kit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kits[kit.Manifest.Name] = kit
}

// loadKit reads kit.yaml and every regular file beside it from dir.
func loadKit(fsys fs.FS, dir string, source KitSource, location string) (*Kit, error) {
	manifestPath := path.Join(dir, ManifestFileName)
	data, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%s not found in %s", ManifestFileName, location)
	}

	var manifest KitManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, ErrManifestParse{Path: path.Join(location, ManifestFileName), Err: err}
	}
	if err := manifest.Validate(); err != nil {
		if e, ok := err.(ErrInvalidManifest); ok {
			e.Path = location
			return nil, e
		}
		return nil, err
	}
	if dir != "." && manifest.Name != path.Base(dir) {
		return nil, ErrInvalidManifest{
			Path:   location,
			Field:  "name",
			Reason: fmt.Sprintf("name %q does not match directory %q", manifest.Name, path.Base(dir)),
		}
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	assets := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == ManifestFileName {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read asset %s: %w", entry.Name(), err)
		}
		assets[entry.Name()] = string(content)
	}

	return &Kit{
		Manifest: manifest,
		Source:   source,
		Path:     location,
		Assets:   assets,
	}, nil
}

// Get returns the kit registered under name.
func (r *Registry) Get(name string) (*Kit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kit, ok := r.kits[name]
	if !ok {
		return nil, ErrKitNotFound{Name: name}
	}
	return kit, nil
}

// Has reports whether name is a registered template.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Asset returns the raw text of an asset, or "" when the template or the
// asset is missing.
func (r *Registry) Asset(template, name string) string {
	kit, err := r.Get(template)
	if err != nil {
		r.logger.Debug("unknown template", zap.String("template", template), zap.String("asset", name))
		return ""
	}
	content, ok := kit.Assets[name]
	if !ok {
		r.logger.Debug("missing template asset", zap.String("template", template), zap.String("asset", name))
		return ""
	}
	return content
}

// Names returns the registered template names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.kits))
	for name := range r.kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns the kits matching opts, sorted by name.
func (r *Registry) List(opts *SearchOptions) []*Kit {
	var out []*Kit
	for _, name := range r.Names() {
		kit, err := r.Get(name)
		if err != nil {
			continue
		}
		if opts != nil {
			if opts.Source != "" && kit.Source != opts.Source {
				continue
			}
			if !kit.Manifest.MatchesQuery(opts.Query) {
				continue
			}
		}
		out = append(out, kit)
	}
	return out
}

// Defaults returns the item defaults in effect for template: the registry
// base defaults with the kit's manifest overrides applied.
func (r *Registry) Defaults(template string) Defaults {
	r.mu.RLock()
	base := r.defaults
	kit := r.kits[template]
	r.mu.RUnlock()
	if kit == nil {
		return base
	}
	return base.Merge(kit.Manifest.Defaults)
}
