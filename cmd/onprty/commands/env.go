// Package commands implements the onprty subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/config"
	"github.com/livefir/onprty/internal/kits"
	"github.com/livefir/onprty/internal/logging"
	"github.com/livefir/onprty/internal/metrics"
	"github.com/livefir/onprty/internal/session"
	"github.com/livefir/onprty/internal/site"
	"github.com/livefir/onprty/internal/store"
)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// splitFlags separates "--name value" pairs from positional arguments.
// Names listed in bools take no value.
func splitFlags(args []string, bools ...string) (map[string]string, []string) {
	isBool := make(map[string]bool, len(bools))
	for _, b := range bools {
		isBool[b] = true
	}

	flags := map[string]string{}
	var rest []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
			rest = append(rest, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if k, v, ok := strings.Cut(name, "="); ok {
			flags[k] = v
			continue
		}
		if isBool[name] {
			flags[name] = "true"
			continue
		}
		if i+1 < len(args) {
			flags[name] = args[i+1]
			i++ // skip value
		} else {
			flags[name] = ""
		}
	}
	return flags, rest
}

// env carries what every command needs: config, logger and templates.
type env struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Collector
	registry *kits.Registry
}

func newEnv(flags map[string]string) (*env, error) {
	cfg, err := config.LoadConfig(flags["config"])
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		return nil, err
	}

	registry, err := kits.Default(
		kits.WithDefaults(kits.BuiltinDefaults().Merge(cfg.Defaults)),
		kits.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	for _, path := range cfg.TemplatePaths {
		if err := registry.LoadDir(path); err != nil {
			logger.Warn("skipping template path", zap.String("path", path), zap.Error(err))
		}
	}

	return &env{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.NewCollector(),
		registry: registry,
	}, nil
}

func (e *env) assembler(opts ...site.Option) *site.Assembler {
	base := []site.Option{
		site.WithLogger(e.logger),
		site.WithMetrics(e.metrics),
		site.WithMinify(e.cfg.Minify),
	}
	return site.New(e.registry, append(base, opts...)...)
}

func (e *env) openStore(ctx context.Context) (*store.SQLite, error) {
	return store.Open(ctx, e.cfg.DatabasePath, store.WithLogger(e.logger))
}

// sessions returns a session manager over st. onPreview may be nil.
func (e *env) sessions(st session.Repository, asm *site.Assembler, onPreview func(string, site.Files)) *session.Manager {
	return session.NewManager(st, session.ManagerOptions{
		TTL:             e.cfg.SessionTTL(),
		Debounce:        e.cfg.Debounce(),
		DefaultTemplate: e.cfg.DefaultTemplate,
		Assembler:       asm,
		OnPreview:       onPreview,
		Logger:          e.logger,
		Metrics:         e.metrics,
	})
}

// template picks the requested template or the configured default and
// checks that it exists.
func (e *env) template(name string) (string, error) {
	if name == "" {
		name = e.cfg.DefaultTemplate
	}
	if !e.registry.Has(name) {
		return "", kits.ErrKitNotFound{Name: name}
	}
	return name, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
}
