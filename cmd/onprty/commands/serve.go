package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/preview"
	"github.com/livefir/onprty/internal/schema"
	"github.com/livefir/onprty/internal/site"
)

// Serve runs the live preview for a site file, re-rendering it whenever the
// file changes, or for a stored site, re-rendering it on every edit posted
// to /edit.
//
//	onprty serve <file> [--template t] [--addr a]
//	onprty serve --site <id> [--addr a]
func Serve(args []string) error {
	flags, rest := splitFlags(args)
	if len(rest) != 1 && flags["site"] == "" {
		return fmt.Errorf("usage: onprty serve <file> | --site <id> [--addr a]")
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.close()

	addr := flags["addr"]
	if addr == "" {
		addr = e.cfg.PreviewAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *preview.Server
	if id := flags["site"]; id != "" {
		var closeSite func(context.Context) error
		srv, closeSite, err = siteServer(ctx, e, id)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeSite(context.Background()); err != nil {
				e.logger.Error("failed to save site on shutdown", zap.String("site", id), zap.Error(err))
			}
		}()
	} else {
		srv = preview.New(
			preview.WithLogger(e.logger),
			preview.WithMetrics(e.metrics),
			preview.WithWatchDebounce(e.cfg.Debounce()),
		)
		asm := e.assembler(site.WithMinify(false))
		if err := srv.Watch(ctx, rest[0], fileBuilder(e, asm, flags["template"])); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "🚀 Preview running at http://%s (Ctrl+C to stop)\n", displayAddr(addr))
	e.logger.Info("preview started", zap.String("addr", addr))
	return srv.ListenAndServe(ctx, addr)
}

// siteServer opens a stored site in an editing session behind a preview
// server. Edits posted to the server are applied to the session, which
// pushes every re-render back to the server and saves after the debounce
// window. The returned func flushes pending edits and closes the store.
func siteServer(ctx context.Context, e *env, id string) (*preview.Server, func(context.Context) error, error) {
	st, err := e.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	var srv *preview.Server
	mgr := e.sessions(st, e.assembler(site.WithMinify(false)), func(_ string, files site.Files) {
		srv.Update(files)
	})
	srv = preview.New(
		preview.WithLogger(e.logger),
		preview.WithMetrics(e.metrics),
		preview.WithEditor(func(ctx context.Context, op string, args []string) error {
			sess, err := mgr.Open(ctx, id)
			if err != nil {
				return err
			}
			return applyEdit(sess, e.registry, op, args)
		}),
	)

	sess, err := mgr.Open(ctx, id)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	srv.Update(sess.Files())

	closeSite := func(ctx context.Context) error {
		err := mgr.CloseAll(ctx)
		if cerr := st.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return srv, closeSite, nil
}

// fileBuilder decodes, validates and renders a site file.
func fileBuilder(e *env, asm *site.Assembler, override string) preview.BuildFunc {
	return func(raw []byte) (site.Files, error) {
		s, err := schema.DecodeAny(raw, e.cfg.DefaultTemplate)
		if err != nil {
			return nil, err
		}
		tpl := s.Template
		if override != "" {
			tpl = override
		}
		if tpl, err = e.template(tpl); err != nil {
			return nil, err
		}
		return asm.Render(&s.GeneratedData, tpl), nil
	}
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
