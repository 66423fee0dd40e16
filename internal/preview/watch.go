package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/livefir/onprty/internal/site"
)

// BuildFunc turns the raw contents of a watched file into a file map.
type BuildFunc func(raw []byte) (site.Files, error)

// Watch builds file once, publishes the result, and then rebuilds it after
// every burst of changes until ctx is cancelled. A failing rebuild is logged
// and the previous file map stays live.
//
// The parent directory is watched so editors that save by rename are seen.
func (s *Server) Watch(ctx context.Context, file string, build BuildFunc) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := s.rebuild(abs, build); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go s.watchLoop(ctx, w, abs, build)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, w *fsnotify.Watcher, file string, build BuildFunc) {
	defer w.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != file || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(s.debounce, func() {
					if err := s.rebuild(file, build); err != nil {
						s.logger.Warn("preview rebuild failed", zap.String("file", file), zap.Error(err))
					}
				})
			} else {
				timer.Reset(s.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watch error", zap.Error(err))
		}
	}
}

func (s *Server) rebuild(file string, build BuildFunc) error {
	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	files, err := build(raw)
	if err != nil {
		return err
	}
	s.Update(files)
	s.logger.Info("preview rebuilt", zap.String("file", file), zap.Int("files", len(files)))
	return nil
}
