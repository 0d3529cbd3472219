package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/soulfiremc/docsite/logging"
)

// Watch calls onChange after files under dir change, coalescing bursts of
// events that arrive within debounce of each other. It blocks until ctx is
// cancelled and releases the watcher before returning.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func()) error {
	log := logging.WithComponent("content-watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("content: watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, dir); err != nil {
		return fmt.Errorf("content: watch %s: %w", dir, err)
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						log.Warn().Err(err).Str("dir", ev.Name).Msg("failed to watch new directory")
					}
				}
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("content changed")
			timer.Reset(debounce)
		case <-timer.C:
			onChange()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}
