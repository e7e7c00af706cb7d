package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload is delivered after the config file changes on disk. Err is set
// when the new file could not be parsed; Config is nil in that case.
type Reload struct {
	Config *UserConfig
	Err    error
}

// Watcher reloads the config file whenever it is written.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	reloads chan Reload
}

// Watch starts watching path. The parent directory is watched rather than
// the file so that editors which replace the file on save are still seen.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{
		path:    filepath.Clean(path),
		fs:      fw,
		reloads: make(chan Reload, 1),
	}
	go w.loop(ctx)
	return w, nil
}

// Reloads returns the channel of parsed reloads. It is closed when the
// watcher stops.
func (w *Watcher) Reloads() <-chan Reload {
	return w.reloads
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.reloads)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			_ = w.fs.Close()
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(ReloadDebounce)
			} else {
				timer.Reset(ReloadDebounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.send(ctx, Reload{Err: err})
		case <-fire:
			fire = nil
			cfg, err := LoadFile(w.path)
			if err != nil {
				w.send(ctx, Reload{Err: err})
				continue
			}
			w.send(ctx, Reload{Config: cfg})
		}
	}
}

func (w *Watcher) send(ctx context.Context, r Reload) {
	select {
	case w.reloads <- r:
	case <-ctx.Done():
	}
}
