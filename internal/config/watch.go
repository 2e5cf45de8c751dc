package config

import (
	"context"
	"fmt"
	"time"

	"github.com/Wiktoryk/IDE/internal/config/watcher"
)

// ReloadFunc receives the result of reloading a watched file. cfg is nil
// whenever err is not.
type ReloadFunc func(cfg *Config, err error)

// Watch reloads the file at path every time it changes and reports the
// result to fn. The returned watcher must be closed by the caller.
// opts are applied to every reload; WithPath is always path.
func Watch(ctx context.Context, path string, fn ReloadFunc, opts ...LoadOption) (*watcher.Watcher, error) {
	return WatchWithDebounce(ctx, path, 100*time.Millisecond, fn, opts...)
}

// WatchWithDebounce is Watch with an explicit debounce interval.
func WatchWithDebounce(ctx context.Context, path string, debounce time.Duration, fn ReloadFunc, opts ...LoadOption) (*watcher.Watcher, error) {
	w, err := watcher.New(
		watcher.WithDebounce(debounce),
		watcher.WithErrorHandler(func(err error) {
			fn(nil, fmt.Errorf("watching %s: %w", path, err))
		}),
	)
	if err != nil {
		return nil, err
	}

	if err := w.Watch(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	reloadOpts := append(append([]LoadOption(nil), opts...), WithPath(path), WithRequired())
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			fn(nil, fmt.Errorf("%w: %s was %sd", ErrFileNotFound, path, ev.Op))
			return
		}
		cfg, err := Load(reloadOpts...)
		if err != nil {
			fn(nil, err)
			return
		}
		fn(cfg, nil)
	})

	if err := w.Start(ctx); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}
