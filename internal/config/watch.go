package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watch reloads the file at path whenever it is written or replaced and
// sends each valid result on the returned channel. A reload that fails to
// parse or validate is logged and skipped; the previous config stays in
// effect. The channel is closed when ctx is done.
//
// The parent directory is watched rather than the file, so editors that
// save by renaming a temporary file are picked up too.
func Watch(ctx context.Context, path string, log logrus.FieldLogger) (<-chan *Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	out := make(chan *Config, 1)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if filepath.Clean(event.Name) != abs || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
					continue
				}

				data, err := os.ReadFile(abs)
				if err == nil && len(data) == 0 {
					// Truncated by a writer that has not finished yet.
					continue
				}

				var cfg *Config
				if err == nil {
					cfg, err = Parse(data)
				}

				if err != nil {
					log.WithFields(logrus.Fields{"path": abs, "error": err}).Warn("config reload rejected")
					continue
				}

				log.WithField("path", abs).Info("config reloaded")

				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}

				log.WithError(err).Error("config watcher error")
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
