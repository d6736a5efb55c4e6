/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: watcher.go
Description: Watch mode for srccat. Watches a source tree with fsnotify and
re-classifies it after each burst of changes, handing the fresh catalog to a
callback so a build driver can refresh its file lists.
*/

package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kleascm/srccat/pkg/catalog"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is how long the tree must be quiet before re-classifying
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher
type Config struct {
	Root       string
	Classifier *catalog.Classifier
	Debounce   time.Duration
	Logger     *logrus.Entry
	OnChange   func(*catalog.Catalog)
}

// Watcher re-classifies a tree whenever it changes
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *logrus.Entry
}

// New creates a watcher; call Run to start it
func New(config Config) (*Watcher, error) {
	if config.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if config.OnChange == nil {
		return nil, fmt.Errorf("change callback is required")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{config: config, watcher: w, logger: logger}, nil
}

// Run classifies the tree once, then again after every burst of changes,
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addTree(w.config.Root); err != nil {
		return err
	}
	w.logger.WithField("root", w.config.Root).Info("Watching source tree")

	w.config.OnChange(w.config.Classifier.Classify(w.config.Root))

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.WithError(err).WithField("path", event.Name).Warn("Failed to watch new directory")
					}
				}
			}

			if debounce == nil {
				debounce = time.NewTimer(w.config.Debounce)
			} else {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(w.config.Debounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			w.config.OnChange(w.config.Classifier.Classify(w.config.Root))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("File watcher error")
		}
	}
}

// addTree watches dir and every directory below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
