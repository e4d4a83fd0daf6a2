package preset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ApplyFunc receives the raw contents of a changed preset file.
type ApplyFunc func(data []byte) error

// Watcher re-applies a preset file whenever it is written or replaced.
type Watcher struct {
	path  string
	apply ApplyFunc
	log   *logrus.Entry
	fs    *fsnotify.Watcher
}

// NewWatcher watches the directory containing path, so editors that save by
// rename are picked up too. A nil logger uses the standard logger.
func NewWatcher(path string, apply ApplyFunc, logger *logrus.Logger) (*Watcher, error) {
	if apply == nil {
		return nil, errors.New("preset: apply func must not be nil")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}

	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("preset: %w", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Watcher{
		path:  abs,
		apply: apply,
		log:   logger.WithFields(logrus.Fields{"component": "preset", "path": abs}),
		fs:    fs,
	}, nil
}

// Run delivers reloads on the calling goroutine until ctx is cancelled or
// the underlying watcher fails. Cancellation returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.log.WithField("function", "Run").Info("Watching preset")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return errors.New("preset: watcher closed")
			}

			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.reload()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("preset: watcher closed")
			}

			w.log.WithFields(logrus.Fields{
				"function": "Run",
				"error":    err.Error(),
			}).Warn("Watcher error")
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// Partially replaced files show up as transient read errors.
		w.log.WithFields(logrus.Fields{
			"function": "reload",
			"error":    err.Error(),
		}).Debug("Preset not readable yet")

		return
	}

	if err := w.apply(data); err != nil {
		w.log.WithFields(logrus.Fields{
			"function": "reload",
			"error":    err.Error(),
		}).Warn("Failed to apply preset")

		return
	}

	w.log.WithField("function", "reload").Info("Preset reloaded")
}
