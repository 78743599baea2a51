// Package watch observes a corpus directory and reports document
// changes, so the sync surface can flag drift as soon as files move
// under it.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/plaide-labs/plaide-cli/internal/logger"
)

// ChangeType describes what happened to a watched file.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is one observed document change.
type Change struct {
	// Path is the absolute path of the affected file.
	Path string

	// Type is what happened to it.
	Type ChangeType
}

// Watcher reports changes to supported document files in one
// directory. Hidden files and subdirectories are ignored.
type Watcher struct {
	fsWatcher  *fsnotify.Watcher
	dir        string
	extensions map[string]bool
	changes    chan Change
}

// New creates a watcher over dir for files with the given extensions
// (lowercase, without dots). Run must be called to start delivery.
func New(dir string, extensions []string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}

	return &Watcher{
		fsWatcher:  fsWatcher,
		dir:        dir,
		extensions: extSet,
		changes:    make(chan Change, 16),
	}, nil
}

// Changes returns the delivery channel. It is closed when Run returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run delivers changes until ctx is cancelled or the underlying
// watcher closes.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if change, relevant := w.convert(event); relevant {
				select {
				case w.changes <- change:
				case <-ctx.Done():
					return
				}
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// Close stops the underlying watcher. Run returns shortly after.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

// convert maps a filesystem event to a document change, filtering out
// directories, hidden files and unsupported extensions.
func (w *Watcher) convert(event fsnotify.Event) (Change, bool) {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return Change{}, false
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if !w.extensions[ext] {
		return Change{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return Change{}, false
		}
		return Change{Path: event.Name, Type: ChangeCreated}, true
	case event.Op.Has(fsnotify.Write):
		return Change{Path: event.Name, Type: ChangeUpdated}, true
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// A rename away from the directory is a removal of the old path.
		return Change{Path: event.Name, Type: ChangeDeleted}, true
	default:
		return Change{}, false
	}
}
