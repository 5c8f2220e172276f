// Package watch reports changes to a fixed set of files in one directory
package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bethropolis/ainativeignore/internal/utils"
)

// Event says that a watched file was written, created, removed or renamed.
type Event struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Op   string `json:"op"`
}

// Watcher watches a directory and forwards events for the named files only.
// Notifications are coalesced: while one event is pending, later ones are
// dropped, since a single reload covers them all.
type Watcher struct {
	dir    string
	names  map[string]struct{}
	logger utils.Logger

	fsw       *fsnotify.Watcher
	events    chan Event
	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger used for watch errors.
func WithLogger(l utils.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching dir for changes to the given base names.
func New(dir string, names []string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", dir, err)
	}

	w := &Watcher{
		dir:    abs,
		names:  make(map[string]struct{}, len(names)),
		logger: utils.NoopLogger{},
		events: make(chan Event, 1),
		closed: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, n := range names {
		w.names[n] = struct{}{}
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fsw.Add(abs); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add %q: %w", abs, err)
	}
	w.fsw = fsw

	go w.run()
	return w, nil
}

// Events delivers change notifications. The channel is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Close stops the watcher and releases its handles. It is safe to call more than once.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.closeOnce.Do(func() {
		close(w.closed)
		err = w.fsw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.events)

	for {
		select {
		case <-w.closed:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch: error watching %s: %v", w.dir, err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	name := filepath.Base(ev.Name)
	if _, ok := w.names[name]; !ok {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("watch: %s %s", ev.Op, name)
	select {
	case w.events <- Event{Name: name, Path: ev.Name, Op: ev.Op.String()}:
	default:
	}
}
