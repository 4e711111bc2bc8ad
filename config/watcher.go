package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/options"
)

// DefaultDebounce coalesces the bursts of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// ReloadCallback is called with the watched directory once its snippet or
// profile files have settled after a change
type ReloadCallback func(dir string) error

// ExtensionsWatcher watches an extensions directory and triggers reload
// callbacks when its snippets or syntaxProfiles files change
type ExtensionsWatcher struct {
	dir            string
	watcher        *fsnotify.Watcher
	logger         *zap.SugaredLogger
	debouncePeriod time.Duration

	mu            sync.Mutex
	callbacks     []ReloadCallback
	debounceTimer *time.Timer
	started       bool
	stopped       bool

	done     chan struct{}
	inFlight sync.WaitGroup
}

// NewExtensionsWatcher creates a watcher for dir. Call Start to begin
// delivering events and Stop to release it.
func NewExtensionsWatcher(dir string) (*ExtensionsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	// The directory is watched rather than each file so that files created
	// after startup are seen
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "failed to watch extensions directory %s", dir)
	}

	return &ExtensionsWatcher{
		dir:            dir,
		watcher:        watcher,
		logger:         logger.ComponentLogger("config.watcher"),
		debouncePeriod: DefaultDebounce,
		done:           make(chan struct{}),
	}, nil
}

// OnReload registers a callback to be called after a change
func (w *ExtensionsWatcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching for changes
func (w *ExtensionsWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.watchLoop()
}

func (w *ExtensionsWatcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !options.IsSourceFile(event.Name) {
				continue
			}
			w.logger.Debugw("Extensions file changed",
				logger.FieldPath, event.Name,
				logger.FieldOperation, event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("Extensions watcher error", logger.FieldError, err)
		}
	}
}

// scheduleReload restarts the debounce timer
func (w *ExtensionsWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	if w.debounceTimer != nil && w.debounceTimer.Stop() {
		// The pending reload will not run
		w.inFlight.Done()
	}
	w.inFlight.Add(1)
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		defer w.inFlight.Done()
		w.reload()
	})
}

func (w *ExtensionsWatcher) reload() {
	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.Infow("Extensions changed, reloading", logger.FieldPath, w.dir)
	for _, callback := range callbacks {
		if err := callback(w.dir); err != nil {
			// Remaining callbacks still run
			w.logger.Warnw("Extensions reload callback error", logger.FieldError, err)
		}
	}
}

// Stop stops watching, cancels a pending reload and waits for a running
// one to finish
func (w *ExtensionsWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	started := w.started
	if w.debounceTimer != nil && w.debounceTimer.Stop() {
		w.inFlight.Done()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	w.inFlight.Wait()
	return err
}
