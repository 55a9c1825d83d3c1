package folio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/folio/content"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher calls a function after files in the watched directories change.
// Bursts of events within the debounce window produce a single call.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	match    func(name string) bool
	onChange func()
	logger   content.Logger

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

// Watch starts watching dirs. Missing directories are skipped with a
// warning. match filters event paths; nil accepts everything.
func Watch(dirs []string, debounce time.Duration, match func(string) bool, onChange func(), logger content.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if match == nil {
		match = func(string) bool { return true }
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		match:    match,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Warnf("not watching %s: directory not found", dir)
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.match(event.Name) {
				continue
			}
			w.logger.Infof("change detected: %s (%s)", event.Name, event.Op)
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("watcher error: %v", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

// Close stops watching. A pending debounced call is cancelled.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

// contentMatcher accepts post files with ext and the projects catalog.
func contentMatcher(ext, projectsFile string) func(string) bool {
	catalog := filepath.Clean(projectsFile)
	return func(name string) bool {
		return filepath.Ext(name) == ext || filepath.Clean(name) == catalog
	}
}
