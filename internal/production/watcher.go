package production

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ChangeEvent reports that a watched file settled after one or more writes.
type ChangeEvent struct {
	Path string
	At   time.Time
}

// ChangeFunc receives settled changes on the watcher goroutine.
type ChangeFunc func(ctx context.Context, ev ChangeEvent)

// ChannelSink returns a ChangeFunc that forwards events to ch without
// blocking; events are dropped when ch is full.
func ChannelSink(ch chan<- ChangeEvent) ChangeFunc {
	return func(ctx context.Context, ev ChangeEvent) {
		select {
		case ch <- ev:
		case <-ctx.Done():
		default:
		}
	}
}

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so that editors which save by renaming a temporary file are
// still seen.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	files    map[string]struct{}
	pending  map[string]time.Time
	debounce time.Duration
	onChange ChangeFunc
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	closed   bool
}

// NewWatcher creates a watcher for paths. A nil logger discards output.
func NewWatcher(paths []string, onChange ChangeFunc, logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]struct{}),
		pending:  make(map[string]time.Time),
		debounce: 200 * time.Millisecond,
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return w, nil
}

// SetDebounce sets how long a file must be quiet before it is reported.
// Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounce = d
}

// Start runs the event loop in a goroutine until ctx is done or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if w.running {
		return nil
	}
	w.running = true
	go w.run(ctx)
	return nil
}

// Stop ends the event loop, waits for it and releases the watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	running := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}
	if err := w.fs.Close(); err != nil {
		w.logger.Warn("close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	w.mu.Lock()
	tick := max(w.debounce/2, 10*time.Millisecond)
	w.mu.Unlock()
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return
	}
	name := filepath.Clean(ev.Name)
	if _, ok := w.files[name]; !ok {
		return
	}
	w.logger.Debug("file event", zap.String("path", name), zap.Stringer("op", ev.Op))
	w.mu.Lock()
	w.pending[name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	w.mu.Lock()
	for name, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, name)
			delete(w.pending, name)
		}
	}
	w.mu.Unlock()

	for _, name := range ready {
		if w.onChange != nil {
			w.onChange(ctx, ChangeEvent{Path: name, At: now})
		}
	}
}
