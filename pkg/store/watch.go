package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a storage change notification.
type EventType int

const (
	// EventSessionChanged indicates the document of one session was written
	// outside this process.
	EventSessionChanged EventType = iota

	// EventInvalidated signals a change that could not be tied to a single
	// session; callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventSessionChanged:
		return "session-changed"
	case EventInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// Event is emitted by Watch when the storage directory changes.
type Event struct {
	Type EventType
	ID   string
}

const watchThrottle = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. The channel is closed
// once ctx is done or the watcher fails.
func (p *Diskv) Watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Join(p.basePath, sessionsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure sessions dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			_ = watcher.Close()
		})
	}

	for _, d := range []string{p.basePath, dir} {
		if err := watcher.Add(d); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", d, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		// Drop when the consumer lags; the next reload catches up.
		send := func(ev Event) {
			select {
			case events <- ev:
			default:
			}
		}

		throttle := newEventThrottle(watchThrottle)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev, ok := p.classify(evt.Name); ok {
					throttle.Enqueue(ev, send)
				}
			}
		}
	}()

	return events, nil
}

// classify maps a changed path to an event. Temp files of the order index
// are ignored.
func (p *Diskv) classify(path string) (Event, bool) {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return Event{}, false
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	switch {
	case len(parts) == 1 && parts[0] == orderIndexFile:
		return Event{Type: EventInvalidated}, true
	case len(parts) == 1:
		return Event{}, false
	case len(parts) == 2 && parts[0] == sessionsDir:
		id, ok := fromKey(parts[1])
		if !ok {
			return Event{}, false
		}
		return Event{Type: EventSessionChanged, ID: id}, true
	default:
		return Event{Type: EventInvalidated}, true
	}
}

// eventThrottle coalesces bursts of notifications so listeners reload once
// per burst of filesystem activity.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[string]struct{}
	delay   time.Duration
	// stopped is set before the events channel closes; a callback that
	// already fired must not send after that.
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[string]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[string]struct{})
	}
	t.pending[ev.Type][ev.ID] = struct{}{}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
}

// flush sends one invalidation if any was queued, and otherwise one event
// per changed session. send must not block; it runs under t.mu so Stop
// waits for it.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[EventType]map[string]struct{})
	t.timer = nil
	if t.stopped {
		return
	}

	if _, ok := pending[EventInvalidated]; ok {
		send(Event{Type: EventInvalidated})
		return
	}
	for id := range pending[EventSessionChanged] {
		send(Event{Type: EventSessionChanged, ID: id})
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

var errNoWatch = errors.New("store: backend does not support watching")

// WatchIfSupported starts p's watcher when it has one.
func WatchIfSupported(ctx context.Context, p Persistence) (<-chan Event, error) {
	w, ok := p.(Watcher)
	if !ok {
		return nil, errNoWatch
	}
	return w.Watch(ctx)
}

// IsWatchUnsupported reports whether err came from WatchIfSupported on a
// backend without a watcher.
func IsWatchUnsupported(err error) bool {
	return errors.Is(err, errNoWatch)
}
