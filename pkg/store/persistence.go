package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/harmonizer/pkg/session"
)

// ErrNotFound is returned when a backend holds no session with the id.
var ErrNotFound = errors.New("store: session not found")

// Persistence is the data-access collaborator of the schedule: a bulk load
// and a per-session partial write.
type Persistence interface {
	LoadAll(ctx context.Context) ([]session.Session, error)
	Persist(ctx context.Context, id string, u session.Updates) error
}

// Writer is implemented by backends that accept whole sessions (seed and
// import).
type Writer interface {
	Store(s session.Session) error
}

// Watcher is implemented by backends that can report external changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates the Persistence selected by cfg. A nil cfg reads the
// configuration from disk and environment.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	switch cfg.Backend() {
	case "", BackendDiskv:
		return NewDiskv(cfg.BasePath())
	case BackendMemory:
		return NewMemory(session.Demo()...), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend())
	}
}

// Seed writes sessions into w when p currently holds none. It reports
// whether anything was written.
func Seed(ctx context.Context, p Persistence, sessions []session.Session) (bool, error) {
	w, ok := p.(Writer)
	if !ok {
		return false, nil
	}
	existing, err := p.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("store: seed: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, s := range sessions {
		if err := w.Store(s); err != nil {
			return false, fmt.Errorf("store: seed %s: %w", s.ID, err)
		}
	}
	return true, nil
}

// Memory is an in-process Persistence holding a static list.
type Memory struct {
	mu       sync.Mutex
	sessions []session.Session
}

var (
	_ Persistence = (*Memory)(nil)
	_ Writer      = (*Memory)(nil)
)

// NewMemory returns a Memory backend holding copies of sessions.
func NewMemory(sessions ...session.Session) *Memory {
	m := &Memory{}
	m.sessions = append(m.sessions, sessions...)
	return m
}

// LoadAll returns the sessions in insertion order.
func (m *Memory) LoadAll(_ context.Context) ([]session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]session.Session, len(m.sessions))
	copy(out, m.sessions)
	return out, nil
}

// Persist applies u to the session with the id.
func (m *Memory) Persist(_ context.Context, id string, u session.Updates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i] = m.sessions[i].Apply(u)
			return nil
		}
	}
	return fmt.Errorf("store: persist %s: %w", id, ErrNotFound)
}

// Store inserts or replaces s, keeping the original position on replace.
func (m *Memory) Store(s session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions {
		if m.sessions[i].ID == s.ID {
			m.sessions[i] = s
			return nil
		}
	}
	m.sessions = append(m.sessions, s)
	return nil
}
