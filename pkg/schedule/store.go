// Package schedule holds the authoritative session collection, answers
// conflict queries against it and applies validated moves through the
// persistence collaborator.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

// EventType tells listeners what changed.
type EventType int

const (
	// EventLoaded follows a bulk (re)load of the collection.
	EventLoaded EventType = iota
	// EventUpdated follows a committed Update of one session.
	EventUpdated
)

// Event is emitted on the Events channel after each mutation.
type Event struct {
	Type    EventType
	ID      string
	Session session.Session
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for loads, updates and failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithRooms adds rooms that exist even when no session uses them.
func WithRooms(rooms ...string) Option {
	return func(s *Store) {
		for _, r := range rooms {
			if r = strings.TrimSpace(r); r != "" {
				s.extraRooms = append(s.extraRooms, r)
			}
		}
	}
}

// Store owns the session collection. All schedule mutations go through
// Update; reads return copies.
type Store struct {
	p   store.Persistence
	log zerolog.Logger

	mu         sync.RWMutex
	sessions   []session.Session
	index      map[string]int
	extraRooms []string

	eventCh chan Event
}

// New returns an empty Store backed by p. Call Load to fill it.
func New(p store.Persistence, opts ...Option) *Store {
	s := &Store{
		p:       p,
		log:     zerolog.Nop(),
		index:   make(map[string]int),
		eventCh: make(chan Event, 64),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Events exposes mutation notifications. Sends never block; a slow reader
// misses events, not state.
func (s *Store) Events() <-chan Event {
	return s.eventCh
}

func (s *Store) emit(ev Event) {
	select {
	case s.eventCh <- ev:
	default:
	}
}

// Load replaces the collection with the collaborator's sessions. The
// collection is left untouched when any record is invalid.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.p.LoadAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load sessions")
		return fmt.Errorf("schedule: load: %w: %w", ErrPersistence, err)
	}

	index := make(map[string]int, len(loaded))
	for i, v := range loaded {
		if err := session.Validate(v); err != nil {
			return fmt.Errorf("schedule: load record %d: %w: %w", i+1, ErrInvalidSession, err)
		}
		if _, dup := index[v.ID]; dup {
			return fmt.Errorf("schedule: load %q: %w", v.ID, ErrDuplicateID)
		}
		index[v.ID] = i
	}

	s.mu.Lock()
	s.sessions = append([]session.Session(nil), loaded...)
	s.index = index
	s.mu.Unlock()

	s.log.Debug().Int("sessions", len(loaded)).Msg("schedule loaded")
	s.emit(Event{Type: EventLoaded})
	return nil
}

// Reload re-reads the collaborator, for refresh actions and external edits.
func (s *Store) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// All returns the collection in insertion order.
func (s *Store) All() []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len reports the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Get returns the current copy of the session with id.
func (s *Store) Get(id string) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return session.Session{}, false
	}
	return s.sessions[i], true
}

// FindConflict returns the first session, in collection order, that sits at
// target and shares a room, teacher or group with sess. sess itself (by id)
// is never reported. Other collisions may exist; see FindConflicts.
func (s *Store) FindConflict(sess session.Session, target session.Cell) (session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findConflictLocked(sess, target)
}

func (s *Store) findConflictLocked(sess session.Session, target session.Cell) (session.Session, bool) {
	for _, other := range s.sessions {
		if collides(sess, target, other) {
			return other, true
		}
	}
	return session.Session{}, false
}

// FindConflicts returns every collision at target with its reasons.
func (s *Store) FindConflicts(sess session.Session, target session.Cell) []Conflict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Conflict
	for _, other := range s.sessions {
		if r := reasons(sess, target, other); len(r) > 0 {
			out = append(out, Conflict{Session: other, Reasons: r})
		}
	}
	return out
}

// Update applies u to the session with id. The collaborator is written first;
// memory changes only when it succeeds, under the same write lock, so no
// reader sees a half-applied move.
func (s *Store) Update(ctx context.Context, id string, u session.Updates) error {
	if err := session.ValidateUpdates(u); err != nil {
		return fmt.Errorf("schedule: update %s: %w: %w", id, ErrInvalidUpdate, err)
	}

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("schedule: update %s: %w", id, ErrNotFound)
	}
	if u.Empty() {
		s.mu.Unlock()
		return nil
	}
	if err := s.p.Persist(ctx, id, u); err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Str("id", id).Msg("persist update")
		return fmt.Errorf("schedule: update %s: %w: %w", id, ErrPersistence, err)
	}
	updated := s.sessions[i].Apply(u)
	s.sessions[i] = updated
	s.mu.Unlock()

	s.log.Info().Str("id", id).Str("cell", updated.Location()).Str("salle", updated.Salle).Msg("session updated")
	s.emit(Event{Type: EventUpdated, ID: id, Session: updated})
	return nil
}

// Rooms returns every known room, sorted: those in use plus configured
// extras.
func (s *Store) Rooms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomsLocked()
}

func (s *Store) roomsLocked() []string {
	seen := make(map[string]struct{}, len(s.sessions)+len(s.extraRooms))
	for _, v := range s.sessions {
		seen[v.Salle] = struct{}{}
	}
	for _, r := range s.extraRooms {
		seen[r] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// OccupiedRooms returns the sorted rooms used by sessions at cell.
func (s *Store) OccupiedRooms(cell session.Cell) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occ := s.occupiedLocked(cell)
	out := make([]string, 0, len(occ))
	for r := range occ {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

func (s *Store) occupiedLocked(cell session.Cell) map[string]struct{} {
	occ := make(map[string]struct{})
	for _, v := range s.sessions {
		if v.Cell() == cell {
			occ[v.Salle] = struct{}{}
		}
	}
	return occ
}

// CandidateRooms returns the known rooms no session uses at cell, sorted.
func (s *Store) CandidateRooms(cell session.Cell) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidatesLocked(cell)
}

func (s *Store) candidatesLocked(cell session.Cell) []string {
	occ := s.occupiedLocked(cell)
	var out []string
	for _, r := range s.roomsLocked() {
		if _, used := occ[r]; !used {
			out = append(out, r)
		}
	}
	return out
}

// Evaluation is a consistent view of a proposed move.
type Evaluation struct {
	Session    session.Session
	Target     session.Cell
	Conflict   session.Session
	Conflicts  bool
	Candidates []string
}

// Evaluate resolves the latest copy of id and computes its first conflict at
// target and the rooms free there, all under one read lock.
func (s *Store) Evaluate(id string, target session.Cell) (Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return Evaluation{}, fmt.Errorf("schedule: evaluate %s: %w", id, ErrNotFound)
	}
	ev := Evaluation{Session: s.sessions[i], Target: target}
	ev.Conflict, ev.Conflicts = s.findConflictLocked(ev.Session, target)
	if ev.Conflicts {
		ev.Candidates = s.candidatesLocked(target)
	}
	return ev, nil
}
