// Package move drives a requested session move through conflict detection
// and, when needed, a room substitution before commit.
package move

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

var (
	// ErrBusy is returned by SubmitMove while another move is in flight.
	ErrBusy = errors.New("move: another move is in progress")
	// ErrNoPendingMove is returned by ConfirmRoom and Cancel when idle.
	ErrNoPendingMove = errors.New("move: no move awaiting a room")
	// ErrNoCandidateRoom is returned by ConfirmRoom when no room is free at
	// the target. Cancel remains available.
	ErrNoCandidateRoom = errors.New("move: no room available")
	// ErrRoomNotCandidate is returned by ConfirmRoom for a room outside the
	// candidate set.
	ErrRoomNotCandidate = errors.New("move: room is not available at the target")
)

// State is the coordinator's position in the move flow.
type State int

const (
	Idle State = iota
	Evaluating
	AwaitingRoomChoice
	Committing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Evaluating:
		return "evaluating"
	case AwaitingRoomChoice:
		return "awaiting-room"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is the visible result of one coordinator call.
type Outcome int

const (
	// OutcomeNoop means the target was the current cell; nothing happened.
	OutcomeNoop Outcome = iota
	// OutcomeMoved means the move was committed.
	OutcomeMoved
	// OutcomeAwaitingRoom means a conflict suspended the flow.
	OutcomeAwaitingRoom
	// OutcomeCancelled means the pending move was dropped.
	OutcomeCancelled
	// OutcomeFailed means the commit failed; an error notification was sent.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoop:
		return "noop"
	case OutcomeMoved:
		return "moved"
	case OutcomeAwaitingRoom:
		return "awaiting-room"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Pending is a move suspended on a room choice.
type Pending struct {
	Session    session.Session `json:"session"`
	Conflict   session.Session `json:"conflict"`
	Target     session.Cell    `json:"target"`
	Candidates []string        `json:"candidates"`
}

// NoRoomAvailable reports whether confirmation must stay disabled.
func (p Pending) NoRoomAvailable() bool {
	return len(p.Candidates) == 0
}

// IsCandidate reports whether room may be confirmed.
func (p Pending) IsCandidate(room string) bool {
	for _, r := range p.Candidates {
		if r == room {
			return true
		}
	}
	return false
}

// Schedule is the part of the schedule store the coordinator drives.
type Schedule interface {
	Get(id string) (session.Session, bool)
	Evaluate(id string, target session.Cell) (schedule.Evaluation, error)
	CandidateRooms(cell session.Cell) []string
	Update(ctx context.Context, id string, u session.Updates) error
}

var _ Schedule = (*schedule.Store)(nil)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

// Coordinator runs one move flow at a time. It is safe for concurrent use;
// concurrent drops are refused with ErrBusy rather than queued.
type Coordinator struct {
	store Schedule
	log   zerolog.Logger

	mu      sync.Mutex
	state   State
	pending *Pending

	notifyCh chan Notification
	// last holds the latest notification per session id for callers that
	// do not consume the stream.
	last map[string]Notification
}

// New returns an idle coordinator over store.
func New(store Schedule, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		log:      zerolog.Nop(),
		notifyCh: make(chan Notification, 32),
		last:     make(map[string]Notification),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Notifications streams user-facing results. Sends never block.
func (c *Coordinator) Notifications() <-chan Notification {
	return c.notifyCh
}

// LastNotification returns the latest notification produced for the
// session id. Request-scoped front ends read it right after their own call
// instead of draining the shared stream.
func (c *Coordinator) LastNotification(id string) (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.last[id]
	return n, ok
}

// State returns the current state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns the suspended move, if any.
func (c *Coordinator) Pending() (Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Pending{}, false
	}
	p := *c.pending
	p.Candidates = append([]string(nil), c.pending.Candidates...)
	return p, true
}

func (c *Coordinator) setState(s State) {
	if c.state != s {
		c.log.Debug().Stringer("from", c.state).Stringer("to", s).Msg("move state")
	}
	c.state = s
}

// SubmitMove starts a move of s to target. The latest copy of s is looked up
// by id. With no conflict the move commits at once; otherwise the flow waits
// for ConfirmRoom or Cancel.
func (c *Coordinator) SubmitMove(ctx context.Context, s session.Session, target session.Cell) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return OutcomeNoop, ErrBusy
	}
	if !target.Valid() {
		return OutcomeNoop, fmt.Errorf("move: target %v is outside the grid", target)
	}

	current, ok := c.store.Get(s.ID)
	if !ok {
		c.notify(failed(moveFailedTitle, s, schedule.ErrNotFound))
		return OutcomeFailed, nil
	}
	if current.Cell() == target {
		return OutcomeNoop, nil
	}

	c.setState(Evaluating)
	ev, err := c.store.Evaluate(s.ID, target)
	if err != nil {
		c.setState(Idle)
		c.notify(failed(moveFailedTitle, s, err))
		return OutcomeFailed, nil
	}

	if ev.Conflicts {
		c.pending = &Pending{
			Session:    ev.Session,
			Conflict:   ev.Conflict,
			Target:     target,
			Candidates: ev.Candidates,
		}
		c.setState(AwaitingRoomChoice)
		c.log.Info().
			Str("id", ev.Session.ID).
			Str("conflict", ev.Conflict.ID).
			Strs("candidates", ev.Candidates).
			Msg("move needs a room")
		return OutcomeAwaitingRoom, nil
	}

	return c.commit(ctx, ev.Session, target, session.MoveTo(target), moveTitle, moveFailedTitle), nil
}

// ConfirmRoom commits the pending move into room.
func (c *Coordinator) ConfirmRoom(ctx context.Context, room string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != AwaitingRoomChoice || c.pending == nil {
		return OutcomeNoop, ErrNoPendingMove
	}
	p := *c.pending
	if p.NoRoomAvailable() {
		return OutcomeAwaitingRoom, ErrNoCandidateRoom
	}
	if !p.IsCandidate(room) {
		return OutcomeAwaitingRoom, fmt.Errorf("%w: %q", ErrRoomNotCandidate, room)
	}
	// The schedule may have been reloaded while waiting.
	p.Candidates = c.store.CandidateRooms(p.Target)
	if !p.IsCandidate(room) {
		c.pending.Candidates = p.Candidates
		c.log.Info().Str("id", p.Session.ID).Str("room", room).Strs("candidates", p.Candidates).Msg("room taken while waiting")
		return OutcomeAwaitingRoom, fmt.Errorf("%w: %q is no longer free", ErrRoomNotCandidate, room)
	}

	c.pending = nil
	u := session.MoveTo(p.Target).WithRoom(room)
	return c.commit(ctx, p.Session, p.Target, u, roomTitle, roomFailedTitle), nil
}

// Cancel drops the pending move. Nothing is written.
func (c *Coordinator) Cancel() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != AwaitingRoomChoice || c.pending == nil {
		return OutcomeNoop, ErrNoPendingMove
	}
	c.log.Info().Str("id", c.pending.Session.ID).Msg("move cancelled")
	c.pending = nil
	c.setState(Idle)
	return OutcomeCancelled, nil
}

// commit runs with c.mu held and always leaves the coordinator idle.
func (c *Coordinator) commit(ctx context.Context, s session.Session, target session.Cell, u session.Updates, title, failTitle string) Outcome {
	c.setState(Committing)
	defer c.setState(Idle)

	if err := c.store.Update(ctx, s.ID, u); err != nil {
		c.log.Warn().Err(err).Str("id", s.ID).Msg("move failed")
		c.notify(failed(failTitle, s, err))
		return OutcomeFailed
	}
	moved := s.Apply(u)
	c.notify(succeeded(title, moved, target))
	return OutcomeMoved
}

func (c *Coordinator) notify(n Notification) {
	if n.ID != "" {
		c.last[n.ID] = n
	}
	select {
	case c.notifyCh <- n:
	default:
		c.log.Debug().Str("title", n.Title).Msg("notification dropped")
	}
}
