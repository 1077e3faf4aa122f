// Package mcp provides the Model Context Protocol server integration for harmonizer.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/filter"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

// Service adapts the shared schedule service to the operations exposed over MCP.
type Service struct {
	App *app.Service
}

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = schedule.ErrNotFound

// ListOptions narrows list_sessions. Empty fields do not filter.
type ListOptions struct {
	Teacher string
	Group   string
	Room    string
	Day     string
}

// MoveOptions captures the parameters of a one-shot move.
type MoveOptions struct {
	ID   string
	Day  string
	Slot int
	// Room answers a conflict. Without it a conflicting move is cancelled
	// and the candidates are reported.
	Room string
}

// SessionDTO is a transport-friendly projection of a session.
type SessionDTO struct {
	ID        string `json:"id"`
	Formateur string `json:"formateur"`
	Groupe    string `json:"groupe"`
	Module    string `json:"module"`
	Jour      string `json:"jour"`
	Creneau   int    `json:"creneau"`
	Horaire   string `json:"horaire"`
	Salle     string `json:"salle"`
}

// ConflictDTO describes one colliding session and why it collides.
type ConflictDTO struct {
	Session SessionDTO `json:"session"`
	Reasons []string   `json:"reasons"`
}

// MoveResultDTO reports the outcome of move_session.
type MoveResultDTO struct {
	Outcome      string           `json:"outcome"`
	Session      SessionDTO       `json:"session"`
	Conflict     *SessionDTO      `json:"conflict,omitempty"`
	Candidates   []string         `json:"candidates,omitempty"`
	Notification *mv.Notification `json:"notification,omitempty"`
}

// NewService wraps a ready application service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// ListSessions returns the sessions matching opts in grid order.
func (s *Service) ListSessions(ctx context.Context, opts ListOptions) ([]SessionDTO, error) {
	set := filter.New()
	set.Apply(filter.Teacher, opts.Teacher)
	set.Apply(filter.Group, opts.Group)
	set.Apply(filter.Room, opts.Room)

	var day session.Day
	if strings.TrimSpace(opts.Day) != "" {
		var err error
		if day, err = session.ParseDay(opts.Day); err != nil {
			return nil, err
		}
	}

	out := make([]SessionDTO, 0)
	for _, sess := range set.Filter(s.App.Schedule.All()) {
		if day != "" && sess.Jour != day {
			continue
		}
		out = append(out, toDTO(sess))
	}
	return out, nil
}

// SessionByID fetches a single session.
func (s *Service) SessionByID(ctx context.Context, id string) (*SessionDTO, error) {
	sess, err := s.App.Session(id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(sess)
	return &dto, nil
}

// FindConflict returns the first session blocking a move of id to the
// target cell, or nil when the cell is free.
func (s *Service) FindConflict(ctx context.Context, id, day string, slot int) (*SessionDTO, error) {
	sess, target, err := s.resolve(id, day, slot)
	if err != nil {
		return nil, err
	}
	other, ok := s.App.Schedule.FindConflict(sess, target)
	if !ok {
		return nil, nil
	}
	dto := toDTO(other)
	return &dto, nil
}

// ListConflicts returns every session a move of id to the target would
// collide with.
func (s *Service) ListConflicts(ctx context.Context, id, day string, slot int) ([]ConflictDTO, error) {
	sess, target, err := s.resolve(id, day, slot)
	if err != nil {
		return nil, err
	}
	found := s.App.Schedule.FindConflicts(sess, target)
	out := make([]ConflictDTO, 0, len(found))
	for _, c := range found {
		reasons := make([]string, len(c.Reasons))
		for i, r := range c.Reasons {
			reasons[i] = string(r)
		}
		out = append(out, ConflictDTO{Session: toDTO(c.Session), Reasons: reasons})
	}
	return out, nil
}

// CandidateRooms lists the rooms free at a cell.
func (s *Service) CandidateRooms(ctx context.Context, day string, slot int) ([]string, error) {
	cell, err := session.NewCell(day, slot)
	if err != nil {
		return nil, err
	}
	return s.App.Schedule.CandidateRooms(cell), nil
}

// Rooms lists every known room.
func (s *Service) Rooms(ctx context.Context) []string {
	return s.App.Schedule.Rooms()
}

// MoveSession runs one move to completion. A conflict is answered with
// opts.Room when it is a candidate; otherwise the move is cancelled and the
// result carries the candidates so the caller can retry with a room.
func (s *Service) MoveSession(ctx context.Context, opts MoveOptions) (*MoveResultDTO, error) {
	sess, target, err := s.resolve(opts.ID, opts.Day, opts.Slot)
	if err != nil {
		return nil, err
	}

	coord := s.App.Moves
	outcome, err := coord.SubmitMove(ctx, sess, target)
	if err != nil {
		return nil, err
	}

	res := &MoveResultDTO{}
	if outcome == mv.OutcomeAwaitingRoom {
		p, _ := coord.Pending()
		conflict := toDTO(p.Conflict)
		res.Conflict = &conflict
		res.Candidates = p.Candidates

		if opts.Room == "" || !p.IsCandidate(opts.Room) {
			outcome, _ = coord.Cancel()
			if p.NoRoomAvailable() {
				return nil, fmt.Errorf("no room available at %s: %w", target, mv.ErrNoCandidateRoom)
			}
			if opts.Room != "" {
				return nil, fmt.Errorf("%w: %q, one of: %s", mv.ErrRoomNotCandidate, opts.Room, strings.Join(p.Candidates, ", "))
			}
		} else if outcome, err = coord.ConfirmRoom(ctx, opts.Room); err != nil {
			_, _ = coord.Cancel()
			return nil, err
		}
	}

	res.Outcome = outcome.String()
	current, _ := s.App.Schedule.Get(sess.ID)
	res.Session = toDTO(current)
	if outcome == mv.OutcomeMoved || outcome == mv.OutcomeFailed {
		if n, ok := coord.LastNotification(sess.ID); ok {
			res.Notification = &n
		}
	}
	if res.Notification != nil && res.Notification.Kind == mv.KindError {
		return res, errors.New(res.Notification.Message)
	}
	return res, nil
}

func (s *Service) resolve(id, day string, slot int) (session.Session, session.Cell, error) {
	sess, err := s.App.Session(id)
	if err != nil {
		return session.Session{}, session.Cell{}, err
	}
	target, err := session.NewCell(day, slot)
	if err != nil {
		return session.Session{}, session.Cell{}, err
	}
	return sess, target, nil
}

func toDTO(s session.Session) SessionDTO {
	return SessionDTO{
		ID:        s.ID,
		Formateur: s.Formateur,
		Groupe:    s.Groupe,
		Module:    s.Module,
		Jour:      string(s.Jour),
		Creneau:   int(s.Creneau),
		Horaire:   s.Creneau.Label(),
		Salle:     s.Salle,
	}
}
