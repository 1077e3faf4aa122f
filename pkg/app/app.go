package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"tableflip.dev/harmonizer/pkg/filter"
	"tableflip.dev/harmonizer/pkg/logging"
	"tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

// Service wires persistence, the schedule, the move coordinator and the
// filter state so UIs and CLIs share one set of operations.
type Service struct {
	Config      store.Config
	Persistence store.Persistence
	Schedule    *schedule.Store
	Moves       *move.Coordinator
	Filters     *filter.Set
	Log         zerolog.Logger

	closeLog func() error
}

// Options tune Open for a particular front end.
type Options struct {
	// Console receives log lines when no log file is configured. Nil
	// discards them, which keeps full-screen UIs clean.
	Console io.Writer
	// Persistence overrides the backend selected by the configuration.
	Persistence store.Persistence
}

// Open builds a ready Service: persistence from cfg, demo seeding of an
// empty store when enabled, then an initial load.
func Open(ctx context.Context, cfg store.Config, opts Options) (*Service, error) {
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil, fmt.Errorf("app: load config: %w", err)
		}
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel(),
		File:     cfg.LogFile(),
		Console:  opts.Console,
		Disabled: cfg.LogFile() == "" && opts.Console == nil,
	})
	if err != nil {
		return nil, err
	}

	p := opts.Persistence
	if p == nil {
		if p, err = store.Load(cfg); err != nil {
			_ = closeLog()
			return nil, err
		}
	}

	if cfg.Seed() {
		seeded, err := store.Seed(ctx, p, session.Demo())
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		if seeded {
			log.Info().Msg("seeded empty store with the demo week")
		}
	}

	sched := schedule.New(p,
		schedule.WithLogger(log.With().Str("component", "schedule").Logger()),
		schedule.WithRooms(cfg.Rooms()...),
	)
	if err := sched.Load(ctx); err != nil {
		_ = closeLog()
		return nil, err
	}

	return &Service{
		Config:      cfg,
		Persistence: p,
		Schedule:    sched,
		Moves:       move.New(sched, move.WithLogger(log.With().Str("component", "move").Logger())),
		Filters:     filter.New(),
		Log:         log,
		closeLog:    closeLog,
	}, nil
}

// Close releases the log file, if any.
func (s *Service) Close() error {
	if s.closeLog == nil {
		return nil
	}
	return s.closeLog()
}

// Visible returns the sessions matching the active filters.
func (s *Service) Visible() []session.Session {
	return s.Filters.Filter(s.Schedule.All())
}

// Options returns the filter options of the whole schedule.
func (s *Service) Options() filter.Options {
	return filter.OptionsOf(s.Schedule.All())
}

// Session returns the session with id or schedule.ErrNotFound.
func (s *Service) Session(id string) (session.Session, error) {
	v, ok := s.Schedule.Get(id)
	if !ok {
		return session.Session{}, fmt.Errorf("app: session %q: %w", id, schedule.ErrNotFound)
	}
	return v, nil
}

// Refresh reloads the schedule from persistence.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.Schedule.Reload(ctx); err != nil {
		s.Log.Error().Err(err).Msg("refresh")
		return err
	}
	return nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	return store.WatchIfSupported(ctx, s.Persistence)
}

// Follow reloads the schedule whenever the backend reports an external
// change, until ctx ends. Backends without a watcher return nil at once.
func (s *Service) Follow(ctx context.Context) error {
	ch, err := s.Watch(ctx)
	if err != nil {
		if store.IsWatchUnsupported(err) {
			return nil
		}
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			s.Log.Debug().Stringer("type", ev.Type).Str("id", ev.ID).Msg("store changed")
			if err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.Log.Warn().Err(err).Msg("reload after change")
			}
		}
	}
}
