package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/harmonizer/pkg/filter"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

func openMemory(t *testing.T, sessions ...session.Session) *Service {
	t.Helper()
	opts := Options{}
	if len(sessions) > 0 {
		opts.Persistence = store.NewMemory(sessions...)
	}
	svc, err := Open(context.Background(), store.StaticConfig{Kind: store.BackendMemory}, opts)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestOpenSeedsEmptyDiskv(t *testing.T) {
	ctx := context.Background()
	cfg := store.StaticConfig{Path: t.TempDir(), SeedDemo: true, ExtraRooms: []string{"Annex"}}

	svc, err := Open(ctx, cfg, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer svc.Close()

	if got := svc.Schedule.Len(); got != len(session.Demo()) {
		t.Fatalf("expected %d seeded sessions, got %d", len(session.Demo()), got)
	}
	found := false
	for _, r := range svc.Schedule.Rooms() {
		if r == "Annex" {
			found = true
		}
	}
	if !found {
		t.Fatalf("configured room missing from %v", svc.Schedule.Rooms())
	}

	// A second open must not seed again.
	if _, err := svc.Moves.SubmitMove(ctx, session.Demo()[1], session.Cell{Day: session.Samedi, Slot: 4}); err != nil {
		t.Fatalf("move: %v", err)
	}
	again, err := Open(ctx, cfg, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	got, err := again.Session("2")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if got.Jour != session.Samedi || got.Creneau != 4 {
		t.Fatalf("move not persisted: %+v", got)
	}
}

func TestVisibleAppliesFilters(t *testing.T) {
	svc := openMemory(t)
	svc.Filters.Apply(filter.Group, "Group A")
	visible := svc.Visible()
	if len(visible) != 2 || visible[0].ID != "1" || visible[1].ID != "4" {
		t.Fatalf("unexpected visible sessions %+v", visible)
	}
	if got := svc.Options().Groups; len(got) != 4 {
		t.Fatalf("options should ignore filters, got %v", got)
	}
}

func TestSessionNotFound(t *testing.T) {
	svc := openMemory(t)
	if _, err := svc.Session("missing"); !errors.Is(err, schedule.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditReportsEachPairOnce(t *testing.T) {
	sessions := session.Demo()
	// Put Group A twice at lundi/1 and share a room at samedi/2.
	sessions[3].Jour, sessions[3].Creneau = session.Lundi, 1
	sessions[4].Jour, sessions[4].Creneau, sessions[4].Salle = session.Samedi, 2, "Room 606"
	svc := openMemory(t, sessions...)

	got := svc.Audit()
	if len(got) != 2 {
		t.Fatalf("expected 2 collisions, got %d: %+v", len(got), got)
	}
	if got[0].Cell.Day != session.Lundi || got[0].First.ID != "1" || got[0].Second.ID != "4" {
		t.Fatalf("unexpected first collision %+v", got[0])
	}
	if got[1].Cell.Day != session.Samedi || got[1].Reasons[0] != schedule.ReasonRoom {
		t.Fatalf("unexpected second collision %+v", got[1])
	}
}

func TestReport(t *testing.T) {
	svc := openMemory(t)
	r := svc.Report()
	if r.Total != len(session.Demo()) {
		t.Fatalf("expected total %d, got %d", len(session.Demo()), r.Total)
	}
	if len(r.Sections) != 6 || r.Sections[0].Day != session.Lundi {
		t.Fatalf("unexpected sections %+v", r.Sections)
	}
	for _, u := range r.Rooms {
		if u.Used != 1 || u.Free != 23 {
			t.Fatalf("unexpected usage %+v", u)
		}
	}
	if len(r.Collisions) != 0 {
		t.Fatalf("demo week should have no collisions: %+v", r.Collisions)
	}
}

func TestFollowReloadsExternalChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	svc, err := Open(ctx, store.StaticConfig{Path: dir, SeedDemo: true}, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer svc.Close()

	done := make(chan error, 1)
	go func() { done <- svc.Follow(ctx) }()
	// Allow the watcher to subscribe before writing.
	time.Sleep(50 * time.Millisecond)

	other, err := store.NewDiskv(dir)
	if err != nil {
		t.Fatalf("second handle: %v", err)
	}
	room := "Annex 9"
	if err := other.Persist(ctx, "5", session.Updates{Salle: &room}); err != nil {
		t.Fatalf("external persist: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s, ok := svc.Schedule.Get("5"); ok && s.Salle == room {
			cancel()
			<-done
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("timed out waiting for reload")
}

func TestFollowWithoutWatcher(t *testing.T) {
	svc := openMemory(t)
	if err := svc.Follow(context.Background()); err != nil {
		t.Fatalf("expected nil for memory backend, got %v", err)
	}
}
