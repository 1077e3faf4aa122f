package mcp

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/harmonizer/pkg/app"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/store"
)

func newService(t *testing.T) *Service {
	t.Helper()
	a, err := app.Open(context.Background(), store.StaticConfig{Kind: store.BackendMemory, SeedDemo: true, ExtraRooms: []string{"Annex"}}, app.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return NewService(a)
}

func TestServiceListSessionsFilters(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	all, err := svc.ListSessions(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 sessions, got %d", len(all))
	}

	groupA, err := svc.ListSessions(ctx, ListOptions{Group: "Group A"})
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(groupA) != 2 {
		t.Fatalf("expected 2 Group A sessions, got %d", len(groupA))
	}

	monday, err := svc.ListSessions(ctx, ListOptions{Day: "Lundi"})
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(monday) != 1 || monday[0].ID != "1" || monday[0].Horaire != "08:30 - 11:00" {
		t.Fatalf("unexpected monday sessions %+v", monday)
	}

	if _, err := svc.ListSessions(ctx, ListOptions{Day: "dimanche"}); err == nil {
		t.Fatalf("expected error for unknown day")
	}
}

func TestServiceSessionByIDNotFound(t *testing.T) {
	svc := newService(t)
	if _, err := svc.SessionByID(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestServiceFindConflict(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	// Session 4 shares Group A with session 1.
	conflict, err := svc.FindConflict(ctx, "4", "lundi", 1)
	if err != nil {
		t.Fatalf("FindConflict failed: %v", err)
	}
	if conflict == nil || conflict.ID != "1" {
		t.Fatalf("expected conflict with session 1, got %+v", conflict)
	}

	free, err := svc.FindConflict(ctx, "4", "lundi", 2)
	if err != nil {
		t.Fatalf("FindConflict failed: %v", err)
	}
	if free != nil {
		t.Fatalf("expected free cell, got %+v", free)
	}

	conflicts, err := svc.ListConflicts(ctx, "4", "lundi", 1)
	if err != nil {
		t.Fatalf("ListConflicts failed: %v", err)
	}
	if len(conflicts) != 1 || len(conflicts[0].Reasons) != 1 || conflicts[0].Reasons[0] != "groupe" {
		t.Fatalf("unexpected conflicts %+v", conflicts)
	}

	if _, err := svc.FindConflict(ctx, "4", "lundi", 9); err == nil {
		t.Fatalf("expected error for slot outside the grid")
	}
}

func TestServiceCandidateRooms(t *testing.T) {
	svc := newService(t)
	rooms, err := svc.CandidateRooms(context.Background(), "lundi", 1)
	if err != nil {
		t.Fatalf("CandidateRooms failed: %v", err)
	}
	for _, r := range rooms {
		if r == "Room 101" {
			t.Fatalf("occupied room listed as candidate: %v", rooms)
		}
	}
	if len(rooms) != len(svc.Rooms(context.Background()))-1 {
		t.Fatalf("expected every room but one, got %v", rooms)
	}
}

func TestServiceMoveSessionDirect(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.MoveSession(ctx, MoveOptions{ID: "2", Day: "lundi", Slot: 2})
	if err != nil {
		t.Fatalf("MoveSession failed: %v", err)
	}
	if res.Outcome != "moved" || res.Session.Jour != "lundi" || res.Session.Creneau != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Notification == nil || res.Notification.Title != "Session moved" {
		t.Fatalf("expected success notification, got %+v", res.Notification)
	}
}

func TestServiceMoveSessionNoop(t *testing.T) {
	svc := newService(t)
	res, err := svc.MoveSession(context.Background(), MoveOptions{ID: "1", Day: "lundi", Slot: 1})
	if err != nil {
		t.Fatalf("MoveSession failed: %v", err)
	}
	if res.Outcome != "noop" || res.Notification != nil {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestServiceMoveSessionConflictWithoutRoom(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.MoveSession(ctx, MoveOptions{ID: "4", Day: "lundi", Slot: 1})
	if err != nil {
		t.Fatalf("MoveSession failed: %v", err)
	}
	if res.Outcome != "cancelled" || res.Conflict == nil || res.Conflict.ID != "1" || len(res.Candidates) == 0 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Session.Jour != "jeudi" {
		t.Fatalf("session moved without a room: %+v", res.Session)
	}
	if svc.App.Moves.State() != mv.Idle {
		t.Fatalf("coordinator left in %v", svc.App.Moves.State())
	}
}

func TestServiceMoveSessionConflictWithRoom(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.MoveSession(ctx, MoveOptions{ID: "4", Day: "lundi", Slot: 1, Room: "Annex"})
	if err != nil {
		t.Fatalf("MoveSession failed: %v", err)
	}
	if res.Outcome != "moved" || res.Session.Salle != "Annex" || res.Session.Jour != "lundi" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Notification == nil || res.Notification.Title != "Room changed" {
		t.Fatalf("expected room notification, got %+v", res.Notification)
	}
}

func TestServiceMoveSessionRejectsOccupiedRoom(t *testing.T) {
	svc := newService(t)
	_, err := svc.MoveSession(context.Background(), MoveOptions{ID: "4", Day: "lundi", Slot: 1, Room: "Room 101"})
	if !errors.Is(err, mv.ErrRoomNotCandidate) {
		t.Fatalf("expected ErrRoomNotCandidate, got %v", err)
	}
	if svc.App.Moves.State() != mv.Idle {
		t.Fatalf("coordinator left in %v", svc.App.Moves.State())
	}
}

func TestParseTransport(t *testing.T) {
	if tr, err := ParseTransport("STDIO"); err != nil || tr != TransportStdio {
		t.Fatalf("expected stdio, got %q %v", tr, err)
	}
	if _, err := ParseTransport("ws"); err == nil {
		t.Fatalf("expected error for unknown transport")
	}
}
