package session

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestApplyPreservesIdentity(t *testing.T) {
	s := Demo()[0]
	moved := s.Apply(MoveTo(Cell{Day: Samedi, Slot: 4}).WithRoom("Lab 999"))

	if moved.ID != s.ID || moved.Formateur != s.Formateur || moved.Groupe != s.Groupe || moved.Module != s.Module {
		t.Fatalf("identity fields changed: %+v -> %+v", s, moved)
	}
	if moved.Cell() != (Cell{Day: Samedi, Slot: 4}) {
		t.Fatalf("expected samedi/4, got %v", moved.Cell())
	}
	if moved.Salle != "Lab 999" {
		t.Fatalf("expected room Lab 999, got %q", moved.Salle)
	}
	if s.Jour != Lundi {
		t.Fatalf("receiver mutated: %+v", s)
	}
}

func TestApplyPartial(t *testing.T) {
	s := Demo()[1]
	room := "Room 7"
	moved := s.Apply(Updates{Salle: &room})
	if moved.Cell() != s.Cell() {
		t.Fatalf("cell changed on room-only update")
	}
	if moved.Salle != room {
		t.Fatalf("expected %q, got %q", room, moved.Salle)
	}
	if !(Updates{}).Empty() {
		t.Fatalf("zero updates should be empty")
	}
}

func TestNewCell(t *testing.T) {
	c, err := NewCell(" Mardi ", 3)
	if err != nil {
		t.Fatalf("NewCell: %v", err)
	}
	if c.Day != Mardi || c.Slot != 3 {
		t.Fatalf("unexpected cell %+v", c)
	}
	if got := c.String(); got != "mardi, 13:30 - 16:00" {
		t.Fatalf("unexpected label %q", got)
	}
	if _, err := NewCell("dimanche", 1); err == nil {
		t.Fatalf("expected error for dimanche")
	}
	if _, err := NewCell("lundi", 5); err == nil {
		t.Fatalf("expected error for slot 5")
	}
}

func TestGridCoversEveryCell(t *testing.T) {
	cells := Grid()
	if len(cells) != 24 {
		t.Fatalf("expected 24 cells, got %d", len(cells))
	}
	if cells[0] != (Cell{Day: Lundi, Slot: 1}) || cells[23] != (Cell{Day: Samedi, Slot: 4}) {
		t.Fatalf("unexpected grid order: first=%v last=%v", cells[0], cells[23])
	}
}

func TestValidate(t *testing.T) {
	for _, s := range Demo() {
		if err := Validate(s); err != nil {
			t.Fatalf("demo session %s invalid: %v", s.ID, err)
		}
	}

	bad := Session{ID: "x", Formateur: "T", Groupe: "G", Module: "M", Jour: "dimanche", Creneau: 9}
	err := Validate(bad)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"jour", "creneau", "salle"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidateRejectsPaddedRoom(t *testing.T) {
	s := Demo()[0]
	for _, room := range []string{"Lab 202 ", " Lab 202", "\tLab 202"} {
		s.Salle = room
		err := Validate(s)
		if err == nil {
			t.Fatalf("expected %q to be rejected", room)
		}
		if !strings.Contains(err.Error(), "salle") {
			t.Fatalf("expected salle in %q", err.Error())
		}
	}
	if !ValidRoom("Lab 202") || ValidRoom("") {
		t.Fatalf("unexpected ValidRoom results")
	}
}

func TestValidateUpdates(t *testing.T) {
	if err := ValidateUpdates(MoveTo(Cell{Day: Jeudi, Slot: 2})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	blank := "  "
	if err := ValidateUpdates(Updates{Salle: &blank}); err == nil {
		t.Fatalf("expected blank room to fail")
	}
	padded := "Lab 202 "
	if err := ValidateUpdates(Updates{Salle: &padded}); err == nil {
		t.Fatalf("expected padded room to fail")
	}
	day := Day("dimanche")
	if err := ValidateUpdates(Updates{Jour: &day}); err == nil {
		t.Fatalf("expected unknown day to fail")
	}
}

func TestSessionJSONNames(t *testing.T) {
	raw := `{"id":"9","formateur":"X","groupe":"A","module":"Art","jour":"lundi","creneau":1,"salle":"101"}`
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Jour != Lundi || s.Creneau != 1 || s.Salle != "101" {
		t.Fatalf("unexpected session %+v", s)
	}
}
