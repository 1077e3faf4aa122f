// Package session defines the scheduled teaching session and the grid
// coordinates it occupies.
package session

import (
	"fmt"
)

// Session is one scheduled occurrence of a module taught to a group by a
// teacher in a room at a given cell. JSON names match the schedule export
// format.
type Session struct {
	ID        string `json:"id" validate:"required"`
	Formateur string `json:"formateur" validate:"required"`
	Groupe    string `json:"groupe" validate:"required"`
	Module    string `json:"module" validate:"required"`
	Jour      Day    `json:"jour" validate:"required,day"`
	Creneau   Slot   `json:"creneau" validate:"slot"`
	Salle     string `json:"salle" validate:"required,room"`
}

// Cell returns the grid coordinate currently occupied by the session.
func (s Session) Cell() Cell {
	return Cell{Day: s.Jour, Slot: s.Creneau}
}

// Apply returns a copy of s with the given updates applied. Identity fields
// (id, teacher, group, module) are never touched.
func (s Session) Apply(u Updates) Session {
	if u.Jour != nil {
		s.Jour = *u.Jour
	}
	if u.Creneau != nil {
		s.Creneau = *u.Creneau
	}
	if u.Salle != nil {
		s.Salle = *u.Salle
	}
	return s
}

// Location renders "day, slot label" for notifications.
func (s Session) Location() string {
	return s.Cell().String()
}

func (s Session) String() string {
	return fmt.Sprintf("%s (%s, %s) %s @ %s", s.Module, s.Groupe, s.Formateur, s.Cell(), s.Salle)
}

// Cell is a (day, slot) coordinate in the schedule grid.
type Cell struct {
	Day  Day  `json:"day"`
	Slot Slot `json:"slot"`
}

// NewCell parses raw day and slot values into a Cell.
func NewCell(day string, slot int) (Cell, error) {
	d, err := ParseDay(day)
	if err != nil {
		return Cell{}, err
	}
	s, err := ParseSlot(slot)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Day: d, Slot: s}, nil
}

// Valid reports whether both coordinates belong to the fixed grid.
func (c Cell) Valid() bool {
	return c.Day.Valid() && c.Slot.Valid()
}

func (c Cell) String() string {
	return fmt.Sprintf("%s, %s", c.Day, c.Slot.Label())
}

// Updates is a partial change to the schedule fields of a session. Nil
// fields are left as they are.
type Updates struct {
	Jour    *Day    `json:"jour,omitempty" validate:"omitempty,day"`
	Creneau *Slot   `json:"creneau,omitempty" validate:"omitempty,slot"`
	Salle   *string `json:"salle,omitempty" validate:"omitempty,room"`
}

// MoveTo builds the updates that relocate a session to cell c.
func MoveTo(c Cell) Updates {
	day, slot := c.Day, c.Slot
	return Updates{Jour: &day, Creneau: &slot}
}

// WithRoom returns a copy of u that also sets the room.
func (u Updates) WithRoom(room string) Updates {
	u.Salle = &room
	return u
}

// Empty reports whether u changes nothing.
func (u Updates) Empty() bool {
	return u.Jour == nil && u.Creneau == nil && u.Salle == nil
}
