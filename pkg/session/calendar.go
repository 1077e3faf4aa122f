package session

import (
	"fmt"
	"strings"
)

// Day is a day-of-week tag of the weekly grid.
type Day string

const (
	Lundi    Day = "lundi"
	Mardi    Day = "mardi"
	Mercredi Day = "mercredi"
	Jeudi    Day = "jeudi"
	Vendredi Day = "vendredi"
	Samedi   Day = "samedi"
)

var days = []Day{Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi}

// Days returns the grid days in display order.
func Days() []Day {
	out := make([]Day, len(days))
	copy(out, days)
	return out
}

// Valid reports whether d is one of the grid days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the column of d in the grid, or -1.
func (d Day) Index() int {
	for i, v := range days {
		if v == d {
			return i
		}
	}
	return -1
}

// Title capitalises the day for headers.
func (d Day) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func (d Day) String() string {
	return string(d)
}

// ParseDay accepts a day tag case-insensitively.
func ParseDay(v string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(v)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown day %q, expected one of %s", v, joinDays())
	}
	return d, nil
}

func joinDays() string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

// Slot is a time-slot index of the weekly grid, 1-based.
type Slot int

const (
	FirstSlot Slot = 1
	LastSlot  Slot = 4
)

var slotLabels = map[Slot]string{
	1: "08:30 - 11:00",
	2: "11:00 - 13:30",
	3: "13:30 - 16:00",
	4: "16:00 - 18:30",
}

// Slots returns the grid slots in display order.
func Slots() []Slot {
	out := make([]Slot, 0, LastSlot)
	for s := FirstSlot; s <= LastSlot; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is one of the grid slots.
func (s Slot) Valid() bool {
	return s >= FirstSlot && s <= LastSlot
}

// Label is the human time range of the slot.
func (s Slot) Label() string {
	if l, ok := slotLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("slot %d", int(s))
}

// ParseSlot validates a raw slot number.
func ParseSlot(v int) (Slot, error) {
	s := Slot(v)
	if !s.Valid() {
		return 0, fmt.Errorf("unknown slot %d, expected %d..%d", v, FirstSlot, LastSlot)
	}
	return s, nil
}

// Grid returns every cell, day-major.
func Grid() []Cell {
	cells := make([]Cell, 0, len(days)*int(LastSlot))
	for _, d := range days {
		for _, s := range Slots() {
			cells = append(cells, Cell{Day: d, Slot: s})
		}
	}
	return cells
}
