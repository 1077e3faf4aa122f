// Package filter narrows the visible sessions by teacher, group or room.
package filter

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"tableflip.dev/harmonizer/pkg/session"
)

// Field is a session attribute that can be filtered on.
type Field string

const (
	Teacher Field = "formateur"
	Group   Field = "groupe"
	Room    Field = "salle"
)

// Fields returns the filterable fields in display order.
func Fields() []Field {
	return []Field{Teacher, Group, Room}
}

// Label is the header used by front ends.
func (f Field) Label() string {
	switch f {
	case Teacher:
		return "Teacher"
	case Group:
		return "Group"
	case Room:
		return "Room"
	default:
		return string(f)
	}
}

// ParseField accepts the data names and the English labels.
func ParseField(v string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "formateur", "teacher":
		return Teacher, nil
	case "groupe", "group":
		return Group, nil
	case "salle", "room":
		return Room, nil
	default:
		return "", fmt.Errorf("filter: unknown field %q", v)
	}
}

func (f Field) value(s session.Session) string {
	switch f {
	case Teacher:
		return s.Formateur
	case Group:
		return s.Groupe
	case Room:
		return s.Salle
	default:
		return ""
	}
}

// Filter is one active (field, value) pair.
type Filter struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Set holds at most one value per field. The zero value is ready to use.
type Set struct {
	mu     sync.RWMutex
	values map[Field]string
}

// New returns a Set seeded with filters; later filters for the same field
// win.
func New(filters ...Filter) *Set {
	s := &Set{}
	for _, f := range filters {
		s.Apply(f.Field, f.Value)
	}
	return s
}

// Apply sets the value for field, replacing any previous one. An empty
// value clears the field.
func (s *Set) Apply(field Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, field)
		return
	}
	if s.values == nil {
		s.values = make(map[Field]string)
	}
	s.values[field] = value
}

// Clear removes the filter for field.
func (s *Set) Clear(field Field) {
	s.Apply(field, "")
}

// Reset removes every filter.
func (s *Set) Reset() {
	s.mu.Lock()
	s.values = nil
	s.mu.Unlock()
}

// Value returns the active value for field, or "".
func (s *Set) Value(field Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[field]
}

// Active lists the filters in field order.
func (s *Set) Active() []Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Filter
	for _, f := range Fields() {
		if v, ok := s.values[f]; ok {
			out = append(out, Filter{Field: f, Value: v})
		}
	}
	return out
}

// Match reports whether sess satisfies every active filter.
func (s *Set) Match(sess session.Session) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for f, v := range s.values {
		if f.value(sess) != v {
			return false
		}
	}
	return true
}

// Filter returns the matching sessions, order preserved.
func (s *Set) Filter(sessions []session.Session) []session.Session {
	out := make([]session.Session, 0, len(sessions))
	for _, v := range sessions {
		if s.Match(v) {
			out = append(out, v)
		}
	}
	return out
}

// Cycle advances field to the next option, wrapping through "no filter".
// It returns the new value.
func (s *Set) Cycle(field Field, options []string) string {
	current := s.Value(field)
	next := ""
	if len(options) > 0 {
		i := sort.SearchStrings(options, current)
		switch {
		case current == "":
			next = options[0]
		case i < len(options) && options[i] == current && i+1 < len(options):
			next = options[i+1]
		case i < len(options) && options[i] != current:
			// The value vanished from the options; land on its neighbour.
			next = options[i]
		}
	}
	s.Apply(field, next)
	return next
}

// Options holds the sorted distinct values per field.
type Options struct {
	Teachers []string `json:"formateur"`
	Groups   []string `json:"groupe"`
	Rooms    []string `json:"salle"`
}

// For returns the options of field.
func (o Options) For(field Field) []string {
	switch field {
	case Teacher:
		return o.Teachers
	case Group:
		return o.Groups
	case Room:
		return o.Rooms
	default:
		return nil
	}
}

// OptionsOf derives the filter options from sessions.
func OptionsOf(sessions []session.Session) Options {
	return Options{
		Teachers: distinct(sessions, Teacher),
		Groups:   distinct(sessions, Group),
		Rooms:    distinct(sessions, Room),
	}
}

func distinct(sessions []session.Session, f Field) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range sessions {
		v := f.value(s)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
