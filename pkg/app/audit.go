package app

import (
	"sort"

	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

// Collision is a pair of sessions already sharing a cell and a room,
// teacher or group. Imports and external edits can produce these; moves
// through the coordinator cannot add a room collision.
type Collision struct {
	Cell    session.Cell      `json:"cell"`
	First   session.Session   `json:"first"`
	Second  session.Session   `json:"second"`
	Reasons []schedule.Reason `json:"reasons"`
}

// Audit lists every colliding pair in grid order. Each pair is reported once,
// first by collection order.
func (s *Service) Audit() []Collision {
	all := s.Schedule.All()
	position := make(map[string]int, len(all))
	for i, v := range all {
		position[v.ID] = i
	}

	var out []Collision
	for i, v := range all {
		for _, c := range s.Schedule.FindConflicts(v, v.Cell()) {
			if position[c.Session.ID] < i {
				continue
			}
			out = append(out, Collision{Cell: v.Cell(), First: v, Second: c.Session, Reasons: c.Reasons})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Cell, out[j].Cell
		if a.Day != b.Day {
			return a.Day.Index() < b.Day.Index()
		}
		return a.Slot < b.Slot
	})
	return out
}
