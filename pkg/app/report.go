package app

import (
	"sort"

	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

// ReportSection lists the sessions of one day ordered by slot.
type ReportSection struct {
	Day      session.Day       `json:"day"`
	Sessions []session.Session `json:"sessions"`
}

// RoomUsage counts the grid cells a room is booked in.
type RoomUsage struct {
	Room string `json:"room"`
	Used int    `json:"used"`
	Free int    `json:"free"`
}

// ReportResult summarises the week.
type ReportResult struct {
	Sections   []ReportSection `json:"sections"`
	Rooms      []RoomUsage     `json:"rooms"`
	Collisions []Collision     `json:"collisions"`
	Total      int             `json:"total"`
}

// Report summarises the visible sessions per day, room usage over the whole
// schedule and any collisions already present in the data.
func (s *Service) Report() ReportResult {
	visible := s.Visible()
	byDay := make(map[session.Day][]session.Session)
	for _, v := range visible {
		byDay[v.Jour] = append(byDay[v.Jour], v)
	}

	var sections []ReportSection
	for _, d := range session.Days() {
		items := byDay[d]
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].Creneau < items[j].Creneau })
		sections = append(sections, ReportSection{Day: d, Sessions: items})
	}

	return ReportResult{
		Sections:   sections,
		Rooms:      roomUsage(s.Schedule),
		Collisions: s.Audit(),
		Total:      len(visible),
	}
}

func roomUsage(sched *schedule.Store) []RoomUsage {
	cells := make(map[string]map[session.Cell]struct{})
	for _, v := range sched.All() {
		if cells[v.Salle] == nil {
			cells[v.Salle] = make(map[session.Cell]struct{})
		}
		cells[v.Salle][v.Cell()] = struct{}{}
	}
	total := len(session.Grid())
	rooms := sched.Rooms()
	out := make([]RoomUsage, 0, len(rooms))
	for _, r := range rooms {
		used := len(cells[r])
		out = append(out, RoomUsage{Room: r, Used: used, Free: total - used})
	}
	return out
}
