package rooms

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/printers"
	"tableflip.dev/harmonizer/pkg/session"
)

// Rooms lists known rooms. With a cell it marks or keeps only the rooms
// free there.
type Rooms struct {
	Service *app.Service
	Cell    *session.Cell
	Free    bool
	Output  string
	Out     io.Writer
}

func (r *Rooms) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("can not list rooms, no schedule")
	}
	out := r.Out
	if out == nil {
		out = color.Output
	}

	sched := r.Service.Schedule
	all := sched.Rooms()
	var occupied []string
	if r.Cell != nil {
		occupied = sched.OccupiedRooms(*r.Cell)
		if r.Free {
			all = sched.CandidateRooms(*r.Cell)
			occupied = nil
		}
	}

	if r.Output == printers.OutputJSON || r.Output == printers.OutputYAML {
		return printers.Encode(out, r.Output, all)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	title := "Rooms"
	if r.Cell != nil {
		title += " at " + r.Cell.String()
	}
	pp.TitleWithCount(title, len(all), "room")
	pp.Rooms(all, occupied)
	return nil
}
