package conflicts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/printers"
	"tableflip.dev/harmonizer/pkg/session"
)

// Conflicts lists every session a move would collide with. With Audit set it
// lists the collisions already present in the schedule instead.
type Conflicts struct {
	Service *app.Service
	ID      string
	Target  session.Cell
	Audit   bool
	Output  string
	Out     io.Writer
}

func (c *Conflicts) Do(ctx context.Context) error {
	if c.Service == nil {
		return errors.New("can not check conflicts, no schedule")
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}

	if c.Audit {
		return c.audit(out)
	}

	s, err := c.Service.Session(c.ID)
	if err != nil {
		return err
	}
	found := c.Service.Schedule.FindConflicts(s, c.Target)

	if c.Output == printers.OutputJSON || c.Output == printers.OutputYAML {
		return printers.Encode(out, c.Output, found)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.Conflicts(c.Target, found)
	if len(found) > 0 {
		_, _ = fmt.Fprintf(out, "Free rooms: %v\n", c.Service.Schedule.CandidateRooms(c.Target))
	}
	return nil
}

func (c *Conflicts) audit(out io.Writer) error {
	found := c.Service.Audit()
	if c.Output == printers.OutputJSON || c.Output == printers.OutputYAML {
		return printers.Encode(out, c.Output, found)
	}
	pp := printers.PrettyPrint{Out: out}
	pp.NewLine()
	pp.TitleWithCount("Collisions", len(found), "collision")
	red := color.New(color.FgRed)
	for _, col := range found {
		reasons := make([]string, len(col.Reasons))
		for i, r := range col.Reasons {
			reasons[i] = string(r)
		}
		_, _ = fmt.Fprintf(out, "%s: #%s %s and #%s %s %s\n",
			col.Cell, col.First.ID, col.First.Module, col.Second.ID, col.Second.Module, red.Sprint(reasons))
	}
	return nil
}
