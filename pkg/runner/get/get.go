package get

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/filter"
	"tableflip.dev/harmonizer/pkg/printers"
)

// Get prints the visible sessions as a weekly grid, a table, or raw data.
type Get struct {
	Service *app.Service
	Filters []filter.Filter
	Output  string
	List    bool
	ShowID  bool
	Out     io.Writer
}

func (g *Get) Do(ctx context.Context) error {
	if g.Service == nil {
		return errors.New("can not get, no schedule")
	}
	out := g.Out
	if out == nil {
		out = color.Output
	}

	for _, f := range g.Filters {
		g.Service.Filters.Apply(f.Field, f.Value)
	}
	visible := g.Service.Visible()

	switch g.Output {
	case printers.OutputJSON, printers.OutputYAML:
		return printers.Encode(out, g.Output, visible)
	}

	pp := printers.PrettyPrint{ShowID: g.ShowID, Out: out}
	pp.NewLine()
	title := "Week"
	for _, f := range g.Service.Filters.Active() {
		title += fmt.Sprintf(" · %s: %s", f.Field.Label(), f.Value)
	}
	pp.TitleWithCount(title, len(visible), "session")
	if g.List {
		pp.Sessions(visible)
		return nil
	}
	pp.Week(visible)
	return nil
}
