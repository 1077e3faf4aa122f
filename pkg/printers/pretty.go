package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d %s", count, noun)
	if count != 1 {
		_, _ = c.Fprint(pp.out(), "s")
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

// Week renders the day by slot grid. A cell lists every session in it.
func (pp *PrettyPrint) Week(sessions []session.Session) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	cells := make(map[session.Cell][]session.Session)
	for _, s := range sessions {
		cells[s.Cell()] = append(cells[s.Cell()], s)
	}

	tbl := uitable.New()
	tbl.Separator = " | "
	tbl.MaxColWidth = 22
	tbl.Wrap = true

	header := []interface{}{bold.Sprint("Slot")}
	for _, d := range session.Days() {
		header = append(header, bold.Sprint(d.Title()))
	}
	tbl.AddRow(header...)

	for _, slot := range session.Slots() {
		row := []interface{}{faint.Sprint(slot.Label())}
		for _, d := range session.Days() {
			row = append(row, pp.cell(cells[session.Cell{Day: d, Slot: slot}]))
		}
		tbl.AddRow(row...)
	}

	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func (pp *PrettyPrint) cell(in []session.Session) string {
	if len(in) == 0 {
		return ""
	}
	parts := make([]string, 0, len(in))
	for _, s := range in {
		label := fmt.Sprintf("%s %s @%s", s.Module, s.Groupe, s.Salle)
		if pp.ShowID {
			label = "#" + s.ID + " " + label
		}
		parts = append(parts, Color(s.Module).Sprint(label))
	}
	return strings.Join(parts, "; ")
}

// Sessions renders one row per session.
func (pp *PrettyPrint) Sessions(sessions []session.Session) {
	if len(sessions) == 0 {
		pp.none()
		return
	}
	bold := color.New(color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Day"), bold.Sprint("Slot"), bold.Sprint("Module"), bold.Sprint("Group"), bold.Sprint("Teacher"), bold.Sprint("Room"))
	for _, s := range sessions {
		tbl.AddRow(y.Sprint(s.ID), s.Jour.Title(), s.Creneau.Label(), Color(s.Module).Sprint(s.Module), s.Groupe, s.Formateur, s.Salle)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Conflicts renders an exhaustive conflict list.
func (pp *PrettyPrint) Conflicts(target session.Cell, conflicts []schedule.Conflict) {
	pp.TitleWithCount(fmt.Sprintf("Conflicts at %s", target), len(conflicts), "conflict")
	if len(conflicts) == 0 {
		pp.none()
		return
	}
	red := color.New(color.FgRed)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range conflicts {
		reasons := make([]string, len(c.Reasons))
		for i, r := range c.Reasons {
			reasons[i] = string(r)
		}
		tbl.AddRow(c.Session.ID, c.Session.Module, c.Session.Groupe, c.Session.Formateur, c.Session.Salle, red.Sprint(strings.Join(reasons, ",")))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Rooms renders a room list, marking those in use.
func (pp *PrettyPrint) Rooms(rooms []string, occupied []string) {
	if len(rooms) == 0 {
		pp.none()
		return
	}
	used := make(map[string]bool, len(occupied))
	for _, r := range occupied {
		used[r] = true
	}
	faint := color.New(color.Faint)
	green := color.New(color.FgGreen)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range rooms {
		if used[r] {
			tbl.AddRow(faint.Sprint(r), faint.Sprint("in use"))
		} else {
			tbl.AddRow(r, green.Sprint("free"))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Notification prints a move result.
func (pp *PrettyPrint) Notification(n move.Notification) {
	c := color.New(color.FgGreen, color.Bold)
	if n.Kind == move.KindError {
		c = color.New(color.FgRed, color.Bold)
	}
	_, _ = c.Fprint(pp.out(), n.Title)
	_, _ = fmt.Fprintf(pp.out(), ": %s\n", n.Message)
}
