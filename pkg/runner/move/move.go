package move

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"

	"tableflip.dev/harmonizer/pkg/app"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/printers"
	"tableflip.dev/harmonizer/pkg/session"
)

// ErrCancelled is returned when the room prompt is dismissed.
var ErrCancelled = errors.New("move cancelled")

// RoomPicker chooses a room for a pending move. It returns "" to cancel.
type RoomPicker func(p mv.Pending) (string, error)

// Move drives one move through the coordinator from the command line.
type Move struct {
	Service *app.Service
	ID      string
	Target  session.Cell
	// Room answers a conflict without prompting.
	Room string
	// Interactive allows prompting for a room on conflict.
	Interactive bool
	Pick        RoomPicker
	Output      string
	Out         io.Writer
}

// Result is the machine readable summary of a move.
type Result struct {
	Outcome      string           `json:"outcome"`
	Session      session.Session  `json:"session"`
	Notification *mv.Notification `json:"notification,omitempty"`
	Warnings     []string         `json:"warnings,omitempty"`
}

func (m *Move) Do(ctx context.Context) error {
	if m.Service == nil {
		return errors.New("can not move, no schedule")
	}
	out := m.Out
	if out == nil {
		out = color.Output
	}

	s, err := m.Service.Session(m.ID)
	if err != nil {
		return err
	}

	coord := m.Service.Moves
	outcome, err := coord.SubmitMove(ctx, s, m.Target)
	if err != nil {
		return err
	}

	var warnings []string
	if outcome == mv.OutcomeAwaitingRoom {
		outcome, err = m.resolve(ctx, out)
		if err != nil {
			return err
		}
	} else if m.Room != "" {
		// --room only answers a collision; a free target keeps the room.
		warnings = append(warnings, fmt.Sprintf("--room %q ignored: no collision at %s, %s keeps %s", m.Room, m.Target, s.Module, s.Salle))
	}

	res := Result{Outcome: outcome.String(), Warnings: warnings}
	res.Session, _ = m.Service.Schedule.Get(m.ID)
	if outcome == mv.OutcomeMoved || outcome == mv.OutcomeFailed {
		if n, ok := coord.LastNotification(m.ID); ok {
			res.Notification = &n
		}
	}

	if m.Output == printers.OutputJSON || m.Output == printers.OutputYAML {
		if err := printers.Encode(out, m.Output, res); err != nil {
			return err
		}
	} else {
		pp := printers.PrettyPrint{Out: out}
		for _, w := range res.Warnings {
			_, _ = fmt.Fprintln(out, color.YellowString("warning: %s", w))
		}
		switch {
		case res.Notification != nil:
			pp.Notification(*res.Notification)
		case outcome == mv.OutcomeNoop:
			_, _ = fmt.Fprintf(out, "%s is already at %s\n", s.Module, s.Location())
		}
	}

	if res.Notification != nil && res.Notification.Kind == mv.KindError {
		return errors.New(res.Notification.Message)
	}
	return nil
}

func (m *Move) resolve(ctx context.Context, out io.Writer) (mv.Outcome, error) {
	coord := m.Service.Moves
	p, _ := coord.Pending()

	_, _ = fmt.Fprintf(out, "%s (%s) collides with %s (%s, %s, %s) at %s\n",
		p.Session.Module, p.Session.Groupe,
		p.Conflict.Module, p.Conflict.Groupe, p.Conflict.Formateur, p.Conflict.Salle,
		p.Target)

	if p.NoRoomAvailable() {
		_, _ = coord.Cancel()
		return mv.OutcomeCancelled, fmt.Errorf("no room available at %s: %w", p.Target, mv.ErrNoCandidateRoom)
	}

	room := m.Room
	if room == "" {
		if !m.Interactive {
			_, _ = coord.Cancel()
			return mv.OutcomeCancelled, fmt.Errorf("a room is required, one of: %s", strings.Join(p.Candidates, ", "))
		}
		pick := m.Pick
		if pick == nil {
			pick = PromptRoom
		}
		var err error
		room, err = pick(p)
		if err != nil || room == "" {
			_, _ = coord.Cancel()
			if err == nil {
				err = ErrCancelled
			}
			return mv.OutcomeCancelled, err
		}
	}

	outcome, err := coord.ConfirmRoom(ctx, room)
	if err != nil {
		_, _ = coord.Cancel()
		return mv.OutcomeCancelled, err
	}
	return outcome, nil
}

const cancelItem = "Cancel"

// PromptRoom asks for one of the candidate rooms with a promptui selector.
func PromptRoom(p mv.Pending) (string, error) {
	items := append(append([]string(nil), p.Candidates...), cancelItem)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ . | bold }}",
		Inactive: "   {{ . }}",
		Selected: "{{ . | green }}",
	}

	searcher := func(input string, index int) bool {
		room := strings.Replace(strings.ToLower(items[index]), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(room, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     fmt.Sprintf("Room for %s at %s", p.Session.Module, p.Target),
		Items:     items,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
	}

	_, choice, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
			return "", nil
		}
		return "", err
	}
	if choice == cancelItem {
		return "", nil
	}
	return choice, nil
}
