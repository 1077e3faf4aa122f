// Package teaui hosts the Bubble Tea program for the harmonizer TUI.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/filter"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
	"tableflip.dev/harmonizer/pkg/tui/components/filterbar"
	"tableflip.dev/harmonizer/pkg/tui/components/grid"
	"tableflip.dev/harmonizer/pkg/tui/components/help"
	"tableflip.dev/harmonizer/pkg/tui/components/roompicker"
	"tableflip.dev/harmonizer/pkg/tui/components/toast"
	"tableflip.dev/harmonizer/pkg/tui/events"
	"tableflip.dev/harmonizer/pkg/tui/theme"
	"tableflip.dev/harmonizer/pkg/tui/ui"
	"tableflip.dev/harmonizer/pkg/tui/ui/overlay"
)

type mode int

const (
	modeNormal mode = iota
	modeGrab
	modeRoom
	modeHelp
)

// header line, toast line and two footer lines
const chromeHeight = 4

var errServiceUnavailable = errors.New("service unavailable")

// Model is the root of the TUI. It renders the grid and turns key presses
// into coordinator calls; the coordinator owns the move flow.
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc

	theme  theme.Theme
	width  int
	height int
	mode   mode

	grid    *grid.Model
	footer  *filterbar.Model
	toast   *toast.Model
	overlay ui.Overlay

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New creates a UI model backed by the Service.
func New(svc *app.Service) *Model {
	th := theme.Default()
	ctx, cancel := context.WithCancel(context.Background())
	m := &Model{
		svc:    svc,
		ctx:    ctx,
		cancel: cancel,
		theme:  th,
		grid:   grid.New(th),
		footer: filterbar.New(th.Footer),
		toast:  toast.New(th.Toast),
	}
	m.syncGrid()
	return m
}

// Run launches the Bubble Tea program.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init starts the schedule, notification and persistence listeners.
func (m *Model) Init() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	return tea.Batch(
		events.WaitSchedule(m.svc.Schedule.Events()),
		events.WaitNotification(m.svc.Moves.Notifications()),
		startWatchCmd(m.ctx, m.svc),
	)
}

// Update routes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.applySizes()
	case events.ScheduleMsg:
		m.syncGrid()
		cmds = append(cmds, events.WaitSchedule(m.svc.Schedule.Events()))
	case events.NotificationMsg:
		cmds = append(cmds, m.toast.Show(msg.Notification))
		cmds = append(cmds, events.WaitNotification(m.svc.Moves.Notifications()))
	case toast.ExpireMsg:
		m.toast.Update(msg)
	case events.MoveResultMsg:
		m.handleMoveResult(msg, &cmds)
	case events.ReloadedMsg:
		if msg.Err != nil {
			m.setStatus("ERR: reload " + msg.Err.Error())
		} else {
			m.setStatus("Reloaded")
		}
		m.syncGrid()
	case events.WatchStartedMsg:
		if msg.Err != nil {
			if !store.IsWatchUnsupported(msg.Err) {
				m.setStatus("ERR: watch " + msg.Err.Error())
			}
			break
		}
		m.stopWatch()
		m.watchCh = msg.Ch
		m.watchCancel = msg.Cancel
		cmds = append(cmds, events.WaitWatch(m.watchCh))
	case events.WatchMsg:
		m.logf("watch %s %s", msg.Event.Type, msg.Event.ID)
		cmds = append(cmds, m.reloadCmd(), events.WaitWatch(m.watchCh))
	case events.WatchStoppedMsg:
		m.stopWatch()
	case roompicker.ConfirmMsg:
		cmds = append(cmds, m.confirmCmd(msg.Room))
	case roompicker.CancelMsg:
		m.cancelPending()
	case tea.KeyPressMsg:
		if cmd := m.handleKeyPress(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// View renders the composed UI.
func (m *Model) View() string {
	title := m.theme.Grid.Header.Render("harmonizer")
	count := fmt.Sprintf(" · %d sessions", m.grid.Total())
	if m.svc != nil && m.svc.Schedule.Len() != m.grid.Total() {
		count = fmt.Sprintf(" · %d of %d sessions", m.grid.Total(), m.svc.Schedule.Len())
	}
	selected := ""
	if s, ok := m.grid.Selected(); ok && m.mode == modeNormal {
		selected = "  " + m.theme.Footer.Status.Render(fmt.Sprintf("%s · %s · %s", s.Module, s.Formateur, s.Salle))
	}
	if s, ok := m.grid.Grabbed(); ok {
		selected = "  " + m.theme.Footer.Status.Render(fmt.Sprintf("carrying %s → %s", s.Module, m.grid.Cursor()))
	}

	body := strings.Join([]string{
		title + count + selected,
		m.toast.View(),
		m.grid.View(),
		m.footer.View(),
	}, "\n")

	if m.overlay == nil || m.width == 0 || m.height == 0 {
		return body
	}
	fg, _ := m.overlay.View()
	return overlay.Compose(body, m.width, m.height, fg, overlay.Placement{
		Horizontal: lipgloss.Center,
		Vertical:   lipgloss.Center,
	})
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	switch m.mode {
	case modeGrab:
		return m.handleGrabKey(msg)
	case modeRoom, modeHelp:
		return m.handleOverlayKey(msg)
	default:
		return m.handleNormalKey(msg)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return m.quit()
	case "left", "h":
		m.grid.Move(-1, 0)
	case "right", "l":
		m.grid.Move(1, 0)
	case "up", "k":
		m.grid.Move(0, -1)
	case "down", "j":
		m.grid.Move(0, 1)
	case "tab":
		m.grid.CycleCard()
	case "space", " ":
		if m.svc == nil || m.svc.Moves.State() != mv.Idle {
			return nil
		}
		if m.grid.Grab() {
			m.setMode(modeGrab)
		}
	case "f":
		m.cycleFilter(filter.Teacher)
	case "g":
		m.cycleFilter(filter.Group)
	case "r":
		m.cycleFilter(filter.Room)
	case "x":
		if m.svc != nil {
			m.svc.Filters.Reset()
			m.syncGrid()
			m.setStatus("Filters cleared")
		}
	case "R":
		m.setStatus("Reloading…")
		return m.reloadCmd()
	case "?":
		w, h := m.overlaySize()
		return m.openOverlay(help.New(w, h, m.theme.Plain), modeHelp)
	}
	return nil
}

func (m *Model) handleGrabKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		m.grid.Move(-1, 0)
	case "right", "l":
		m.grid.Move(1, 0)
	case "up", "k":
		m.grid.Move(0, -1)
	case "down", "j":
		m.grid.Move(0, 1)
	case "esc":
		m.grid.Release()
		m.setMode(modeNormal)
		return nil
	case "enter":
		return m.drop()
	default:
		return nil
	}
	m.markDropTarget()
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.overlay == nil {
		return nil
	}
	next, cmd := m.overlay.Update(msg)
	m.overlay = next
	if next == nil && m.mode == modeHelp {
		m.setMode(modeNormal)
	}
	return cmd
}

func (m *Model) markDropTarget() {
	s, ok := m.grid.Grabbed()
	if !ok || m.svc == nil {
		return
	}
	target := m.grid.Cursor()
	if target == s.Cell() {
		m.grid.SetBlocked(false)
		return
	}
	_, conflict := m.svc.Schedule.FindConflict(s, target)
	m.grid.SetBlocked(conflict)
}

// drop submits the carried card. Drops are ignored while the coordinator
// is busy with another move.
func (m *Model) drop() tea.Cmd {
	s, ok := m.grid.Grabbed()
	if !ok || m.svc == nil {
		return nil
	}
	if m.svc.Moves.State() != mv.Idle {
		m.setStatus("A move is already in progress")
		return nil
	}
	target := m.grid.Cursor()
	m.setStatus("Saving…")
	coord, ctx := m.svc.Moves, m.ctx
	return func() tea.Msg {
		outcome, err := coord.SubmitMove(ctx, s, target)
		return events.MoveResultMsg{Session: s, Target: target, Outcome: outcome, Err: err}
	}
}

func (m *Model) confirmCmd(room string) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	s, _ := m.grid.Grabbed()
	target := m.grid.Cursor()
	m.setStatus("Saving…")
	coord, ctx := m.svc.Moves, m.ctx
	return func() tea.Msg {
		outcome, err := coord.ConfirmRoom(ctx, room)
		return events.MoveResultMsg{Session: s, Target: target, Outcome: outcome, Err: err}
	}
}

func (m *Model) cancelPending() {
	if m.svc != nil {
		if _, err := m.svc.Moves.Cancel(); err != nil && !errors.Is(err, mv.ErrNoPendingMove) {
			m.setStatus("ERR: " + err.Error())
		}
	}
	m.overlay = nil
	m.grid.Release()
	m.setMode(modeNormal)
	m.setStatus("Move cancelled")
}

func (m *Model) handleMoveResult(msg events.MoveResultMsg, cmds *[]tea.Cmd) {
	m.logf("%s", msg.Describe())
	if msg.Err != nil {
		if _, pending := m.svc.Moves.Pending(); pending {
			_, _ = m.svc.Moves.Cancel()
		}
		m.overlay = nil
		m.grid.Release()
		m.setMode(modeNormal)
		m.setStatus("ERR: " + msg.Err.Error())
		return
	}

	switch msg.Outcome {
	case mv.OutcomeAwaitingRoom:
		p, ok := m.svc.Moves.Pending()
		if !ok {
			m.grid.Release()
			m.setMode(modeNormal)
			return
		}
		m.setStatus("Conflict at " + p.Target.String())
		if cmd := m.openOverlay(roompicker.New(p, m.theme.Modal), modeRoom); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return
	case mv.OutcomeMoved:
		m.overlay = nil
		m.syncGrid()
		m.grid.Settle()
		m.setStatus("")
	case mv.OutcomeNoop:
		m.grid.Release()
		m.setStatus("Already there")
	default:
		m.overlay = nil
		m.grid.Release()
		m.setStatus("")
	}
	m.setMode(modeNormal)
}

func (m *Model) cycleFilter(field filter.Field) {
	if m.svc == nil {
		return
	}
	value := m.svc.Filters.Cycle(field, m.svc.Options().For(field))
	m.syncGrid()
	if value == "" {
		m.setStatus(field.Label() + " filter off")
		return
	}
	m.setStatus(field.Label() + ": " + value)
}

func (m *Model) openOverlay(o ui.Overlay, next mode) tea.Cmd {
	m.overlay = o
	o.SetSize(m.overlaySize())
	m.setMode(next)
	return o.Init()
}

func (m *Model) overlaySize() (int, int) {
	w, h := m.width, m.height
	if w == 0 || h == 0 {
		return 60, 20
	}
	return max(w*2/3, 32), max(h*2/3, 8)
}

func (m *Model) syncGrid() {
	if m.svc == nil {
		return
	}
	m.grid.SetSessions(m.svc.Visible())
	m.footer.SetFilters(m.svc.Filters.Active())
	if _, ok := m.grid.Grabbed(); !ok && m.mode == modeGrab {
		m.setMode(modeNormal)
	}
}

func (m *Model) applySizes() {
	m.grid.SetSize(m.width, max(m.height-chromeHeight, 0))
	m.footer.SetWidth(m.width)
	if m.overlay != nil {
		m.overlay.SetSize(m.overlaySize())
	}
}

func (m *Model) setMode(next mode) {
	m.mode = next
	m.footer.SetGrabbing(next == modeGrab)
}

func (m *Model) setStatus(s string) {
	m.footer.SetStatus(s)
}

func (m *Model) reloadCmd() tea.Cmd {
	if m.svc == nil {
		return func() tea.Msg { return events.ReloadedMsg{Err: errServiceUnavailable} }
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return events.ReloadedMsg{Err: svc.Refresh(ctx)}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return events.WatchStartedMsg{Err: err}
		}
		return events.WatchStartedMsg{Ch: ch, Cancel: cancel}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) quit() tea.Cmd {
	m.stopWatch()
	m.cancel()
	return tea.Quit
}

func (m *Model) logf(format string, args ...any) {
	if m.svc == nil {
		return
	}
	m.svc.Log.Debug().Msgf(format, args...)
}

// Cursor exposes the grid cursor.
func (m *Model) Cursor() session.Cell { return m.grid.Cursor() }
