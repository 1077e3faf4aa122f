package teaui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/harmonizer/pkg/app"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
	"tableflip.dev/harmonizer/pkg/tui/events"
)

func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
			continue
		}
		if inSeq {
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newTestModel(t *testing.T) (*Model, *app.Service) {
	t.Helper()
	svc, err := app.Open(context.Background(), store.StaticConfig{Kind: store.BackendMemory}, app.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	m := New(svc)
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return m, svc
}

// run executes cmd and feeds the produced messages back into m.
func run(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		switch msg := cmd().(type) {
		case nil:
			return
		case tea.BatchMsg:
			for _, c := range msg {
				run(m, c)
			}
			return
		default:
			_, cmd = m.Update(msg)
		}
	}
}

func press(m *Model, keys ...tea.KeyPressMsg) {
	for _, k := range keys {
		_, cmd := m.Update(k)
		run(m, cmd)
	}
}

var (
	keyLeft  = tea.KeyPressMsg{Code: tea.KeyLeft}
	keyRight = tea.KeyPressMsg{Code: tea.KeyRight}
	keyUp    = tea.KeyPressMsg{Code: tea.KeyUp}
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keySpace = tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func letter(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func repeat(k tea.KeyPressMsg, n int) []tea.KeyPressMsg {
	out := make([]tea.KeyPressMsg, n)
	for i := range out {
		out[i] = k
	}
	return out
}

func TestViewRendersWeek(t *testing.T) {
	m, _ := newTestModel(t)
	view := stripANSI(m.View())
	for _, want := range []string{"harmonizer", "6 sessions", "Lundi", "Samedi", "08:30", "Mathematics", "All sessions"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view; view=%q", want, view)
		}
	}
}

func TestDropOnFreeCellMoves(t *testing.T) {
	m, svc := newTestModel(t)

	// Session 2 sits at mardi/2; carry it to lundi/2.
	press(m, keyRight, keyDown, keySpace)
	if m.mode != modeGrab {
		t.Fatalf("expected grab mode, got %v", m.mode)
	}
	press(m, keyLeft, keyEnter)

	got, _ := svc.Schedule.Get("2")
	if got.Cell() != (session.Cell{Day: session.Lundi, Slot: 2}) {
		t.Fatalf("session not moved: %+v", got)
	}
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after drop, got %v", m.mode)
	}
	if _, grabbed := m.grid.Grabbed(); grabbed {
		t.Fatalf("card still grabbed after drop")
	}
	select {
	case n := <-svc.Moves.Notifications():
		if n.Kind != mv.KindSuccess || n.Title != "Session moved" {
			t.Fatalf("unexpected notification %+v", n)
		}
	default:
		t.Fatalf("expected a notification")
	}
}

func TestDropOnSameCellIsNoop(t *testing.T) {
	m, svc := newTestModel(t)
	press(m, keySpace, keyEnter)

	got, _ := svc.Schedule.Get("1")
	if got.Cell() != (session.Cell{Day: session.Lundi, Slot: 1}) {
		t.Fatalf("session moved: %+v", got)
	}
	if m.footer.Status() != "Already there" {
		t.Fatalf("unexpected status %q", m.footer.Status())
	}
}

func carryFourToMonday(m *Model) {
	// Session 4 sits at jeudi/4 and shares Group A with session 1 at lundi/1.
	press(m, repeat(keyRight, 3)...)
	press(m, repeat(keyDown, 3)...)
	press(m, keySpace)
	press(m, repeat(keyLeft, 3)...)
	press(m, repeat(keyUp, 3)...)
}

func TestConflictOpensRoomPickerAndConfirms(t *testing.T) {
	m, svc := newTestModel(t)
	carryFourToMonday(m)
	press(m, keyEnter)

	if m.mode != modeRoom || m.overlay == nil {
		t.Fatalf("expected room picker, mode=%v", m.mode)
	}
	if svc.Moves.State() != mv.AwaitingRoomChoice {
		t.Fatalf("expected coordinator awaiting room, got %v", svc.Moves.State())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Room conflict") || !strings.Contains(view, "Mathematics") {
		t.Fatalf("expected conflict overlay naming both sessions; view=%q", view)
	}

	press(m, keyEnter)

	got, _ := svc.Schedule.Get("4")
	if got.Cell() != (session.Cell{Day: session.Lundi, Slot: 1}) || got.Salle != "Lab 202" {
		t.Fatalf("expected move into first free room, got %+v", got)
	}
	if m.mode != modeNormal || m.overlay != nil {
		t.Fatalf("expected picker closed, mode=%v", m.mode)
	}
	if svc.Moves.State() != mv.Idle {
		t.Fatalf("coordinator left in %v", svc.Moves.State())
	}
}

func TestConflictCancelLeavesSession(t *testing.T) {
	m, svc := newTestModel(t)
	carryFourToMonday(m)
	press(m, keyEnter, keyEsc)

	got, _ := svc.Schedule.Get("4")
	if got.Cell() != (session.Cell{Day: session.Jeudi, Slot: 4}) || got.Salle != "Room 404" {
		t.Fatalf("session changed after cancel: %+v", got)
	}
	if m.mode != modeNormal || svc.Moves.State() != mv.Idle {
		t.Fatalf("expected idle normal mode, mode=%v state=%v", m.mode, svc.Moves.State())
	}
	if m.grid.Cursor() != got.Cell() {
		t.Fatalf("cursor should return to the session, got %v", m.grid.Cursor())
	}
}

func TestEscapePutsCardBack(t *testing.T) {
	m, svc := newTestModel(t)
	press(m, keySpace, keyRight, keyEsc)
	if m.mode != modeNormal {
		t.Fatalf("expected normal mode, got %v", m.mode)
	}
	if m.grid.Cursor() != (session.Cell{Day: session.Lundi, Slot: 1}) {
		t.Fatalf("cursor not returned: %v", m.grid.Cursor())
	}
	got, _ := svc.Schedule.Get("1")
	if got.Jour != session.Lundi {
		t.Fatalf("session moved: %+v", got)
	}
}

func TestGrabIgnoredWhileCoordinatorBusy(t *testing.T) {
	m, svc := newTestModel(t)
	four, _ := svc.Schedule.Get("4")
	if _, err := svc.Moves.SubmitMove(context.Background(), four, session.Cell{Day: session.Lundi, Slot: 1}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	press(m, keySpace)
	if m.mode != modeNormal {
		t.Fatalf("grab accepted while coordinator busy")
	}
}

func TestFilterKeys(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, letter('g'))
	if m.grid.Total() != 2 {
		t.Fatalf("expected 2 Group A sessions, got %d", m.grid.Total())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Group: Group A") || !strings.Contains(view, "2 of 6 sessions") {
		t.Fatalf("expected active filter in view; view=%q", view)
	}

	press(m, letter('x'))
	if m.grid.Total() != 6 {
		t.Fatalf("expected all sessions after clear, got %d", m.grid.Total())
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, letter('?'))
	if m.mode != modeHelp || m.overlay == nil {
		t.Fatalf("expected help overlay, mode=%v", m.mode)
	}
	press(m, letter('?'))
	if m.mode != modeNormal || m.overlay != nil {
		t.Fatalf("expected help closed, mode=%v", m.mode)
	}
}

func TestScheduleEventRefreshesGrid(t *testing.T) {
	m, svc := newTestModel(t)
	if err := svc.Schedule.Update(context.Background(), "6", session.MoveTo(session.Cell{Day: session.Lundi, Slot: 1})); err != nil {
		t.Fatalf("update: %v", err)
	}
	ev := <-svc.Schedule.Events()
	_, _ = m.Update(events.ScheduleMsg{Event: ev})

	view := stripANSI(m.View())
	if !strings.Contains(view, "Literature") {
		t.Fatalf("expected moved session in view; view=%q", view)
	}
	m.grid.SetCursor(session.Cell{Day: session.Lundi, Slot: 1})
	m.grid.CycleCard()
	if s, _ := m.grid.Selected(); s.ID != "6" {
		t.Fatalf("expected second card in lundi/1 to be session 6, got %+v", s)
	}
}
