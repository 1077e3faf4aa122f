package move

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

// countingPersistence wraps the memory backend with a call counter and an
// injectable failure.
type countingPersistence struct {
	*store.Memory
	err   error
	calls int
}

func (c *countingPersistence) Persist(ctx context.Context, id string, u session.Updates) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return c.Memory.Persist(ctx, id, u)
}

type testFixture struct {
	p     *countingPersistence
	store *schedule.Store
	coord *Coordinator
}

func newFixture(t *testing.T, sessions []session.Session, rooms ...string) *testFixture {
	t.Helper()
	p := &countingPersistence{Memory: store.NewMemory(sessions...)}
	s := schedule.New(p, schedule.WithRooms(rooms...))
	require.NoError(t, s.Load(context.Background()))
	return &testFixture{p: p, store: s, coord: New(s)}
}

func (f *testFixture) next(t *testing.T) Notification {
	t.Helper()
	select {
	case n := <-f.coord.Notifications():
		return n
	default:
		t.Fatal("expected a notification")
		return Notification{}
	}
}

var (
	lundi1 = session.Cell{Day: session.Lundi, Slot: 1}

	s1 = session.Session{ID: "S1", Formateur: "X", Groupe: "A", Module: "Maths", Jour: session.Lundi, Creneau: 1, Salle: "101"}
	s2 = session.Session{ID: "S2", Formateur: "Y", Groupe: "B", Module: "Physics", Jour: session.Mardi, Creneau: 2, Salle: "202"}
	s3 = session.Session{ID: "S3", Formateur: "Z", Groupe: "C", Module: "Chemistry", Jour: session.Mercredi, Creneau: 3, Salle: "101"}
)

func TestDirectMove(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2})

	out, err := f.coord.SubmitMove(context.Background(), s2, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeMoved, out)
	require.Equal(t, Idle, f.coord.State())

	moved, ok := f.store.Get("S2")
	require.True(t, ok)
	require.Equal(t, lundi1, moved.Cell())
	require.Equal(t, "202", moved.Salle)

	n := f.next(t)
	require.Equal(t, KindSuccess, n.Kind)
	require.Equal(t, "Session moved", n.Title)
	require.Contains(t, n.Message, "Physics")
	require.Contains(t, n.Message, "B")
	require.Contains(t, n.Message, "lundi")
}

func TestMoveToCurrentCellIsNoop(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	before := f.store.All()

	out, err := f.coord.SubmitMove(context.Background(), s1, s1.Cell())
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, out)
	require.Zero(t, f.p.calls)
	require.Equal(t, before, f.store.All())
	require.Equal(t, Idle, f.coord.State())
	require.Empty(t, f.coord.Notifications())
}

func TestNoopUsesLatestCopy(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2})
	_, err := f.coord.SubmitMove(context.Background(), s2, lundi1)
	require.NoError(t, err)

	// s2 is stale; the stored copy already sits at lundi1.
	out, err := f.coord.SubmitMove(context.Background(), s2, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, out)
	require.Equal(t, 1, f.p.calls)
}

func TestRoomSubstitutionRemovesConflict(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3}, "303")

	out, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeAwaitingRoom, out)
	require.Equal(t, AwaitingRoomChoice, f.coord.State())

	p, ok := f.coord.Pending()
	require.True(t, ok)
	require.Equal(t, "S1", p.Conflict.ID)
	require.Equal(t, []string{"202", "303"}, p.Candidates)
	require.NotContains(t, p.Candidates, p.Conflict.Salle)
	require.False(t, p.NoRoomAvailable())
	require.Zero(t, f.p.calls)

	out, err = f.coord.ConfirmRoom(context.Background(), "303")
	require.NoError(t, err)
	require.Equal(t, OutcomeMoved, out)
	require.Equal(t, Idle, f.coord.State())

	moved, _ := f.store.Get("S3")
	require.Equal(t, lundi1, moved.Cell())
	require.Equal(t, "303", moved.Salle)
	_, conflict := f.store.FindConflict(moved, lundi1)
	require.False(t, conflict)

	n := f.next(t)
	require.Equal(t, KindSuccess, n.Kind)
	require.Equal(t, "Room changed", n.Title)
	require.Contains(t, n.Message, "303")
}

func TestConfirmRechecksRoomAfterReload(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3}, "303")
	ctx := context.Background()

	_, err := f.coord.SubmitMove(ctx, s3, lundi1)
	require.NoError(t, err)
	p, _ := f.coord.Pending()
	require.Equal(t, []string{"202", "303"}, p.Candidates)

	s4 := session.Session{ID: "S4", Formateur: "W", Groupe: "D", Module: "Biology", Jour: session.Lundi, Creneau: 1, Salle: "303"}
	require.NoError(t, f.p.Store(s4))
	require.NoError(t, f.store.Reload(ctx))

	out, err := f.coord.ConfirmRoom(ctx, "303")
	require.ErrorIs(t, err, ErrRoomNotCandidate)
	require.Equal(t, OutcomeAwaitingRoom, out)
	require.Equal(t, AwaitingRoomChoice, f.coord.State())
	require.Zero(t, f.p.calls)

	p, _ = f.coord.Pending()
	require.Equal(t, []string{"202"}, p.Candidates)
	got, _ := f.store.Get("S3")
	require.Equal(t, s3, got)

	out, err = f.coord.ConfirmRoom(ctx, "202")
	require.NoError(t, err)
	require.Equal(t, OutcomeMoved, out)
	moved, _ := f.store.Get("S3")
	_, conflict := f.store.FindConflict(moved, lundi1)
	require.False(t, conflict)
}

func TestLastNotificationPerSession(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	ctx := context.Background()

	_, ok := f.coord.LastNotification("S2")
	require.False(t, ok)

	_, err := f.coord.SubmitMove(ctx, s2, session.Cell{Day: session.Samedi, Slot: 4})
	require.NoError(t, err)
	f.p.err = errors.New("disk full")
	_, err = f.coord.SubmitMove(ctx, s3, session.Cell{Day: session.Samedi, Slot: 1})
	require.NoError(t, err)

	n, ok := f.coord.LastNotification("S2")
	require.True(t, ok)
	require.Equal(t, KindSuccess, n.Kind)
	n, ok = f.coord.LastNotification("S3")
	require.True(t, ok)
	require.Equal(t, KindError, n.Kind)
}

func TestCancelLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	before := f.store.All()

	out, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeAwaitingRoom, out)

	out, err = f.coord.Cancel()
	require.NoError(t, err)
	require.Equal(t, OutcomeCancelled, out)
	require.Equal(t, Idle, f.coord.State())
	require.Equal(t, before, f.store.All())
	require.Zero(t, f.p.calls)

	_, ok := f.coord.Pending()
	require.False(t, ok)
}

func TestBusyWhileAwaitingRoom(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	_, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)

	_, err = f.coord.SubmitMove(context.Background(), s2, session.Cell{Day: session.Samedi, Slot: 4})
	require.ErrorIs(t, err, ErrBusy)

	got, _ := f.store.Get("S2")
	require.Equal(t, s2, got)
}

func TestNoRoomAvailable(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s3})

	out, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeAwaitingRoom, out)

	p, ok := f.coord.Pending()
	require.True(t, ok)
	require.True(t, p.NoRoomAvailable())

	_, err = f.coord.ConfirmRoom(context.Background(), "101")
	require.ErrorIs(t, err, ErrNoCandidateRoom)
	require.Equal(t, AwaitingRoomChoice, f.coord.State())

	_, err = f.coord.Cancel()
	require.NoError(t, err)
	require.Equal(t, Idle, f.coord.State())
}

func TestConfirmRejectsOccupiedRoom(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	_, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)

	_, err = f.coord.ConfirmRoom(context.Background(), "101")
	require.ErrorIs(t, err, ErrRoomNotCandidate)
	require.Equal(t, AwaitingRoomChoice, f.coord.State())
}

func TestProtocolErrorsWhenIdle(t *testing.T) {
	f := newFixture(t, []session.Session{s1})
	_, err := f.coord.ConfirmRoom(context.Background(), "101")
	require.ErrorIs(t, err, ErrNoPendingMove)
	_, err = f.coord.Cancel()
	require.ErrorIs(t, err, ErrNoPendingMove)

	_, err = f.coord.SubmitMove(context.Background(), s1, session.Cell{Day: "dimanche", Slot: 1})
	require.Error(t, err)
}

func TestPersistenceFailureBecomesNotification(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2})
	f.p.err = errors.New("disk full")
	before := f.store.All()

	out, err := f.coord.SubmitMove(context.Background(), s2, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out)
	require.Equal(t, Idle, f.coord.State())
	require.Equal(t, before, f.store.All())

	n := f.next(t)
	require.Equal(t, KindError, n.Kind)
	require.Equal(t, "Error moving session", n.Title)
	require.Contains(t, n.Message, "disk full")
}

func TestRoomChangeFailureBecomesNotification(t *testing.T) {
	f := newFixture(t, []session.Session{s1, s2, s3})
	_, err := f.coord.SubmitMove(context.Background(), s3, lundi1)
	require.NoError(t, err)

	f.p.err = errors.New("offline")
	out, err := f.coord.ConfirmRoom(context.Background(), "202")
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out)
	require.Equal(t, Idle, f.coord.State())

	got, _ := f.store.Get("S3")
	require.Equal(t, s3, got)

	n := f.next(t)
	require.Equal(t, KindError, n.Kind)
	require.Equal(t, "Error changing room", n.Title)
}

func TestUnknownSessionBecomesNotification(t *testing.T) {
	f := newFixture(t, []session.Session{s1})
	out, err := f.coord.SubmitMove(context.Background(), s2, lundi1)
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out)
	require.Equal(t, KindError, f.next(t).Kind)
}
