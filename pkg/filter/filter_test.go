package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tableflip.dev/harmonizer/pkg/session"
)

func TestApplyReplacesPerField(t *testing.T) {
	s := New()
	s.Apply(Group, "Group A")
	s.Apply(Group, "Group B")
	s.Apply(Room, "Lab 202")

	require.Equal(t, []Filter{{Field: Group, Value: "Group B"}, {Field: Room, Value: "Lab 202"}}, s.Active())

	got := s.Filter(session.Demo())
	require.Len(t, got, 1)
	require.Equal(t, "2", got[0].ID)

	s.Apply(Room, "")
	require.Equal(t, "", s.Value(Room))
	require.Len(t, s.Filter(session.Demo()), 2)

	s.Reset()
	require.Empty(t, s.Active())
	require.Len(t, s.Filter(session.Demo()), len(session.Demo()))
}

func TestOptionsSortedAndDistinct(t *testing.T) {
	o := OptionsOf(session.Demo())
	require.Equal(t, []string{"Group A", "Group B", "Group C", "Group D"}, o.Groups)
	require.Equal(t, []string{"Dr. Johnson", "Dr. Miller", "Mr. Brown", "Mrs. Williams", "Prof. Davis", "Prof. Smith"}, o.Teachers)
	require.Equal(t, o.Rooms, o.For(Room))
}

func TestCycleWrapsThroughAll(t *testing.T) {
	s := New()
	opts := []string{"a", "b"}
	require.Equal(t, "a", s.Cycle(Group, opts))
	require.Equal(t, "b", s.Cycle(Group, opts))
	require.Equal(t, "", s.Cycle(Group, opts))
	require.Empty(t, s.Active())

	s.Apply(Group, "ab")
	require.Equal(t, "b", s.Cycle(Group, opts))
}

func TestParseField(t *testing.T) {
	f, err := ParseField("Teacher")
	require.NoError(t, err)
	require.Equal(t, Teacher, f)
	f, err = ParseField("salle")
	require.NoError(t, err)
	require.Equal(t, Room, f)
	_, err = ParseField("module")
	require.Error(t, err)
}
