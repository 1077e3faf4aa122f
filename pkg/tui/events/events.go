// Package events holds the messages exchanged between the schedule service
// and the Bubble Tea model.
package events

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"

	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/store"
)

// ScheduleMsg relays a change of the in-memory schedule.
type ScheduleMsg struct {
	Event schedule.Event
}

// Describe renders the event for logs.
func (m ScheduleMsg) Describe() string {
	return fmt.Sprintf("schedule type:%d id:%q", m.Event.Type, m.Event.ID)
}

// NotificationMsg relays a coordinator notification.
type NotificationMsg struct {
	Notification mv.Notification
}

// MoveResultMsg reports a coordinator call that ran off the UI loop.
type MoveResultMsg struct {
	Session session.Session
	Target  session.Cell
	Outcome mv.Outcome
	Err     error
}

// Describe renders the result for logs.
func (m MoveResultMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf("move id:%q target:%q err:%v", m.Session.ID, m.Target, m.Err)
	}
	return fmt.Sprintf("move id:%q target:%q outcome:%s", m.Session.ID, m.Target, m.Outcome)
}

// ReloadedMsg reports the end of a reload from persistence.
type ReloadedMsg struct {
	Err error
}

// WatchStartedMsg carries the persistence watch channel, or why there is none.
type WatchStartedMsg struct {
	Ch     <-chan store.Event
	Cancel context.CancelFunc
	Err    error
}

// WatchMsg relays a persistence change made outside this process.
type WatchMsg struct {
	Event store.Event
}

// WatchStoppedMsg is sent when the watch channel closes.
type WatchStoppedMsg struct{}

// WaitSchedule blocks on the next schedule event.
func WaitSchedule(ch <-chan schedule.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ScheduleMsg{Event: ev}
	}
}

// WaitNotification blocks on the next coordinator notification.
func WaitNotification(ch <-chan mv.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

// WaitWatch blocks on the next persistence change.
func WaitWatch(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return WatchMsg{Event: ev}
		}
		return WatchStoppedMsg{}
	}
}
