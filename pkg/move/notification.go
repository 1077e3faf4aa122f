package move

import (
	"fmt"

	"tableflip.dev/harmonizer/pkg/session"
)

// Kind separates success toasts from error toasts.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	moveTitle       = "Session moved"
	roomTitle       = "Room changed"
	moveFailedTitle = "Error moving session"
	roomFailedTitle = "Error changing room"
)

// Notification is a user-visible result of a move.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

func succeeded(title string, s session.Session, target session.Cell) Notification {
	return Notification{
		Kind:    KindSuccess,
		Title:   title,
		Message: fmt.Sprintf("%s (%s) moved to %s in %s", s.Module, s.Groupe, target, s.Salle),
		ID:      s.ID,
	}
}

func failed(title string, s session.Session, err error) Notification {
	return Notification{
		Kind:    KindError,
		Title:   title,
		Message: fmt.Sprintf("Could not move %s (%s): %v. Please try again.", s.Module, s.Groupe, err),
		ID:      s.ID,
	}
}
