package schedule

import (
	"strings"

	"tableflip.dev/harmonizer/pkg/session"
)

// Reason names the shared field that makes two sessions collide.
type Reason string

const (
	ReasonRoom    Reason = "salle"
	ReasonTeacher Reason = "formateur"
	ReasonGroup   Reason = "groupe"
)

// Conflict is one colliding session and every reason it collides.
type Conflict struct {
	Session session.Session `json:"session"`
	Reasons []Reason        `json:"reasons"`
}

// Has reports whether r is among the reasons.
func (c Conflict) Has(r Reason) bool {
	for _, v := range c.Reasons {
		if v == r {
			return true
		}
	}
	return false
}

func (c Conflict) String() string {
	parts := make([]string, len(c.Reasons))
	for i, r := range c.Reasons {
		parts[i] = string(r)
	}
	return c.Session.String() + " [" + strings.Join(parts, ", ") + "]"
}

// reasons returns why other collides with s placed at target. A nil result
// means no collision.
func reasons(s session.Session, target session.Cell, other session.Session) []Reason {
	if other.ID == s.ID || other.Jour != target.Day || other.Creneau != target.Slot {
		return nil
	}
	var out []Reason
	if other.Salle == s.Salle {
		out = append(out, ReasonRoom)
	}
	if other.Formateur == s.Formateur {
		out = append(out, ReasonTeacher)
	}
	if other.Groupe == s.Groupe {
		out = append(out, ReasonGroup)
	}
	return out
}

func collides(s session.Session, target session.Cell, other session.Session) bool {
	return other.ID != s.ID &&
		other.Jour == target.Day &&
		other.Creneau == target.Slot &&
		(other.Salle == s.Salle || other.Formateur == s.Formateur || other.Groupe == s.Groupe)
}
