package serve

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/filter"
	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/schedule"
	"tableflip.dev/harmonizer/pkg/session"
)

type handlers struct {
	svc *app.Service
}

type moveRequest struct {
	ID   string `json:"id" binding:"required"`
	Day  string `json:"day" binding:"required"`
	Slot int    `json:"slot" binding:"required"`
}

type confirmRequest struct {
	Room string `json:"room" binding:"required"`
}

type moveResponse struct {
	Outcome      string           `json:"outcome,omitempty"`
	State        string           `json:"state"`
	Session      *session.Session `json:"session,omitempty"`
	Pending      *mv.Pending      `json:"pending,omitempty"`
	Notification *mv.Notification `json:"notification,omitempty"`
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.svc.Schedule.Len()})
}

func (h *handlers) listSessions(c *gin.Context) {
	set := filter.New()
	for _, f := range filter.Fields() {
		set.Apply(f, c.Query(string(f)))
	}
	sessions := set.Filter(h.svc.Schedule.All())
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

func (h *handlers) getSession(c *gin.Context) {
	s, err := h.svc.Session(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handlers) listRooms(c *gin.Context) {
	sched := h.svc.Schedule
	day, slot := c.Query("day"), c.Query("slot")
	if day == "" && slot == "" {
		c.JSON(http.StatusOK, gin.H{"rooms": sched.Rooms()})
		return
	}
	cell, err := parseCell(day, slot)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cell":     cell,
		"rooms":    sched.Rooms(),
		"occupied": sched.OccupiedRooms(cell),
		"free":     sched.CandidateRooms(cell),
	})
}

func (h *handlers) filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Options())
}

func (h *handlers) collisions(c *gin.Context) {
	found := h.svc.Audit()
	c.JSON(http.StatusOK, gin.H{"collisions": found, "count": len(found)})
}

func (h *handlers) pendingMove(c *gin.Context) {
	c.JSON(http.StatusOK, h.response(nil, ""))
}

func (h *handlers) submitMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	s, err := h.svc.Session(req.ID)
	if err != nil {
		abort(c, err)
		return
	}
	target, err := session.NewCell(req.Day, req.Slot)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.svc.Moves.SubmitMove(c.Request.Context(), s, target)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(&outcome, req.ID))
}

func (h *handlers) confirmRoom(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	p, _ := h.svc.Moves.Pending()
	outcome, err := h.svc.Moves.ConfirmRoom(c.Request.Context(), req.Room)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(&outcome, p.Session.ID))
}

func (h *handlers) cancelMove(c *gin.Context) {
	p, _ := h.svc.Moves.Pending()
	outcome, err := h.svc.Moves.Cancel()
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h.response(&outcome, p.Session.ID))
}

// response snapshots the coordinator after a call. Only calls that
// committed or failed carry a notification, and only the one for id.
func (h *handlers) response(outcome *mv.Outcome, id string) moveResponse {
	coord := h.svc.Moves
	res := moveResponse{State: coord.State().String()}
	if outcome != nil {
		res.Outcome = outcome.String()
	}
	if p, ok := coord.Pending(); ok {
		res.Pending = &p
	}
	if id == "" {
		return res
	}
	if s, ok := h.svc.Schedule.Get(id); ok {
		res.Session = &s
	}
	if outcome != nil && producesNotification(*outcome) {
		if n, ok := coord.LastNotification(id); ok {
			res.Notification = &n
		}
	}
	return res
}

func producesNotification(o mv.Outcome) bool {
	return o == mv.OutcomeMoved || o == mv.OutcomeFailed
}

func parseCell(day, slot string) (session.Cell, error) {
	n, err := strconv.Atoi(slot)
	if err != nil {
		return session.Cell{}, errors.New("slot must be a number")
	}
	return session.NewCell(day, n)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mv.ErrBusy),
		errors.Is(err, mv.ErrNoPendingMove),
		errors.Is(err, mv.ErrNoCandidateRoom),
		errors.Is(err, mv.ErrRoomNotCandidate):
		return http.StatusConflict
	case errors.Is(err, schedule.ErrInvalidUpdate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), gin.H{"error": err.Error()})
}
