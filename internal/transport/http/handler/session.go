package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"practicelog/internal/app"
	"practicelog/internal/repository"
	"practicelog/internal/transport/http/response"
)

type SessionHandler struct {
	sessionService *app.SessionService
}

type CreateSessionRequest struct {
	Date         string   `json:"date" form:"date"`
	Topic        string   `json:"topic" form:"topic"`
	DurationMin  int      `json:"duration_min" form:"duration_min"`
	Notes        string   `json:"notes" form:"notes"`
	Tags         []string `json:"tags" form:"tags"`
	InstrumentID uint     `json:"instrument_id" form:"instrument_id"`
	Instrument   string   `json:"instrument" form:"instrument"`
}

type AppendNoteRequest struct {
	Topic string `json:"topic" form:"topic"`
	Text  string `json:"text" form:"text" binding:"required"`
}

func NewSessionHandler(sessionService *app.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	session, err := h.sessionService.Create(app.SessionForm{
		Date:         req.Date,
		Topic:        req.Topic,
		DurationMin:  req.DurationMin,
		Notes:        req.Notes,
		Tags:         expandTags(req.Tags),
		InstrumentID: req.InstrumentID,
		Instrument:   req.Instrument,
	})
	if err != nil {
		var fields app.FieldErrors
		switch {
		case errors.As(err, &fields):
			response.ValidationFailed(c, fields)
		case errors.Is(err, app.ErrInstrumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeInstrumentNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create session failed")
		}
		return
	}

	response.OK(c, session)
}

func (h *SessionHandler) List(c *gin.Context) {
	filter := repository.SessionFilter{
		Search:   c.Query("q"),
		Topic:    c.Query("topic"),
		Tag:      c.Query("tag"),
		DateFrom: c.Query("from"),
		DateTo:   c.Query("to"),
	}
	if raw := c.Query("instrument_id"); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			filter.InstrumentID = uint(parsed)
		}
	}

	sessions, err := h.sessionService.List(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}
	response.OK(c, sessions)
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessionService.Get(id)
	if err != nil {
		h.writeSessionError(c, err, "get session failed")
		return
	}
	response.OK(c, session)
}

func (h *SessionHandler) AppendNote(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req AppendNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	session, err := h.sessionService.AppendNote(id, req.Topic, req.Text)
	if err != nil {
		if errors.Is(err, app.ErrNoteEmpty) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		h.writeSessionError(c, err, "append note failed")
		return
	}
	response.OK(c, session)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(id); err != nil {
		h.writeSessionError(c, err, "delete session failed")
		return
	}
	response.OK(c, gin.H{"deleted_session_id": id})
}

func (h *SessionHandler) ListTags(c *gin.Context) {
	tags, err := h.sessionService.ListTags()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list tags failed")
		return
	}
	response.OK(c, tags)
}

func (h *SessionHandler) ListInstruments(c *gin.Context) {
	instruments, err := h.sessionService.ListInstruments()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list instruments failed")
		return
	}
	response.OK(c, instruments)
}

func (h *SessionHandler) writeSessionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id64 == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id")
		return 0, false
	}
	return uint(id64), true
}

// expandTags tolerates the form widget posting a single comma-delimited
// value instead of repeated fields.
func expandTags(tags []string) []string {
	if len(tags) == 1 && strings.Contains(tags[0], ",") {
		return app.SplitTags(tags[0])
	}
	return tags
}
