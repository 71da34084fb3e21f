package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/FocusFish/USM/internal/core/domain"
	"github.com/FocusFish/USM/internal/usecase"
)

// SessionHandler exposes session tracking endpoints.
type SessionHandler struct {
	sessions *usecase.SessionService
}

// NewSessionHandler constructs SessionHandler.
func NewSessionHandler(sessions *usecase.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// RegisterRoutes binds session routes.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.createSession)
	r.GET("/:sessionId", h.readSession)
	r.DELETE("/:sessionId", h.deleteSession)
	r.GET("", h.readSessions)
}

// createSession registers a new tracked session.
func (h *SessionHandler) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userName is required"))
		return
	}

	id, err := h.sessions.CreateSession(c.Request.Context(), domain.UserSession{
		UserName: strings.TrimSpace(req.UserName),
		UserSite: strings.TrimSpace(req.UserSite),
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNameRequired, Status: http.StatusBadRequest, Message: "userName is required"},
		}, http.StatusInternalServerError, "failed to create session")
		return
	}

	c.JSON(http.StatusOK, CreateSessionResponse{SessionID: id})
}

// readSession returns one session by id.
func (h *SessionHandler) readSession(c *gin.Context) {
	session, err := h.sessions.ReadSession(c.Param("sessionId"))
	if err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "session not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to read session"))
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(*session))
}

// readSessions lists the sessions of a user, optionally restricted to those
// created after the startedAfter query parameter (RFC 3339).
func (h *SessionHandler) readSessions(c *gin.Context) {
	userName := strings.TrimSpace(c.Query("userName"))
	if userName == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "userName query parameter is required"))
		return
	}

	var startedAfter *time.Time
	if raw := c.Query("startedAfter"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "startedAfter must be RFC 3339"))
			return
		}
		startedAfter = &parsed
	}

	sessions := h.sessions.ReadSessions(userName, startedAfter)
	out := make([]SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionResponse(session))
	}

	c.JSON(http.StatusOK, out)
}

// deleteSession removes one session. Unknown ids still succeed.
func (h *SessionHandler) deleteSession(c *gin.Context) {
	h.sessions.DeleteSession(c.Request.Context(), c.Param("sessionId"))
	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

func toSessionResponse(session domain.UserSession) SessionResponse {
	return SessionResponse{
		SessionID:    session.UniqueID,
		UserName:     session.UserName,
		UserSite:     session.UserSite,
		CreationTime: session.CreationTime,
	}
}
