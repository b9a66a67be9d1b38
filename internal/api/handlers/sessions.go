package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/services"
)

// SessionHeader carries the id of a session the client already holds, so a
// login continues it instead of starting a new one.
const SessionHeader = "X-Session-ID"

// SessionHandler serves the anonymous part of a client session.
type SessionHandler struct {
	sessions *services.Sessions
}

func NewSessionHandler(sessions *services.Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	session := h.sessions.Create()
	c.JSON(http.StatusCreated, sessionView(session))
}

// GET /v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(session))
}

// PUT /v1/sessions/:id/language
func (h *SessionHandler) SetLanguage(c *gin.Context) {
	var in struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	language, err := session.SetLanguage(c.Request.Context(), in.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": language})
}

func sessionView(session *services.Session) gin.H {
	return gin.H{
		"sessionId":     session.ID(),
		"language":      session.Language(),
		"authenticated": session.Identity() != nil,
	}
}
