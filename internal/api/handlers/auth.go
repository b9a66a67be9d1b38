package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/middlewares"
	"github.com/maxaizer/jobmarket/internal/auth"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/services"
)

type AuthHandler struct {
	sessions *services.Sessions
	tokens   *auth.TokenIssuer
}

func NewAuthHandler(sessions *services.Sessions, tokens *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens}
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), c.GetHeader(SessionHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	identity, err := session.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.forgetUnclaimed(c, session)
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, session, identity)
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in models.Registration
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), c.GetHeader(SessionHeader))
	if err != nil {
		respondError(c, err)
		return
	}

	identity, err := session.Register(c.Request.Context(), in)
	if err != nil {
		h.forgetUnclaimed(c, session)
		respondError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, session, identity)
}

// POST /v1/auth/logout
// The session stays open so the client keeps its language.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := middlewares.CurrentSession(c).Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// forgetUnclaimed drops a session created for a failed request the client
// never learned the id of.
func (h *AuthHandler) forgetUnclaimed(c *gin.Context, session *services.Session) {
	if c.GetHeader(SessionHeader) == "" {
		h.sessions.Forget(session.ID())
	}
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, session *services.Session, identity models.Identity) {
	token, err := h.tokens.Issue(session.ID(), identity.ID, string(identity.Role), session.Fingerprint())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(status, gin.H{
		"token":     token,
		"sessionId": session.ID(),
		"user":      identity,
		"language":  session.Language(),
	})
}
