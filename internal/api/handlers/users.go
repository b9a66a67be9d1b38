package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/api/middlewares"
	"github.com/maxaizer/jobmarket/internal/domain/models"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	session := middlewares.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"user":     middlewares.CurrentIdentity(c),
		"language": session.Language(),
	})
}

// PATCH /v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var patch models.IdentityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	identity, err := middlewares.CurrentSession(c).UpdateUser(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity})
}

// PUT /v1/users/me/language
func (h *UserHandler) SetLanguage(c *gin.Context) {
	var in struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	language, err := middlewares.CurrentSession(c).SetLanguage(c.Request.Context(), in.Language)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": language})
}
