package middlewares

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/maxaizer/jobmarket/internal/auth"
	"github.com/maxaizer/jobmarket/internal/domain/models"
	"github.com/maxaizer/jobmarket/internal/services"
	log "github.com/sirupsen/logrus"
)

const (
	sessionKey  = "session"
	identityKey = "identity"
)

type tokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*services.Session, error)
}

// JWTAuth resolves the bearer token to an authenticated session. Tokens issued
// for an earlier sign-in of the session or for another identity are rejected.
func JWTAuth(tokens tokenParser, sessions sessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
			return
		}

		session, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			log.Warnf("failed to restore session %s: %v", claims.SessionID, err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}

		identity := session.Identity()
		if identity == nil || identity.ID != claims.Subject || claims.Fingerprint != session.Fingerprint() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
			return
		}

		c.Set(sessionKey, session)
		c.Set(identityKey, *identity)
		c.Next()
	}
}

func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, CurrentIdentity(c).Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": models.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

// CurrentSession is set by JWTAuth.
func CurrentSession(c *gin.Context) *services.Session {
	session, _ := c.MustGet(sessionKey).(*services.Session)
	return session
}

// CurrentIdentity is the identity the request was authenticated as.
func CurrentIdentity(c *gin.Context) models.Identity {
	identity, _ := c.Get(identityKey)
	result, _ := identity.(models.Identity)
	return result
}
