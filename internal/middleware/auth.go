// internal/middleware/auth.go
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/utils"
)

const (
	portalSessionKey  = "portal_session"
	citizenSessionKey = "citizen_session"
	userIDKey         = "user_id"
	scopeKey          = "session_scope"
)

// PortalRequired admits officer/admin tokens only.
func PortalRequired(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		p, err := manager.InitPortal(token)
		if err != nil {
			rejectSession(c, err)
			return
		}

		c.Set(portalSessionKey, p)
		c.Set(userIDKey, p.UserID)
		c.Set(scopeKey, string(p.Scope))
		c.Next()
	}
}

// CitizenRequired admits regular user tokens only.
func CitizenRequired(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		citizen, err := manager.InitCitizen(token)
		if err != nil {
			rejectSession(c, err)
			return
		}

		c.Set(citizenSessionKey, citizen)
		c.Set(userIDKey, citizen.UserID)
		c.Set(scopeKey, string(citizen.Scope))
		c.Next()
	}
}

func PortalFromContext(c *gin.Context) (*session.Portal, bool) {
	value, exists := c.Get(portalSessionKey)
	if !exists {
		return nil, false
	}
	p, ok := value.(*session.Portal)
	return p, ok
}

func CitizenFromContext(c *gin.Context) (*session.Citizen, bool) {
	value, exists := c.Get(citizenSessionKey)
	if !exists {
		return nil, false
	}
	citizen, ok := value.(*session.Citizen)
	return citizen, ok
}

// bearerToken aborts the request when no "Bearer <token>" header is present.
func bearerToken(c *gin.Context) (string, bool) {
	lang := utils.GetLangFromContext(c)

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		c.Abort()
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		c.Abort()
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func rejectSession(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, session.ErrSessionScope):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthWrongScope))
	case errors.Is(err, session.ErrTokenExpired):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthTokenExpired))
	default:
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
	}
	c.Abort()
}
