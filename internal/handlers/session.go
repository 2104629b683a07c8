// internal/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/session"
	"github.com/javajoker/energy-eservice/internal/utils"
)

// SessionHandler tears sessions down. The backend owns the tokens; only
// this service's cached queries are dropped here.
type SessionHandler struct {
	manager *session.Manager
}

func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// POST /v1/portal/logout
func (h *SessionHandler) PortalLogout(c *gin.Context) {
	p, ok := middleware.PortalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	h.teardown(c, p.Session)
}

// POST /v1/citizen/logout
func (h *SessionHandler) CitizenLogout(c *gin.Context) {
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	h.teardown(c, citizen.Session)
}

func (h *SessionHandler) teardown(c *gin.Context, s *session.Session) {
	if err := h.manager.Teardown(c.Request.Context(), s); err != nil {
		logrus.WithError(err).WithField("user_id", s.UserID).Warn("Session teardown incomplete")
	}
	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthLogout),
	})
}
