// internal/handlers/notifications.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// GET /v1/citizen/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	status := models.NotificationStatus(c.Query("status"))

	notifications, total, err := h.notificationService.List(c.Request.Context(), citizen.UserID, status, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(notifications, total, params))
}

// PUT /v1/citizen/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), citizen.UserID, id); err != nil {
		respondError(c, err, "notification")
		return
	}

	utils.SuccessResponse(c, gin.H{"id": id, "status": models.NotificationStatusRead})
}
