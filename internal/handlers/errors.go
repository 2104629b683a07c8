// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

// respondError maps service and backend errors onto the response envelope.
// Backend messages are relayed verbatim, 404s included; NOT_FOUND is only
// for lookups the services resolved as missing.
func respondError(c *gin.Context, err error, resource string) {
	lang := utils.GetLangFromContext(c)

	if v, ok := services.AsValidationFailed(err); ok {
		utils.ValidationErrorResponse(c, v.Fields)
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
		return
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyRequestNotOwner))
		return
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", i18n.T(lang, i18n.KeyActionNotOffered, actionName(c)), nil)
		return
	case errors.Is(err, services.ErrUnknownAction):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyActionUnknown, actionName(c)), nil)
		return
	case errors.Is(err, backend.ErrMalformedResponse):
		logrus.WithError(err).Error("Malformed backend response")
		utils.MalformedResponse(c)
		return
	case errors.Is(err, backend.ErrUnavailable):
		logrus.WithError(err).Error("Backend unreachable")
		utils.ErrorResponse(c, http.StatusBadGateway, "BACKEND_UNAVAILABLE", i18n.T(lang, i18n.KeyBackendUnavailable), nil)
		return
	}

	if apiErr, ok := backend.AsAPIError(err); ok {
		utils.BackendErrorResponse(c, apiErr.StatusCode, apiErr.Message)
		return
	}

	logrus.WithError(err).Error("Unhandled error")
	utils.InternalErrorResponse(c, "")
}

func actionName(c *gin.Context) string {
	if action := c.Param("action"); action != "" {
		return action
	}
	return string(workflow.ActionEditAndResubmit)
}
