// internal/handlers/requests.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/energy-eservice/internal/backend"
	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

// RequestHandler serves the officer back-office.
type RequestHandler struct {
	requestService *services.RequestService
	auditService   *services.AuditService
}

func NewRequestHandler(requestService *services.RequestService, auditService *services.AuditService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		auditService:   auditService,
	}
}

// GET /v1/portal/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	p, ok := middleware.PortalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	filter := backend.RequestFilter{
		LicenseType: models.LicenseType(c.Query("type")),
		Status:      c.Query("status"),
		Query:       params.Values(),
	}
	if filter.LicenseType != "" && !filter.LicenseType.IsValid() {
		utils.ValidationErrorResponse(c, []utils.ValidationError{{
			Field: "type", Tag: "license_type", Message: i18n.T(lang, i18n.KeyValidationInvalid, "type"),
		}})
		return
	}

	list, err := h.requestService.List(c.Request.Context(), p, filter)
	if err != nil {
		respondError(c, err, "request")
		return
	}

	views := workflow.PresentAll(lang, list.Items, p.Actor())
	result := utils.CreatePaginationResult(views, list.Total, params)
	utils.PaginatedResponse(c, result)
}

// GET /v1/portal/requests/:id?type=
func (h *RequestHandler) GetRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	p, ok := middleware.PortalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	req, err := h.requestService.Get(c.Request.Context(), p, c.Param("id"), models.LicenseType(c.Query("type")))
	if err != nil {
		respondError(c, err, "request")
		return
	}

	utils.SuccessResponse(c, workflow.Present(lang, *req, p.Actor()))
}

// POST /v1/portal/requests/:id/actions/:action?type=
func (h *RequestHandler) PerformAction(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	p, ok := middleware.PortalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	action, known := workflow.ParseAction(c.Param("action"))
	if !known {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyActionUnknown, c.Param("action")), nil)
		return
	}

	var input services.TransitionInput
	if err := c.ShouldBindJSON(&input); err != nil && err != io.EOF {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	result, err := h.requestService.Transition(c.Request.Context(), p, c.Param("id"), models.LicenseType(c.Query("type")), action, input)
	if err != nil {
		respondError(c, err, "request")
		return
	}

	data := gin.H{
		"message": i18n.T(lang, i18n.KeyTransitionDone, string(action)),
		"result":  result,
	}
	if result.Request != nil {
		data["request"] = workflow.Present(lang, *result.Request, p.Actor())
	}
	utils.SuccessResponse(c, data)
}

// GET /v1/portal/transitions/:id
func (h *RequestHandler) TransitionHistory(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	records, total, err := h.auditService.TransitionHistory(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(records, total, params))
}

// ListCollection serves GET /v1/portal/{licenses,inspections,audits}.
func (h *RequestHandler) ListCollection(collection backend.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PortalFromContext(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			return
		}

		params := utils.GetPaginationParams(c)
		query := params.Values()
		for _, key := range []string{"status", "requestId", "type"} {
			if value := c.Query(key); value != "" {
				query.Set(key, value)
			}
		}

		list, err := h.requestService.Collection(c.Request.Context(), p, collection, query)
		if err != nil {
			respondError(c, err, string(collection))
			return
		}

		utils.PaginatedResponse(c, utils.CreatePaginationResult(list.Items, list.Total, params))
	}
}

// CreateCollectionItem serves POST /v1/portal/{licenses,inspections,audits}.
func (h *RequestHandler) CreateCollectionItem(collection backend.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := middleware.PortalFromContext(c)
		if !ok {
			utils.UnauthorizedResponse(c, "")
			return
		}

		body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
		if err != nil {
			utils.BadRequestResponse(c, "", err.Error())
			return
		}

		item, err := h.requestService.CreateCollectionItem(c.Request.Context(), p, collection, body)
		if err != nil {
			respondError(c, err, string(collection))
			return
		}

		utils.CreatedResponse(c, item)
	}
}
