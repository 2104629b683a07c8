// internal/handlers/citizen.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

// CitizenHandler serves applicants: submission, tracking and resubmission.
type CitizenHandler struct {
	submissionService *services.SubmissionService
}

func NewCitizenHandler(submissionService *services.SubmissionService) *CitizenHandler {
	return &CitizenHandler{submissionService: submissionService}
}

// POST /v1/citizen/requests
func (h *CitizenHandler) SubmitRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var form models.SubmitRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	created, err := h.submissionService.Create(c.Request.Context(), citizen, &form)
	if err != nil {
		respondError(c, err, "request")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRequestSubmitted),
		"request": workflow.Present(lang, *created, citizen.Actor()),
	})
}

// GET /v1/citizen/requests
func (h *CitizenHandler) ListMyRequests(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	query := params.Values()
	if status := c.Query("status"); status != "" {
		query.Set("status", status)
	}

	list, err := h.submissionService.Mine(c.Request.Context(), citizen, query)
	if err != nil {
		respondError(c, err, "request")
		return
	}

	views := workflow.PresentAll(lang, list.Items, citizen.Actor())
	utils.PaginatedResponse(c, utils.CreatePaginationResult(views, list.Total, params))
}

// GET /v1/citizen/requests/:id?type=
func (h *CitizenHandler) GetMyRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	req, err := h.submissionService.Get(c.Request.Context(), citizen, c.Param("id"), models.LicenseType(c.Query("type")))
	if err != nil {
		respondError(c, err, "request")
		return
	}

	utils.SuccessResponse(c, workflow.Present(lang, *req, citizen.Actor()))
}

// PUT /v1/citizen/requests/:id/resubmit?type=
func (h *CitizenHandler) ResubmitRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var form models.SubmitRequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	updated, err := h.submissionService.Resubmit(c.Request.Context(), citizen, c.Param("id"), models.LicenseType(c.Query("type")), &form)
	if err != nil {
		respondError(c, err, "request")
		return
	}

	data := gin.H{"message": i18n.T(lang, i18n.KeyRequestResubmitted)}
	if updated != nil {
		data["request"] = workflow.Present(lang, *updated, citizen.Actor())
	}
	utils.SuccessResponse(c, data)
}

func licenseTypeLabels(lang string) map[models.LicenseType]string {
	labels := make(map[models.LicenseType]string, len(models.LicenseTypes))
	for _, t := range models.LicenseTypes {
		labels[t] = workflow.LicenseTypeLabel(lang, t)
	}
	return labels
}
