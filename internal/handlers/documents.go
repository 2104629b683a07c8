// internal/handlers/documents.go
package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/middleware"
	"github.com/javajoker/energy-eservice/internal/services"
	"github.com/javajoker/energy-eservice/internal/utils"
)

type DocumentHandler struct {
	storageService *services.StorageService
}

func NewDocumentHandler(storageService *services.StorageService) *DocumentHandler {
	return &DocumentHandler{storageService: storageService}
}

// POST /v1/citizen/documents
// The returned key goes into a form's attachments list.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.Upload(c.Request.Context(), citizen.UserID, file, header)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileTooLarge):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileTooLarge), nil)
		case errors.Is(err, services.ErrFileType):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
		default:
			logrus.WithError(err).Error("Document upload failed")
			utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyFileUploadSuccess),
		"document": result,
	})
}

// GET /v1/citizen/documents/url?key=
func (h *DocumentHandler) GetDocumentURL(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "key"), nil)
		return
	}

	url, err := h.storageService.DocumentURL(citizen.UserID, key, 15*time.Minute)
	if err != nil {
		if errors.Is(err, services.ErrNotOwner) {
			utils.ForbiddenResponse(c, "")
			return
		}
		logrus.WithError(err).Error("Document link failed")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"key": key, "url": url})
}

// GET /v1/citizen/documents/files/*key
// Local storage only; documents kept on S3 redirect to a presigned link.
func (h *DocumentHandler) ServeDocument(c *gin.Context) {
	citizen, ok := middleware.CitizenFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	path, err := h.storageService.LocalFile(citizen.UserID, key)
	switch {
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, "")
		return
	case errors.Is(err, services.ErrRemoteDocument):
		url, err := h.storageService.DocumentURL(citizen.UserID, key, 15*time.Minute)
		if err != nil {
			logrus.WithError(err).Error("Document link failed")
			utils.InternalErrorResponse(c, "")
			return
		}
		c.Redirect(http.StatusFound, url)
		return
	case err != nil:
		utils.InternalErrorResponse(c, "")
		return
	}

	if info, err := os.Stat(path); err != nil || info.IsDir() {
		utils.NotFoundResponse(c, "document")
		return
	}
	c.File(path)
}
