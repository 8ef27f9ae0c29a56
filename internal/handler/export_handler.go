package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// ExportHandler exposes export job endpoints.
type ExportHandler struct {
	exports *service.ExportJobService
}

// NewExportHandler constructs handler.
func NewExportHandler(exports *service.ExportJobService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

type createExportRequest struct {
	SessionID string            `json:"session_id" binding:"required"`
	Kind      models.ExportKind `json:"kind" binding:"required"`
}

// Create godoc
// @Summary Queue an export job
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body createExportRequest true "Export request"
// @Success 202 {object} response.Envelope
// @Router /exports [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req createExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	job, err := h.exports.CreateJob(c.Request.Context(), req.SessionID, req.Kind, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	job, err := h.exports.GetStatus(c.Request.Context(), c.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export via signed token
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200
// @Router /downloads/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.exports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	contentType := "application/pdf"
	if download.Kind == models.ExportAssessmentCSV {
		contentType = "text/csv"
	}
	c.Header("Content-Disposition", "attachment; filename="+download.Filename)
	c.Header("Content-Type", contentType)
	c.File(download.File.Name())
}
