package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// ConflictHandler exposes conflict resolution endpoints.
type ConflictHandler struct {
	conflicts *service.ConflictService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(conflicts *service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflicts: conflicts}
}

// Resolve godoc
// @Summary Resolve a raised conflict
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param conflictId path string true "Conflict ID"
// @Param payload body service.ResolveConflictRequest true "Strategy and supporting material"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/conflicts/{conflictId}/resolve [post]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	var req service.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resolution payload"))
		return
	}
	record, err := h.conflicts.Resolve(c.Request.Context(), c.Param("id"), c.Param("conflictId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// ListResolutions godoc
// @Summary List a session's resolution log
// @Tags Conflicts
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/resolutions [get]
func (h *ConflictHandler) ListResolutions(c *gin.Context) {
	records, err := h.conflicts.ListResolutions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
