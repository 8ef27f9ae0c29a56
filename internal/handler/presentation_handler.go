package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// PresentationHandler exposes presentation compilation.
type PresentationHandler struct {
	presentations *service.PresentationService
}

// NewPresentationHandler constructs handler.
func NewPresentationHandler(presentations *service.PresentationService) *PresentationHandler {
	return &PresentationHandler{presentations: presentations}
}

// Compile godoc
// @Summary Compile a completed session into a presentation package
// @Tags Presentations
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.CompilePresentationRequest true "Presentation settings"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/presentation [post]
func (h *PresentationHandler) Compile(c *gin.Context) {
	var req service.CompilePresentationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid presentation payload"))
		return
	}
	pkg, err := h.presentations.Compile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}
