package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/middleware"
	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// AssessmentHandler exposes assessment endpoints.
type AssessmentHandler struct {
	assessments *service.AssessmentService
}

// NewAssessmentHandler constructs handler.
func NewAssessmentHandler(assessments *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

// Assess godoc
// @Summary Compute session assessment
// @Tags Assessments
// @Produce json
// @Param id path string true "Session ID"
// @Param type query string false "Assessment type"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/assessment [get]
func (h *AssessmentHandler) Assess(c *gin.Context) {
	start := time.Now()
	result, cacheHit, err := h.assessments.Assess(c.Request.Context(), c.Param("id"), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, result, nil, meta)
}

// RateCollaboration godoc
// @Summary Store a collaboration rating for a participant
// @Tags Assessments
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param studentId path string true "Student ID"
// @Param payload body service.RateCollaborationRequest true "Rating"
// @Success 204
// @Router /sessions/{id}/participants/{studentId}/rating [put]
func (h *AssessmentHandler) RateCollaboration(c *gin.Context) {
	var req service.RateCollaborationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rating payload"))
		return
	}
	if err := h.assessments.RateCollaboration(c.Request.Context(), c.Param("id"), c.Param("studentId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
