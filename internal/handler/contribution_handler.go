package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// ContributionHandler exposes the submission and moderation endpoints.
type ContributionHandler struct {
	contributions *service.ContributionService
}

// NewContributionHandler constructs handler.
func NewContributionHandler(contributions *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributions: contributions}
}

// Submit godoc
// @Summary Submit a story contribution
// @Tags Contributions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.SubmitContributionRequest true "Contribution"
// @Success 201 {object} response.Envelope
// @Router /sessions/{id}/contributions [post]
func (h *ContributionHandler) Submit(c *gin.Context) {
	var req service.SubmitContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contribution payload"))
		return
	}
	result, err := h.contributions.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Revise godoc
// @Summary Resubmit text for a pending segment
// @Tags Contributions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param segmentId path string true "Segment ID"
// @Param payload body service.ReviseSegmentRequest true "Revised text"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/segments/{segmentId} [patch]
func (h *ContributionHandler) Revise(c *gin.Context) {
	var req service.ReviseSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid revision payload"))
		return
	}
	segment, err := h.contributions.Revise(c.Request.Context(), c.Param("id"), c.Param("segmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, segment, nil)
}

// Review godoc
// @Summary Review a pending segment
// @Tags Contributions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param segmentId path string true "Segment ID"
// @Param payload body service.ReviewSegmentRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/segments/{segmentId}/review [patch]
func (h *ContributionHandler) Review(c *gin.Context) {
	var req service.ReviewSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload"))
		return
	}
	segment, err := h.contributions.Review(c.Request.Context(), c.Param("id"), c.Param("segmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, segment, nil)
}
