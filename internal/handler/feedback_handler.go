package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// FeedbackHandler exposes segment review endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Provide godoc
// @Summary Attach feedback to a segment
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param segmentId path string true "Segment ID"
// @Param payload body service.ProvideFeedbackRequest true "Feedback entry"
// @Success 201 {object} response.Envelope
// @Router /sessions/{id}/segments/{segmentId}/feedback [post]
func (h *FeedbackHandler) Provide(c *gin.Context) {
	var req service.ProvideFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload"))
		return
	}
	entry, err := h.feedback.Provide(c.Request.Context(), c.Param("id"), c.Param("segmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Resolve godoc
// @Summary Mark a feedback entry resolved
// @Tags Feedback
// @Produce json
// @Param id path string true "Session ID"
// @Param segmentId path string true "Segment ID"
// @Param feedbackId path string true "Feedback ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/segments/{segmentId}/feedback/{feedbackId}/resolve [patch]
func (h *FeedbackHandler) Resolve(c *gin.Context) {
	entry, err := h.feedback.ResolveFeedback(c.Request.Context(), c.Param("id"), c.Param("segmentId"), c.Param("feedbackId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}
