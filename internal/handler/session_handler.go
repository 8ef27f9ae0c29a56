package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/storyforge/collab-api/internal/models"
	"github.com/storyforge/collab-api/internal/service"
	appErrors "github.com/storyforge/collab-api/pkg/errors"
	"github.com/storyforge/collab-api/pkg/response"
)

// SessionHandler exposes session lifecycle endpoints.
type SessionHandler struct {
	sessions   *service.SessionService
	admissions *service.AdmissionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService, admissions *service.AdmissionService) *SessionHandler {
	return &SessionHandler{sessions: sessions, admissions: admissions}
}

type transitionRequest struct {
	Status models.SessionStatus `json:"status" binding:"required"`
}

// Create godoc
// @Summary Create a story session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session definition"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload"))
		return
	}
	session, err := h.sessions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Fetch one session aggregate
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// List godoc
// @Summary List session summaries
// @Tags Sessions
// @Produce json
// @Param classroomId query string false "Classroom filter"
// @Param facilitatorId query string false "Facilitator filter"
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	filter := models.SessionFilter{
		ClassroomID:   c.Query("classroomId"),
		FacilitatorID: c.Query("facilitatorId"),
		Status:        models.SessionStatus(c.Query("status")),
		Type:          models.SessionType(c.Query("type")),
		Page:          page,
		PageSize:      pageSize,
	}
	summaries, pagination, err := h.sessions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, pagination)
}

// Transition godoc
// @Summary Move a session to a new lifecycle status
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body transitionRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/status [patch]
func (h *SessionHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid transition payload"))
		return
	}
	session, err := h.sessions.Transition(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Admit godoc
// @Summary Admit students into a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.AdmitRequest true "Student ids and assignment strategy"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/participants [post]
func (h *SessionHandler) Admit(c *gin.Context) {
	var req service.AdmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission payload"))
		return
	}
	result, err := h.admissions.Admit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Deactivate godoc
// @Summary Deactivate a participant
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param studentId path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/participants/{studentId} [delete]
func (h *SessionHandler) Deactivate(c *gin.Context) {
	session, err := h.admissions.Deactivate(c.Request.Context(), c.Param("id"), c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
