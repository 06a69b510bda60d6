package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/service"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/response"
)

// FeedbackHandler manages interview feedback endpoints.
type FeedbackHandler struct {
	service *service.FeedbackService
}

// NewFeedbackHandler constructs handler.
func NewFeedbackHandler(svc *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: svc}
}

// Get godoc
// @Summary Fetch the feedback form for an interview
// @Tags Feedback
// @Produce json
// @Param id path string true "Interview identifier"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /interviews/{id}/feedback [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	interviewID := c.Param("id")

	detail, err := h.service.GetInterview(c.Request.Context(), interviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := actorFromContext(c)
	resource := authz.Resource{Kind: authz.KindFeedback, OwnerID: detail.InterviewerID, OrganizationID: detail.OrganizationID}
	if !authz.CanView(actor, resource) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	feedback, err := h.service.GetFeedback(c.Request.Context(), interviewID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}

// Submit godoc
// @Summary Submit the interviewer evaluation for an interview
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Interview identifier"
// @Param payload body service.SubmitFeedbackRequest true "Evaluation"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /interviews/{id}/feedback [patch]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	interviewID := c.Param("id")

	var req service.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	detail, err := h.service.GetInterview(c.Request.Context(), interviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	actor := actorFromContext(c)
	if !authz.CanModify(actor, authz.Resource{Kind: authz.KindFeedback, OwnerID: detail.InterviewerID}) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	feedback, err := h.service.SubmitFeedback(c.Request.Context(), interviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback, nil)
}
