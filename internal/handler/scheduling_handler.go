package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/service"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/response"
)

// SchedulingHandler manages scheduling rounds and confirmation links.
type SchedulingHandler struct {
	dispatch      *service.DispatchService
	confirmations *service.ConfirmationService
}

// NewSchedulingHandler constructs handler.
func NewSchedulingHandler(dispatch *service.DispatchService, confirmations *service.ConfirmationService) *SchedulingHandler {
	return &SchedulingHandler{dispatch: dispatch, confirmations: confirmations}
}

// Initiate godoc
// @Summary Start a scheduling round for a candidate
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body service.InitiateRequest true "Candidate and chosen slots"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /scheduling/requests [post]
func (h *SchedulingHandler) Initiate(c *gin.Context) {
	var req service.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	actor := actorFromContext(c)
	resource := authz.Resource{Kind: authz.KindScheduling}
	if actor.Role == authz.RoleClient {
		// The check runs against the candidate's owning organization, not
		// whatever organization the caller claims.
		org, err := h.dispatch.CandidateOrganization(c.Request.Context(), req.CandidateID)
		if err != nil {
			response.Error(c, err)
			return
		}
		resource.OrganizationID = org
	}
	if !authz.CanModify(actor, resource) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}
	if req.RequestedBy == "" {
		req.RequestedBy = actor.ID
	}

	result, err := h.dispatch.Initiate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Resolve godoc
// @Summary Resolve an accept or reject confirmation link
// @Tags Scheduling
// @Produce json
// @Param token path string true "Signed confirmation token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /scheduling/confirmations/{token} [post]
func (h *SchedulingHandler) Resolve(c *gin.Context) {
	// The token itself is the credential, no actor check here.
	result, err := h.confirmations.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
