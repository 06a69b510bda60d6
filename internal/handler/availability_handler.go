package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/service"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/response"
)

// AvailabilityHandler manages availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Create godoc
// @Summary Open an availability slot
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.AddSlotRequest true "Slot window"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	var req service.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	actor := actorFromContext(c)
	if !authz.CanModify(actor, authz.Resource{Kind: authz.KindAvailability, OwnerID: req.InterviewerID}) {
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	slot, err := h.service.AddSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// List godoc
// @Summary List availability slots
// @Tags Availability
// @Produce json
// @Param interviewerId query string false "Filter by interviewer"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Param unbooked query bool false "Only unbooked slots"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	var filter models.SlotFilter
	filter.InterviewerID = c.Query("interviewerId")
	if raw := c.Query("from"); raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.From = &at
		}
	}
	if raw := c.Query("to"); raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			filter.To = &at
		}
	}
	filter.OnlyUnbooked = c.Query("unbooked") == "true"
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	slots, pagination, err := h.service.ListSlots(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, pagination)
}
