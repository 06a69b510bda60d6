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

// BillingHandler exposes read access to monthly billing aggregates.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{service: svc}
}

// ListRecords godoc
// @Summary List monthly billing records
// @Tags Billing
// @Produce json
// @Param recordType query string false "client_billing or interviewer_payment"
// @Param month query string false "Billing month (YYYY-MM)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /billing/records [get]
func (h *BillingHandler) ListRecords(c *gin.Context) {
	actor := actorFromContext(c)

	var filter models.BillingRecordFilter
	filter.RecordType = c.Query("recordType")
	if raw := c.Query("month"); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be formatted as YYYY-MM"))
			return
		}
		filter.Month = &month
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	// Non-internal callers only ever see their own side of the ledger.
	switch actor.Role {
	case authz.RoleInternal:
	case authz.RoleClient:
		filter.OrganizationID = actor.OrganizationID
		filter.RecordType = models.RecordTypeClientBilling
	case authz.RoleInterviewer:
		filter.InterviewerID = actor.ID
		filter.RecordType = models.RecordTypeInterviewerPayment
	default:
		response.Error(c, appErrors.ErrForbidden)
		return
	}

	records, pagination, err := h.service.ListRecords(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}
