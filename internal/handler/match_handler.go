package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hiredeck/scheduling-api/internal/service"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/response"
)

// MatchHandler exposes the interviewer search endpoint.
type MatchHandler struct {
	service *service.MatchService
}

// NewMatchHandler constructs handler.
func NewMatchHandler(svc *service.MatchService) *MatchHandler {
	return &MatchHandler{service: svc}
}

// Search godoc
// @Summary Find eligible interviewer slots for a job
// @Tags Availability
// @Produce json
// @Param jobId query string true "Job identifier"
// @Param date query string true "Interview date (YYYY-MM-DD)"
// @Param time query string false "Preferred start time (HH:MM)"
// @Param specialization query string false "Override the job specialization"
// @Param minExperience query int false "Override the minimum experience in years"
// @Param excludedCompany query string false "Exclude interviewers from this company"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /availability/search [get]
func (h *MatchHandler) Search(c *gin.Context) {
	req := service.MatchRequest{
		JobID:           c.Query("jobId"),
		Specialization:  c.Query("specialization"),
		ExcludedCompany: c.Query("excludedCompany"),
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD"))
		return
	}
	req.Date = date

	if raw := c.Query("time"); raw != "" {
		clock, err := time.Parse("15:04", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "time must be formatted as HH:MM"))
			return
		}
		at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
		req.Time = &at
	}

	if raw := c.Query("minExperience"); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "minExperience must be an integer"))
			return
		}
		req.MinExperienceYears = years
	}

	slots, err := h.service.FindSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
