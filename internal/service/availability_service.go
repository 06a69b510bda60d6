package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/events"
	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/repository"
	"github.com/hiredeck/scheduling-api/pkg/calendar"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

// interviewDuration is the length of every scheduled interview.
const interviewDuration = time.Hour

// minLeftover is the smallest remainder worth keeping after a split.
const minLeftover = time.Hour

type availabilitySlotRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, id string) (*models.AvailabilitySlot, error)
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.AvailabilitySlot, error)
	GetManyUnbooked(ctx context.Context, ids []string) ([]models.AvailabilitySlot, error)
	HasOverlap(ctx context.Context, interviewerID string, start, end time.Time) (bool, error)
	List(ctx context.Context, filter models.SlotFilter) ([]models.AvailabilitySlot, int, error)
	MarkBooked(ctx context.Context, exec sqlx.ExtContext, id, bookedBy string, start, end time.Time) error
	Release(ctx context.Context, exec sqlx.ExtContext, id string) error
	Archive(ctx context.Context, exec sqlx.ExtContext, id string) error
	SetCalendarEvent(ctx context.Context, exec sqlx.ExtContext, id, eventID string) error
}

// AddSlotRequest is the payload for opening availability.
type AddSlotRequest struct {
	InterviewerID string               `json:"interviewer_id" validate:"required"`
	StartAt       time.Time            `json:"start_at" validate:"required"`
	EndAt         time.Time            `json:"end_at" validate:"required"`
	Notes         string               `json:"notes" validate:"omitempty,max=500"`
	Recurrence    *calendar.Recurrence `json:"recurrence,omitempty"`
	AccessToken   string               `json:"access_token,omitempty"`
	RefreshToken  string               `json:"refresh_token,omitempty"`
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AvailabilityService owns the slot lifecycle: opening, claiming, splitting
// and releasing interviewer availability.
type AvailabilityService struct {
	repo      availabilitySlotRepository
	tx        repository.TxRunner
	meetings  calendar.Meetings
	cache     cacheInvalidator
	recorder  *events.Recorder
	validator *validator.Validate
	logger    *zap.Logger

	calendarEnabled bool
	timezone        string
}

// AvailabilityServiceOptions carries optional calendar and cache wiring.
type AvailabilityServiceOptions struct {
	Meetings        calendar.Meetings
	Cache           cacheInvalidator
	CalendarEnabled bool
	Timezone        string
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(repo availabilitySlotRepository, tx repository.TxRunner, recorder *events.Recorder, validate *validator.Validate, logger *zap.Logger, opts AvailabilityServiceOptions) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{
		repo:            repo,
		tx:              tx,
		meetings:        opts.Meetings,
		cache:           opts.Cache,
		recorder:        recorder,
		validator:       validate,
		logger:          logger,
		calendarEnabled: opts.CalendarEnabled,
		timezone:        opts.Timezone,
	}
}

// AddSlot opens a new availability window. Overlapping windows for the same
// interviewer are rejected; a calendar sync failure rolls the insert back.
func (s *AvailabilityService) AddSlot(ctx context.Context, req AddSlotRequest) (*models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	now := time.Now().UTC()
	if !req.EndAt.After(req.StartAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	if req.StartAt.Before(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability cannot start in the past")
	}
	if req.EndAt.Sub(req.StartAt) < interviewDuration {
		return nil, appErrors.Clone(appErrors.ErrValidation, "availability must cover at least one hour")
	}

	overlap, err := s.repo.HasOverlap(ctx, req.InterviewerID, req.StartAt, req.EndAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot overlap")
	}
	if overlap {
		return nil, appErrors.Clone(appErrors.ErrSlotOverlap, "")
	}

	slot := &models.AvailabilitySlot{
		InterviewerID: req.InterviewerID,
		StartAt:       req.StartAt.UTC(),
		EndAt:         req.EndAt.UTC(),
		Notes:         req.Notes,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, exec sqlx.ExtContext) error {
		if err := s.repo.Insert(ctx, exec, slot); err != nil {
			return err
		}
		if !s.calendarEnabled || s.meetings == nil || req.AccessToken == "" {
			return nil
		}
		eventID, err := s.meetings.CreateEvent(ctx, req.AccessToken, req.RefreshToken, calendar.EventDetails{
			Summary:    "Interview availability",
			Start:      slot.StartAt,
			End:        slot.EndAt,
			Timezone:   s.timezone,
			Recurrence: req.Recurrence,
		})
		if err != nil {
			return err
		}
		slot.CalendarEventID = eventID
		return s.repo.SetCalendarEvent(ctx, exec, slot.ID, eventID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMatchCache(ctx)
	s.recorder.Record(events.SlotCreated,
		zap.String("slot_id", slot.ID),
		zap.String("interviewer_id", slot.InterviewerID))
	return slot, nil
}

// invalidateMatchCache drops cached matcher results after availability
// changes. Best effort; a stale entry expires with its TTL anyway.
func (s *AvailabilityService) invalidateMatchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "match:*"); err != nil {
		s.logger.Warn("failed to invalidate match cache", zap.Error(err))
	}
}

// ListSlots returns availability matching the filter.
func (s *AvailabilityService) ListSlots(ctx context.Context, filter models.SlotFilter) ([]models.AvailabilitySlot, *models.Pagination, error) {
	slots, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = 20
	}
	return slots, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetByIDForUpdate locks a slot row inside the caller's transaction.
func (s *AvailabilityService) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.AvailabilitySlot, error) {
	return s.repo.GetByIDForUpdate(ctx, exec, id)
}

// ClaimAndSplit books the interview hour out of a locked slot. The slot is
// narrowed to the claimed window; remainders on either side become fresh free
// slots when they cover at least one hour, otherwise they are dropped.
func (s *AvailabilityService) ClaimAndSplit(ctx context.Context, exec sqlx.ExtContext, slot *models.AvailabilitySlot, bookedBy string, claimStart time.Time) error {
	claimStart = claimStart.UTC()
	claimEnd := claimStart.Add(interviewDuration)

	if slot.Booked() {
		return appErrors.Clone(appErrors.ErrSlotUnavailable, "")
	}
	if !slot.Contains(claimStart, claimEnd) {
		return appErrors.Clone(appErrors.ErrValidation, "requested time is outside the availability window")
	}

	origStart, origEnd := slot.StartAt, slot.EndAt
	if err := s.repo.MarkBooked(ctx, exec, slot.ID, bookedBy, claimStart, claimEnd); err != nil {
		return err
	}
	slot.StartAt, slot.EndAt = claimStart, claimEnd
	slot.BookedBy = &bookedBy
	slot.IsScheduled = true

	if claimStart.Sub(origStart) >= minLeftover {
		leading := &models.AvailabilitySlot{
			InterviewerID: slot.InterviewerID,
			StartAt:       origStart,
			EndAt:         claimStart,
			Notes:         slot.Notes,
		}
		if err := s.repo.Insert(ctx, exec, leading); err != nil {
			return err
		}
	}
	if origEnd.Sub(claimEnd) >= minLeftover {
		trailing := &models.AvailabilitySlot{
			InterviewerID: slot.InterviewerID,
			StartAt:       claimEnd,
			EndAt:         origEnd,
			Notes:         slot.Notes,
		}
		if err := s.repo.Insert(ctx, exec, trailing); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseSlot frees a previously claimed slot so it can be booked again.
func (s *AvailabilityService) ReleaseSlot(ctx context.Context, exec sqlx.ExtContext, id string) error {
	return s.repo.Release(ctx, exec, id)
}
