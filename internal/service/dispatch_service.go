package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/events"
	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/repository"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/notify"
	"github.com/hiredeck/scheduling-api/pkg/token"
)

type dispatchCandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Candidate, error)
	MarkInitiated(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error
}

type dispatchInterviewRepository interface {
	LatestConfirmedForCandidate(ctx context.Context, exec sqlx.ExtContext, candidateID string) (*models.Interview, error)
	SetStatus(ctx context.Context, exec sqlx.ExtContext, id, status string) error
}

type attemptRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, candidateID string, previousInterviewID *string) (*models.SchedulingAttempt, error)
	LatestForCandidate(ctx context.Context, exec sqlx.ExtContext, candidateID string) (*models.SchedulingAttempt, error)
}

type interviewerDirectory interface {
	GetByID(ctx context.Context, id string) (*models.Interviewer, error)
}

type confirmationCodec interface {
	Encode(slotID, candidateID, requestedBy, attemptID string, scheduledAt time.Time, action token.Action) (string, time.Time, error)
}

type notifier interface {
	Dispatch(msg notify.Message)
	DispatchMany(msgs []notify.Message)
}

// InitiateRequest starts a scheduling round for one candidate against a set
// of candidate-facing slots.
type InitiateRequest struct {
	CandidateID string    `json:"candidate_id" validate:"required"`
	SlotIDs     []string  `json:"slot_ids" validate:"required,min=1,dive,required"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	RequestedBy string    `json:"requested_by" validate:"required"`
}

// Invitation describes one interviewer asked to take the interview.
type Invitation struct {
	SlotID        string    `json:"slot_id"`
	InterviewerID string    `json:"interviewer_id"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// InitiateResult is the outcome of a scheduling round start.
type InitiateResult struct {
	AttemptID   string       `json:"attempt_id"`
	Rescheduled bool         `json:"rescheduled"`
	Invitations []Invitation `json:"invitations"`
}

// DispatchService starts scheduling rounds: it fences them with attempts,
// mints confirmation tokens and fans invitations out to interviewers.
type DispatchService struct {
	candidates   dispatchCandidateRepository
	slots        availabilitySlotRepository
	interviews   dispatchInterviewRepository
	attempts     attemptRepository
	interviewers interviewerDirectory
	tx           repository.TxRunner
	codec        confirmationCodec
	notify       notifier
	recorder     *events.Recorder
	validator    *validator.Validate
	logger       *zap.Logger

	siteDomain         string
	reinitiateCooldown time.Duration
}

// NewDispatchService constructs the service.
func NewDispatchService(
	candidates dispatchCandidateRepository,
	slots availabilitySlotRepository,
	interviews dispatchInterviewRepository,
	attempts attemptRepository,
	interviewers interviewerDirectory,
	tx repository.TxRunner,
	codec confirmationCodec,
	notifier notifier,
	recorder *events.Recorder,
	validate *validator.Validate,
	logger *zap.Logger,
	siteDomain string,
	reinitiateCooldown time.Duration,
) *DispatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchService{
		candidates:         candidates,
		slots:              slots,
		interviews:         interviews,
		attempts:           attempts,
		interviewers:       interviewers,
		tx:                 tx,
		codec:              codec,
		notify:             notifier,
		recorder:           recorder,
		validator:          validate,
		logger:             logger,
		siteDomain:         siteDomain,
		reinitiateCooldown: reinitiateCooldown,
	}
}

// Initiate starts a new scheduling round. A prior confirmed interview is
// moved to RESCHEDULED and its slot released inside the same transaction.
// Invitation delivery is fire-and-forget; the round commits regardless.
func (s *DispatchService) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	now := time.Now().UTC()
	if !req.ScheduledAt.After(now) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interview time must be in the future")
	}

	result := &InitiateResult{}
	var invites []notify.Message
	var cancellations []notify.Message

	err := s.tx.RunInTx(ctx, func(ctx context.Context, exec sqlx.ExtContext) error {
		candidate, err := s.candidates.GetByIDForUpdate(ctx, exec, req.CandidateID)
		if err != nil {
			return err
		}
		if !candidate.CanInitiateScheduling() {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("scheduling cannot start while the candidate is %s", candidate.Status))
		}
		if s.reinitiateCooldown > 0 && candidate.LastScheduledInitiateTime != nil &&
			now.Sub(*candidate.LastScheduledInitiateTime) < s.reinitiateCooldown {
			return appErrors.Clone(appErrors.ErrValidation, "a scheduling round was started too recently")
		}

		slots, err := s.slots.GetManyUnbooked(ctx, req.SlotIDs)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load slots")
		}
		if len(slots) != len(req.SlotIDs) {
			return appErrors.Clone(appErrors.ErrSlotUnavailable, "one or more slots no longer available")
		}
		claimEnd := req.ScheduledAt.Add(interviewDuration)
		for i := range slots {
			if !slots[i].Contains(req.ScheduledAt, claimEnd) {
				return appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("slot %s does not cover the requested hour", slots[i].ID))
			}
		}

		var previousInterviewID *string
		if candidate.Status == models.CandidateConfirmedScheduled {
			msgs, priorID, err := s.rescheduleExisting(ctx, exec, candidate)
			if err != nil {
				return err
			}
			cancellations = msgs
			previousInterviewID = priorID
			result.Rescheduled = true
		}

		attempt, err := s.attempts.Create(ctx, exec, candidate.ID, previousInterviewID)
		if err != nil {
			return err
		}
		result.AttemptID = attempt.ID

		for i := range slots {
			slot := &slots[i]
			interviewer, err := s.interviewers.GetByID(ctx, slot.InterviewerID)
			if err != nil {
				return err
			}

			acceptToken, expiresAt, err := s.codec.Encode(slot.ID, candidate.ID, req.RequestedBy, attempt.ID, req.ScheduledAt, token.ActionAccept)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint confirmation token")
			}
			rejectToken, _, err := s.codec.Encode(slot.ID, candidate.ID, req.RequestedBy, attempt.ID, req.ScheduledAt, token.ActionReject)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mint confirmation token")
			}

			invites = append(invites, notify.Message{
				To:       interviewer.Email,
				Subject:  "Interview request",
				Template: "interview_request",
				Context: map[string]string{
					"interviewer_name": interviewer.Name,
					"candidate_name":   candidate.Name,
					"scheduled_at":     req.ScheduledAt.Format(time.RFC3339),
					"accept_link":      s.confirmationLink(acceptToken),
					"reject_link":      s.confirmationLink(rejectToken),
				},
			})
			result.Invitations = append(result.Invitations, Invitation{
				SlotID:        slot.ID,
				InterviewerID: slot.InterviewerID,
				ExpiresAt:     expiresAt,
			})
		}

		return s.candidates.MarkInitiated(ctx, exec, candidate.ID, now)
	})
	if err != nil {
		return nil, err
	}

	s.notify.DispatchMany(cancellations)
	s.notify.DispatchMany(invites)
	s.recorder.Record(events.RoundInitiated,
		zap.String("candidate_id", req.CandidateID),
		zap.String("attempt_id", result.AttemptID),
		zap.Int("invitations", len(result.Invitations)),
		zap.Bool("rescheduled", result.Rescheduled))
	return result, nil
}

// rescheduleExisting retires the candidate's confirmed interview and frees
// its slot. It returns the retired interview id so the new attempt, and
// eventually the replacement interview, can link back to it. Cancellation
// notices are returned for dispatch after commit.
func (s *DispatchService) rescheduleExisting(ctx context.Context, exec sqlx.ExtContext, candidate *models.Candidate) ([]notify.Message, *string, error) {
	prior, err := s.interviews.LatestConfirmedForCandidate(ctx, exec, candidate.ID)
	if err != nil {
		return nil, nil, err
	}
	if prior == nil {
		return nil, nil, nil
	}

	if err := s.interviews.SetStatus(ctx, exec, prior.ID, models.InterviewRescheduled); err != nil {
		return nil, nil, err
	}
	if prior.AvailabilitySlotID != nil {
		if err := s.slots.Release(ctx, exec, *prior.AvailabilitySlotID); err != nil {
			return nil, nil, err
		}
	}

	msgs := []notify.Message{{
		To:       candidate.Email,
		Subject:  "Interview rescheduled",
		Template: "interview_cancelled_candidate",
		Context:  map[string]string{"candidate_name": candidate.Name},
	}}
	interviewer, err := s.interviewers.GetByID(ctx, prior.InterviewerID)
	if err == nil {
		msgs = append(msgs, notify.Message{
			To:       interviewer.Email,
			Subject:  "Interview cancelled",
			Template: "interview_cancelled_interviewer",
			Context: map[string]string{
				"interviewer_name": interviewer.Name,
				"candidate_name":   candidate.Name,
			},
		})
	} else {
		s.logger.Warn("could not load interviewer for cancellation notice",
			zap.String("interview_id", prior.ID), zap.Error(err))
	}
	return msgs, &prior.ID, nil
}

// CandidateOrganization returns the organization that owns the candidate, for
// access checks before a round is started on the candidate's behalf.
func (s *DispatchService) CandidateOrganization(ctx context.Context, candidateID string) (string, error) {
	candidate, err := s.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return "", err
	}
	return candidate.OrganizationID, nil
}

func (s *DispatchService) confirmationLink(signed string) string {
	return fmt.Sprintf("%s/api/v1/scheduling/confirmations/%s", s.siteDomain, signed)
}
