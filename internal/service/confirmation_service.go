package service

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/events"
	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/repository"
	"github.com/hiredeck/scheduling-api/pkg/calendar"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/notify"
	"github.com/hiredeck/scheduling-api/pkg/token"
)

type confirmationDecoder interface {
	Decode(raw string) (*token.Claims, error)
}

type confirmationCandidateRepository interface {
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Candidate, error)
	SetStatus(ctx context.Context, exec sqlx.ExtContext, id, status string) error
}

type confirmationInterviewRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, interview *models.Interview) error
	HasConfirmedWithin(ctx context.Context, exec sqlx.ExtContext, interviewerID string, from, to time.Time) (bool, error)
	SetMeeting(ctx context.Context, exec sqlx.ExtContext, id, meetingLink, eventID string) error
}

type slotClaimer interface {
	GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.AvailabilitySlot, error)
	ClaimAndSplit(ctx context.Context, exec sqlx.ExtContext, slot *models.AvailabilitySlot, bookedBy string, claimStart time.Time) error
}

// ConfirmationResult is returned to whoever clicked the confirmation link.
type ConfirmationResult struct {
	Status      string `json:"status"`
	InterviewID string `json:"interview_id,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
}

// ConfirmationService resolves accept and reject decisions carried by signed
// confirmation links.
type ConfirmationService struct {
	decoder      confirmationDecoder
	candidates   confirmationCandidateRepository
	interviews   confirmationInterviewRepository
	slots        slotClaimer
	attempts     attemptRepository
	interviewers interviewerDirectory
	jobs         jobContextRepository
	tx           repository.TxRunner
	meetings     calendar.Meetings
	notify       notifier
	recorder     *events.Recorder
	logger       *zap.Logger

	bufferGap       time.Duration
	calendarEnabled bool
	organizerEmail  string
}

// ConfirmationServiceOptions carries calendar wiring and the buffer window.
type ConfirmationServiceOptions struct {
	Meetings        calendar.Meetings
	CalendarEnabled bool
	OrganizerEmail  string
	BufferGap       time.Duration
}

// NewConfirmationService constructs the service.
func NewConfirmationService(
	decoder confirmationDecoder,
	candidates confirmationCandidateRepository,
	interviews confirmationInterviewRepository,
	slots slotClaimer,
	attempts attemptRepository,
	interviewers interviewerDirectory,
	jobs jobContextRepository,
	tx repository.TxRunner,
	notifier notifier,
	recorder *events.Recorder,
	logger *zap.Logger,
	opts ConfirmationServiceOptions,
) *ConfirmationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	gap := opts.BufferGap
	if gap <= 0 {
		gap = time.Hour
	}
	return &ConfirmationService{
		decoder:         decoder,
		candidates:      candidates,
		interviews:      interviews,
		slots:           slots,
		attempts:        attempts,
		interviewers:    interviewers,
		jobs:            jobs,
		tx:              tx,
		meetings:        opts.Meetings,
		notify:          notifier,
		recorder:        recorder,
		logger:          logger,
		bufferGap:       gap,
		calendarEnabled: opts.CalendarEnabled,
		organizerEmail:  opts.OrganizerEmail,
	}
}

// Resolve applies the decision carried by a confirmation token. Accepting
// books the interview hour, creates the meeting and confirms the candidate;
// rejecting changes nothing. The endpoint is retry-safe: a second accept for
// the same candidate resolves to AlreadyScheduledError.
func (s *ConfirmationService) Resolve(ctx context.Context, raw string) (*ConfirmationResult, error) {
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}

	if claims.Action == token.ActionReject {
		s.recorder.Record(events.InterviewRejected,
			zap.String("candidate_id", claims.CandidateID),
			zap.String("slot_id", claims.SlotID))
		return &ConfirmationResult{Status: "rejected"}, nil
	}

	var (
		interview *models.Interview
		outbox    []notify.Message
	)

	err = s.tx.RunInTx(ctx, func(ctx context.Context, exec sqlx.ExtContext) error {
		candidate, err := s.candidates.GetByIDForUpdate(ctx, exec, claims.CandidateID)
		if err != nil {
			return err
		}

		// A confirmed candidate wins over fencing: retries of the winning
		// accept and stragglers from older rounds both resolve the same way.
		if candidate.Status == models.CandidateConfirmedScheduled {
			return appErrors.Clone(appErrors.ErrAlreadyScheduled, "")
		}

		latest, err := s.attempts.LatestForCandidate(ctx, exec, candidate.ID)
		if err != nil {
			return err
		}
		if latest == nil || latest.ID != claims.AttemptID {
			return appErrors.Clone(appErrors.ErrSuperseded, "")
		}

		if candidate.Status != models.CandidateSchedulingInitiated &&
			candidate.Status != models.CandidateNotScheduled {
			return appErrors.Clone(appErrors.ErrValidation,
				"the candidate is no longer awaiting confirmation")
		}

		slot, err := s.slots.GetByIDForUpdate(ctx, exec, claims.SlotID)
		if err != nil {
			if errors.Is(err, appErrors.ErrNotFound) {
				return appErrors.Clone(appErrors.ErrSlotUnavailable, "the offered slot no longer exists")
			}
			return err
		}

		scheduledAt := claims.ScheduledAt.UTC()
		busy, err := s.interviews.HasConfirmedWithin(ctx, exec, slot.InterviewerID,
			scheduledAt.Add(-s.bufferGap), scheduledAt.Add(s.bufferGap))
		if err != nil {
			return err
		}
		if busy {
			return appErrors.Clone(appErrors.ErrBufferConflict, "")
		}

		interview = &models.Interview{
			CandidateID:         candidate.ID,
			InterviewerID:       slot.InterviewerID,
			AvailabilitySlotID:  &slot.ID,
			Status:              models.InterviewConfirmedScheduled,
			ScheduledTime:       &scheduledAt,
			PreviousInterviewID: latest.PreviousInterviewID,
		}
		if err := s.interviews.Insert(ctx, exec, interview); err != nil {
			return err
		}

		if err := s.slots.ClaimAndSplit(ctx, exec, slot, candidate.ID, scheduledAt); err != nil {
			return err
		}

		interviewer, err := s.interviewers.GetByID(ctx, slot.InterviewerID)
		if err != nil {
			return err
		}

		positionName := ""
		var job *models.JobContext
		if candidate.JobID != nil {
			job, err = s.jobs.GetContext(ctx, *candidate.JobID)
			if err != nil && !errors.Is(err, appErrors.ErrNotFound) {
				return err
			}
			if job != nil {
				positionName = job.Name
			}
		}

		if s.calendarEnabled && s.meetings != nil {
			link, eventID, err := s.meetings.CreateMeeting(ctx, s.organizerEmail, interviewer.Email,
				scheduledAt, scheduledAt.Add(interviewDuration), calendar.MeetingDetails{
					CandidateName: candidate.Name,
					PositionName:  positionName,
				})
			if err != nil {
				return err
			}
			interview.MeetingLink = link
			interview.CalendarEventID = eventID
			if err := s.interviews.SetMeeting(ctx, exec, interview.ID, link, eventID); err != nil {
				return err
			}
		}

		if err := s.candidates.SetStatus(ctx, exec, candidate.ID, models.CandidateConfirmedScheduled); err != nil {
			return err
		}

		outbox = s.confirmationNotices(candidate, interviewer, job, scheduledAt, interview.MeetingLink)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.DispatchMany(outbox)
	s.recorder.Record(events.InterviewConfirmed,
		zap.String("interview_id", interview.ID),
		zap.String("candidate_id", interview.CandidateID),
		zap.String("interviewer_id", interview.InterviewerID))
	return &ConfirmationResult{
		Status:      "confirmed",
		InterviewID: interview.ID,
		MeetingLink: interview.MeetingLink,
	}, nil
}

// confirmationNotices builds the post-commit fan-out: candidate, interviewer,
// the client recruiter and the account owner.
func (s *ConfirmationService) confirmationNotices(candidate *models.Candidate, interviewer *models.Interviewer, job *models.JobContext, at time.Time, meetingLink string) []notify.Message {
	base := map[string]string{
		"candidate_name":   candidate.Name,
		"interviewer_name": interviewer.Name,
		"scheduled_at":     at.Format(time.RFC3339),
		"meeting_link":     meetingLink,
	}
	msgs := []notify.Message{
		{To: candidate.Email, Subject: "Interview confirmed", Template: "interview_confirmed_candidate", Context: base},
		{To: interviewer.Email, Subject: "Interview confirmed", Template: "interview_confirmed_interviewer", Context: base},
	}
	if job != nil {
		if job.RecruiterEmail != "" {
			msgs = append(msgs, notify.Message{
				To: job.RecruiterEmail, Subject: "Interview confirmed",
				Template: "interview_confirmed_recruiter", Context: base,
			})
		}
		if job.AccountOwnerEmail != "" {
			msgs = append(msgs, notify.Message{
				To: job.AccountOwnerEmail, Subject: "Interview confirmed",
				Template: "interview_confirmed_account_owner", Context: base,
			})
		}
	}
	return msgs
}
