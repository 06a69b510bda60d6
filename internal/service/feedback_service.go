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
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

type feedbackRepository interface {
	GetByInterview(ctx context.Context, interviewID string) (*models.InterviewFeedback, error)
	Upsert(ctx context.Context, exec sqlx.ExtContext, feedback *models.InterviewFeedback) error
}

type feedbackInterviewRepository interface {
	GetDetail(ctx context.Context, id string) (*models.InterviewDetail, error)
	Finalize(ctx context.Context, exec sqlx.ExtContext, id, status string, score, totalScore int) error
}

type feedbackCandidateRepository interface {
	GetByID(ctx context.Context, id string) (*models.Candidate, error)
	SyncFromInterview(ctx context.Context, exec sqlx.ExtContext, id, status string, score, totalScore int) error
}

type billingLedger interface {
	InterviewerPrice(ctx context.Context, band string) (float64, error)
	ClientRate(ctx context.Context, organizationID, band string) (float64, error)
	GetOrCreateEntry(ctx context.Context, exec sqlx.ExtContext, entry *models.BillingEntry) (*models.BillingEntry, bool, error)
	MarkEntryCalculated(ctx context.Context, exec sqlx.ExtContext, id string) error
	AddToClientRecord(ctx context.Context, exec sqlx.ExtContext, organizationID string, month time.Time, amount float64, dueDate time.Time) error
	AddToInterviewerRecord(ctx context.Context, exec sqlx.ExtContext, interviewerID string, month time.Time, amount float64, dueDate time.Time) error
}

type reportEnqueuer interface {
	Enqueue(detail *models.InterviewDetail, feedback *models.InterviewFeedback)
}

// SubmitFeedbackRequest is the interviewer's evaluation payload.
type SubmitFeedbackRequest struct {
	OverallRemark     string          `json:"overall_remark" validate:"required"`
	OverallScore      int             `json:"overall_score" validate:"gte=0,lte=100"`
	Strengths         string          `json:"strengths" validate:"omitempty,max=2000"`
	ImprovementPoints string          `json:"improvement_points" validate:"omitempty,max=2000"`
	SkillPerformance  models.ScoreMap `json:"skill_performance"`
	SkillEvaluation   models.ScoreMap `json:"skill_evaluation"`
}

// FeedbackService finalizes interview feedback and runs the billing trigger
// in the same transaction.
type FeedbackService struct {
	feedback   feedbackRepository
	interviews feedbackInterviewRepository
	candidates feedbackCandidateRepository
	billing    billingLedger
	reports    reportEnqueuer
	tx         repository.TxRunner
	recorder   *events.Recorder
	validator  *validator.Validate
	logger     *zap.Logger

	dueDateGraceDays int
	noShowMinutes    int
}

// NewFeedbackService constructs the service.
func NewFeedbackService(
	feedback feedbackRepository,
	interviews feedbackInterviewRepository,
	candidates feedbackCandidateRepository,
	billing billingLedger,
	reports reportEnqueuer,
	tx repository.TxRunner,
	recorder *events.Recorder,
	validate *validator.Validate,
	logger *zap.Logger,
	dueDateGraceDays, noShowMinutes int,
) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dueDateGraceDays <= 0 {
		dueDateGraceDays = 10
	}
	if noShowMinutes <= 0 {
		noShowMinutes = 15
	}
	return &FeedbackService{
		feedback:         feedback,
		interviews:       interviews,
		candidates:       candidates,
		billing:          billing,
		reports:          reports,
		tx:               tx,
		recorder:         recorder,
		validator:        validate,
		logger:           logger,
		dueDateGraceDays: dueDateGraceDays,
		noShowMinutes:    noShowMinutes,
	}
}

// GetInterview returns the interview with its participant context.
func (s *FeedbackService) GetInterview(ctx context.Context, interviewID string) (*models.InterviewDetail, error) {
	return s.interviews.GetDetail(ctx, interviewID)
}

// GetFeedback returns the feedback form for an interview.
func (s *FeedbackService) GetFeedback(ctx context.Context, interviewID string) (*models.InterviewFeedback, error) {
	return s.feedback.GetByInterview(ctx, interviewID)
}

// SubmitFeedback finalizes the evaluation, mirrors the outcome onto the
// interview and candidate, and posts billing exactly once per interview.
// Resubmitting updates the form but never double-bills.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, interviewID string, req SubmitFeedbackRequest) (*models.InterviewFeedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if !models.ValidRemark(req.OverallRemark) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown overall remark")
	}

	detail, err := s.interviews.GetDetail(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if detail.Status == models.InterviewRescheduled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback cannot be submitted for a rescheduled interview")
	}

	candidate, err := s.candidates.GetByID(ctx, detail.CandidateID)
	if err != nil {
		return nil, err
	}

	remark := req.OverallRemark
	feedback := &models.InterviewFeedback{
		InterviewID:       interviewID,
		SkillPerformance:  req.SkillPerformance,
		SkillEvaluation:   req.SkillEvaluation,
		Strengths:         req.Strengths,
		ImprovementPoints: req.ImprovementPoints,
		OverallRemark:     &remark,
		OverallScore:      req.OverallScore,
		IsSubmitted:       true,
	}

	billingPosted := false
	err = s.tx.RunInTx(ctx, func(ctx context.Context, exec sqlx.ExtContext) error {
		if err := s.feedback.Upsert(ctx, exec, feedback); err != nil {
			return err
		}

		totalScore := 100
		if err := s.interviews.Finalize(ctx, exec, interviewID, remark, req.OverallScore, totalScore); err != nil {
			return err
		}
		if err := s.candidates.SyncFromInterview(ctx, exec, detail.CandidateID, remark, req.OverallScore, totalScore); err != nil {
			return err
		}

		posted, err := s.postBilling(ctx, exec, detail, candidate, remark)
		if err != nil {
			return err
		}
		billingPosted = posted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recorder.Record(events.FeedbackFinalized,
		zap.String("interview_id", interviewID),
		zap.String("remark", remark),
		zap.Int("score", req.OverallScore))
	if billingPosted {
		s.recorder.Record(events.BillingPosted,
			zap.String("interview_id", interviewID),
			zap.String("organization_id", detail.OrganizationID),
			zap.String("interviewer_id", detail.InterviewerID))
	}
	if s.reports != nil {
		s.reports.Enqueue(detail, feedback)
	}
	return feedback, nil
}

// postBilling writes the ledger line for the interview and, on its first
// calculation, folds the amounts into the monthly aggregates. It reports
// whether aggregates were touched.
func (s *FeedbackService) postBilling(ctx context.Context, exec sqlx.ExtContext, detail *models.InterviewDetail, candidate *models.Candidate, remark string) (bool, error) {
	interviewerBand := models.InterviewerBandFor(candidate.ExperienceYears, candidate.ExperienceMonths)
	clientBand := models.ClientBandFor(candidate.ExperienceYears, candidate.ExperienceMonths)

	price, err := s.billing.InterviewerPrice(ctx, interviewerBand)
	if err != nil {
		return false, err
	}
	rate, err := s.billing.ClientRate(ctx, detail.OrganizationID, clientBand)
	if err != nil {
		return false, err
	}

	// A no-show bills only the first minutes of the reserved hour.
	if remark == models.RemarkNotJoined {
		price = price / 60 * float64(s.noShowMinutes)
		rate = rate / 60 * float64(s.noShowMinutes)
	}

	at := time.Now().UTC()
	if detail.ScheduledTime != nil {
		at = *detail.ScheduledTime
	}
	month := models.MonthStart(at)

	entry, _, err := s.billing.GetOrCreateEntry(ctx, exec, &models.BillingEntry{
		InterviewID:          detail.ID,
		Reason:               models.BillingReasonFeedbackSubmitted,
		OrganizationID:       detail.OrganizationID,
		InterviewerID:        detail.InterviewerID,
		AmountForClient:      rate,
		AmountForInterviewer: price,
		BillingMonth:         month,
	})
	if err != nil {
		return false, err
	}
	if entry.IsBillingCalculated {
		return false, nil
	}

	dueDate := models.DueDateFor(month, s.dueDateGraceDays)
	if err := s.billing.AddToClientRecord(ctx, exec, detail.OrganizationID, month, entry.AmountForClient, dueDate); err != nil {
		return false, err
	}
	if err := s.billing.AddToInterviewerRecord(ctx, exec, detail.InterviewerID, month, entry.AmountForInterviewer, dueDate); err != nil {
		return false, err
	}
	if err := s.billing.MarkEntryCalculated(ctx, exec, entry.ID); err != nil {
		return false, err
	}
	return true, nil
}
