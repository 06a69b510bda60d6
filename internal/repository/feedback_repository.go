package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const feedbackColumns = `id, interview_id, skill_performance, skill_evaluation, strengths,
improvement_points, overall_remark, overall_score, is_submitted, report_path, created_at, updated_at`

// FeedbackRepository manages interview feedback forms.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository builds repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetByInterview returns the feedback for an interview.
func (r *FeedbackRepository) GetByInterview(ctx context.Context, interviewID string) (*models.InterviewFeedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM interview_feedback WHERE interview_id = $1`
	var feedback models.InterviewFeedback
	if err := r.db.GetContext(ctx, &feedback, query, interviewID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get feedback: %w", err)
	}
	return &feedback, nil
}

// Upsert stores the feedback form, one row per interview.
func (r *FeedbackRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, feedback *models.InterviewFeedback) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if feedback.ID == "" {
		feedback.ID = uuid.NewString()
		feedback.CreatedAt = now
	}
	feedback.UpdatedAt = now

	const query = `
INSERT INTO interview_feedback (id, interview_id, skill_performance, skill_evaluation, strengths,
improvement_points, overall_remark, overall_score, is_submitted, report_path, created_at, updated_at)
VALUES (:id, :interview_id, :skill_performance, :skill_evaluation, :strengths,
:improvement_points, :overall_remark, :overall_score, :is_submitted, :report_path, :created_at, :updated_at)
ON CONFLICT (interview_id) DO UPDATE
SET skill_performance = EXCLUDED.skill_performance,
    skill_evaluation = EXCLUDED.skill_evaluation,
    strengths = EXCLUDED.strengths,
    improvement_points = EXCLUDED.improvement_points,
    overall_remark = EXCLUDED.overall_remark,
    overall_score = EXCLUDED.overall_score,
    is_submitted = EXCLUDED.is_submitted,
    updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, target, query, feedback); err != nil {
		return fmt.Errorf("upsert feedback: %w", err)
	}
	return nil
}

// SetReportPath records where the rendered feedback report was stored.
func (r *FeedbackRepository) SetReportPath(ctx context.Context, interviewID, path string) error {
	const query = `UPDATE interview_feedback SET report_path = $2, updated_at = now() WHERE interview_id = $1`
	if _, err := r.db.ExecContext(ctx, query, interviewID, path); err != nil {
		return fmt.Errorf("set feedback report path: %w", err)
	}
	return nil
}
