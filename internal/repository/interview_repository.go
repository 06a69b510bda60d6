package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const interviewColumns = `id, candidate_id, interviewer_id, availability_slot_id, status,
scheduled_time, previous_interview_id, meeting_link, calendar_event_id, score, total_score,
times_processed, created_at, updated_at`

// pgUniqueViolation is the Postgres error code for unique constraint hits.
const pgUniqueViolation = "23505"

// InterviewRepository manages confirmed interviews.
type InterviewRepository struct {
	db *sqlx.DB
}

// NewInterviewRepository builds repository.
func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

func (r *InterviewRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Insert stores a new interview. The UNIQUE (interviewer_id, scheduled_time)
// constraint is the last line of defense against double booking; violations
// surface as ErrAlreadyScheduled.
func (r *InterviewRepository) Insert(ctx context.Context, exec sqlx.ExtContext, interview *models.Interview) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	interview.CreatedAt = now
	interview.UpdatedAt = now

	const query = `
INSERT INTO interviews (id, candidate_id, interviewer_id, availability_slot_id, status,
scheduled_time, previous_interview_id, meeting_link, calendar_event_id, score, total_score,
times_processed, created_at, updated_at)
VALUES (:id, :candidate_id, :interviewer_id, :availability_slot_id, :status,
:scheduled_time, :previous_interview_id, :meeting_link, :calendar_event_id, :score, :total_score,
:times_processed, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, interview); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return appErrors.ErrAlreadyScheduled
		}
		return fmt.Errorf("insert interview: %w", err)
	}
	return nil
}

// GetByID returns an interview by id.
func (r *InterviewRepository) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`
	var interview models.Interview
	if err := r.db.GetContext(ctx, &interview, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return &interview, nil
}

// GetDetail returns an interview joined with participants and position.
func (r *InterviewRepository) GetDetail(ctx context.Context, id string) (*models.InterviewDetail, error) {
	const query = `
SELECT iv.id, iv.candidate_id, iv.interviewer_id, iv.availability_slot_id, iv.status,
       iv.scheduled_time, iv.previous_interview_id, iv.meeting_link, iv.calendar_event_id,
       iv.score, iv.total_score, iv.times_processed, iv.created_at, iv.updated_at,
       c.name AS candidate_name, c.email AS candidate_email,
       i.name AS interviewer_name, i.email AS interviewer_email,
       COALESCE(j.name, '') AS position_name,
       c.organization_id AS org_id
FROM interviews iv
JOIN candidates c ON c.id = iv.candidate_id
JOIN interviewers i ON i.id = iv.interviewer_id
LEFT JOIN jobs j ON j.id = c.job_id
WHERE iv.id = $1`
	var detail models.InterviewDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get interview detail: %w", err)
	}
	return &detail, nil
}

// LatestConfirmedForCandidate returns the candidate's current confirmed
// interview, or nil when none exists.
func (r *InterviewRepository) LatestConfirmedForCandidate(ctx context.Context, exec sqlx.ExtContext, candidateID string) (*models.Interview, error) {
	target := r.exec(exec)
	query := `SELECT ` + interviewColumns + ` FROM interviews
WHERE candidate_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`
	var interview models.Interview
	err := sqlx.GetContext(ctx, target, &interview, query, candidateID, models.InterviewConfirmedScheduled)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest confirmed interview: %w", err)
	}
	return &interview, nil
}

// HasConfirmedWithin reports whether the interviewer already has a confirmed
// interview scheduled inside [from, to]. Bounds are inclusive.
func (r *InterviewRepository) HasConfirmedWithin(ctx context.Context, exec sqlx.ExtContext, interviewerID string, from, to time.Time) (bool, error) {
	target := r.exec(exec)
	const query = `SELECT EXISTS (
SELECT 1 FROM interviews
WHERE interviewer_id = $1 AND status = $2 AND scheduled_time >= $3 AND scheduled_time <= $4)`
	var exists bool
	row := target.QueryRowxContext(ctx, query, interviewerID, models.InterviewConfirmedScheduled, from, to)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check interviewer buffer: %w", err)
	}
	return exists, nil
}

// SetMeeting records the conferencing link and calendar event.
func (r *InterviewRepository) SetMeeting(ctx context.Context, exec sqlx.ExtContext, id, meetingLink, eventID string) error {
	target := r.exec(exec)
	const query = `UPDATE interviews SET meeting_link = $2, calendar_event_id = $3, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, meetingLink, eventID); err != nil {
		return fmt.Errorf("set interview meeting: %w", err)
	}
	return nil
}

// SetStatus updates an interview's status.
func (r *InterviewRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, id, status string) error {
	target := r.exec(exec)
	const query = `UPDATE interviews SET status = $2, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("set interview status: %w", err)
	}
	return nil
}

// Finalize mirrors the feedback outcome onto the interview and bumps the
// processing counter.
func (r *InterviewRepository) Finalize(ctx context.Context, exec sqlx.ExtContext, id, status string, score, totalScore int) error {
	target := r.exec(exec)
	const query = `UPDATE interviews
SET status = $2, score = $3, total_score = $4, times_processed = times_processed + 1, updated_at = now()
WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, status, score, totalScore); err != nil {
		return fmt.Errorf("finalize interview: %w", err)
	}
	return nil
}
