package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
)

// SchedulingAttemptRepository manages fencing tokens for scheduling rounds.
type SchedulingAttemptRepository struct {
	db *sqlx.DB
}

// NewSchedulingAttemptRepository builds repository.
func NewSchedulingAttemptRepository(db *sqlx.DB) *SchedulingAttemptRepository {
	return &SchedulingAttemptRepository{db: db}
}

func (r *SchedulingAttemptRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create records a new attempt for the candidate. previousInterviewID links
// the interview retired by a reschedule, nil for a first booking.
func (r *SchedulingAttemptRepository) Create(ctx context.Context, exec sqlx.ExtContext, candidateID string, previousInterviewID *string) (*models.SchedulingAttempt, error) {
	target := r.exec(exec)
	attempt := &models.SchedulingAttempt{
		ID:                  uuid.NewString(),
		CandidateID:         candidateID,
		PreviousInterviewID: previousInterviewID,
		CreatedAt:           time.Now().UTC(),
	}
	const query = `INSERT INTO scheduling_attempts (id, candidate_id, previous_interview_id, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := target.ExecContext(ctx, query, attempt.ID, attempt.CandidateID, attempt.PreviousInterviewID, attempt.CreatedAt); err != nil {
		return nil, fmt.Errorf("create scheduling attempt: %w", err)
	}
	return attempt, nil
}

// LatestForCandidate returns the newest attempt for a candidate, or nil when
// no round was ever started.
func (r *SchedulingAttemptRepository) LatestForCandidate(ctx context.Context, exec sqlx.ExtContext, candidateID string) (*models.SchedulingAttempt, error) {
	target := r.exec(exec)
	const query = `SELECT id, candidate_id, previous_interview_id, created_at FROM scheduling_attempts
WHERE candidate_id = $1 ORDER BY created_at DESC LIMIT 1`
	var attempt models.SchedulingAttempt
	err := sqlx.GetContext(ctx, target, &attempt, query, candidateID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest scheduling attempt: %w", err)
	}
	return &attempt, nil
}
