package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

const candidateColumns = `id, organization_id, job_id, name, email, company, specialization,
experience_years, experience_months, status, last_scheduled_initiate_time, score, total_score,
created_at, updated_at`

// CandidateRepository manages candidates within the scheduling lifecycle.
type CandidateRepository struct {
	db *sqlx.DB
}

// NewCandidateRepository builds repository.
func NewCandidateRepository(db *sqlx.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetByID returns a candidate by id.
func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*models.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	var candidate models.Candidate
	if err := r.db.GetContext(ctx, &candidate, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return &candidate, nil
}

// GetByIDForUpdate locks the candidate row inside the ambient transaction.
func (r *CandidateRepository) GetByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, id string) (*models.Candidate, error) {
	target := r.exec(exec)
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1 FOR UPDATE`
	var candidate models.Candidate
	if err := sqlx.GetContext(ctx, target, &candidate, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("lock candidate: %w", err)
	}
	return &candidate, nil
}

// SetStatus updates the candidate's scheduling status.
func (r *CandidateRepository) SetStatus(ctx context.Context, exec sqlx.ExtContext, id, status string) error {
	target := r.exec(exec)
	const query = `UPDATE candidates SET status = $2, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, status); err != nil {
		return fmt.Errorf("set candidate status: %w", err)
	}
	return nil
}

// MarkInitiated moves the candidate into SCHEDULING_INITIATED and stamps the
// round start time.
func (r *CandidateRepository) MarkInitiated(ctx context.Context, exec sqlx.ExtContext, id string, at time.Time) error {
	target := r.exec(exec)
	const query = `UPDATE candidates
SET status = $2, last_scheduled_initiate_time = $3, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, models.CandidateSchedulingInitiated, at); err != nil {
		return fmt.Errorf("mark candidate initiated: %w", err)
	}
	return nil
}

// SyncFromInterview mirrors interview status and scores onto the candidate.
func (r *CandidateRepository) SyncFromInterview(ctx context.Context, exec sqlx.ExtContext, id, status string, score, totalScore int) error {
	target := r.exec(exec)
	const query = `UPDATE candidates
SET status = $2, score = $3, total_score = $4, updated_at = now() WHERE id = $1`
	if _, err := target.ExecContext(ctx, query, id, status, score, totalScore); err != nil {
		return fmt.Errorf("sync candidate from interview: %w", err)
	}
	return nil
}
