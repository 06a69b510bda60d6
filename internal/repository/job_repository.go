package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

// JobRepository reads open positions together with their client context.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository builds repository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// GetContext returns the job joined with its owning organization.
func (r *JobRepository) GetContext(ctx context.Context, id string) (*models.JobContext, error) {
	const query = `
SELECT j.id, j.organization_id, j.name, j.domain, j.specialization, j.mandatory_skills,
       j.min_experience_years, j.job_level, j.recruiter_email, j.created_at, j.updated_at,
       o.client_level, o.name AS organization_name, o.account_owner_email
FROM jobs j
JOIN organizations o ON o.id = j.organization_id
WHERE j.id = $1`
	var job models.JobContext
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get job context: %w", err)
	}
	return &job, nil
}
