package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

// InterviewerRepository reads interviewer profiles.
type InterviewerRepository struct {
	db *sqlx.DB
}

// NewInterviewerRepository builds repository.
func NewInterviewerRepository(db *sqlx.DB) *InterviewerRepository {
	return &InterviewerRepository{db: db}
}

// GetByID returns an interviewer by id.
func (r *InterviewerRepository) GetByID(ctx context.Context, id string) (*models.Interviewer, error) {
	const query = `SELECT id, name, email, strength, skills, total_experience_years,
interviewer_level, current_company, created_at, updated_at
FROM interviewers WHERE id = $1`
	var interviewer models.Interviewer
	if err := r.db.GetContext(ctx, &interviewer, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get interviewer: %w", err)
	}
	return &interviewer, nil
}
