package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hiredeck/scheduling-api/internal/models"
)

// MatchRepository runs the interviewer eligibility search.
type MatchRepository struct {
	db *sqlx.DB
}

// NewMatchRepository builds repository.
func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// EligibilityCriteria is the fully-resolved search input. The service derives
// it from the job, the candidate and the matching config.
type EligibilityCriteria struct {
	Domain             string
	Specialization     string
	MinExperienceYears int
	MinLevel           int
	MaxLevel           int
	MandatorySkills    []string
	ExcludedCompany    string
	Date               time.Time
	WindowStart        *time.Time
	WindowEnd          *time.Time
}

// FindEligibleSlots returns unbooked slots whose interviewer satisfies every
// eligibility rule. Skill matching is OR semantics: any one mandatory skill
// appearing (case-insensitive substring) in the interviewer's skill list
// qualifies.
func (r *MatchRepository) FindEligibleSlots(ctx context.Context, c EligibilityCriteria) ([]models.MatchedSlot, error) {
	query := `
SELECT s.id, s.interviewer_id, s.start_at, s.end_at, s.booked_by, s.is_scheduled,
       s.calendar_event_id, s.notes, s.archived_at, s.created_at, s.updated_at,
       i.name AS interviewer_name, i.interviewer_level, i.strength
FROM availability_slots s
JOIN interviewers i ON i.id = s.interviewer_id
WHERE s.archived_at IS NULL
  AND s.booked_by IS NULL
  AND s.is_scheduled = FALSE
  AND s.start_at >= $1 AND s.start_at < $2
  AND lower(i.strength) = lower($3)
  AND i.total_experience_years >= $4
  AND i.interviewer_level BETWEEN $5 AND $6
  AND EXISTS (
      SELECT 1 FROM interviewer_domains d
      WHERE d.interviewer_id = i.id AND lower(d.domain) = lower($7))`

	dayStart := time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), 0, 0, 0, 0, time.UTC)
	args := []interface{}{
		dayStart, dayStart.AddDate(0, 0, 1),
		c.Specialization, c.MinExperienceYears, c.MinLevel, c.MaxLevel, c.Domain,
	}
	idx := 8

	if len(c.MandatorySkills) > 0 {
		patterns := make([]string, 0, len(c.MandatorySkills))
		for _, skill := range c.MandatorySkills {
			patterns = append(patterns, "%"+strings.ToLower(skill)+"%")
		}
		query += fmt.Sprintf(`
  AND EXISTS (
      SELECT 1 FROM jsonb_array_elements_text(i.skills) AS sk(name)
      WHERE lower(sk.name) LIKE ANY($%d))`, idx)
		args = append(args, pq.Array(patterns))
		idx++
	}

	if c.ExcludedCompany != "" {
		query += fmt.Sprintf("\n  AND lower(i.current_company) <> lower($%d)", idx)
		args = append(args, c.ExcludedCompany)
		idx++
	}

	if c.WindowStart != nil && c.WindowEnd != nil {
		query += fmt.Sprintf("\n  AND s.start_at <= $%d AND s.end_at >= $%d", idx, idx+1)
		args = append(args, *c.WindowStart, *c.WindowEnd)
	}

	query += "\nORDER BY s.start_at ASC, i.name ASC"

	var slots []models.MatchedSlot
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, fmt.Errorf("find eligible slots: %w", err)
	}
	return slots, nil
}
