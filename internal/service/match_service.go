package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/repository"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

type matchRepository interface {
	FindEligibleSlots(ctx context.Context, c repository.EligibilityCriteria) ([]models.MatchedSlot, error)
}

type jobContextRepository interface {
	GetContext(ctx context.Context, id string) (*models.JobContext, error)
}

type matchCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// MatchRequest is the interviewer search input. Specialization defaults to
// the job's own when omitted.
type MatchRequest struct {
	JobID              string     `validate:"required"`
	Date               time.Time  `validate:"required"`
	Time               *time.Time `validate:"omitempty"`
	Specialization     string     `validate:"omitempty,max=100"`
	MinExperienceYears int        `validate:"gte=0,lte=50"`
	ExcludedCompany    string     `validate:"omitempty,max=200"`
}

// MatchService finds availability slots whose interviewer can run the
// interview for a given job.
type MatchService struct {
	repo      matchRepository
	jobs      jobContextRepository
	cache     matchCache
	validator *validator.Validate
	logger    *zap.Logger

	cacheTTL         time.Duration
	experienceMargin int
}

// NewMatchService constructs the service.
func NewMatchService(repo matchRepository, jobs jobContextRepository, cache matchCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration, experienceMargin int) *MatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		repo:             repo,
		jobs:             jobs,
		cache:            cache,
		validator:        validate,
		logger:           logger,
		cacheTTL:         cacheTTL,
		experienceMargin: experienceMargin,
	}
}

// FindSlots returns eligible unbooked slots for the request. Zero matches is
// a NotFound, kept distinct from invalid input.
func (s *MatchService) FindSlots(ctx context.Context, req MatchRequest) ([]models.MatchedSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if req.Date.Before(today) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "search date cannot be in the past")
	}

	job, err := s.jobs.GetContext(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load job")
	}

	criteria := s.buildCriteria(req, job)
	key := s.cacheKey(req)

	var cached []models.MatchedSlot
	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			if len(cached) == 0 {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "no eligible interviewers available")
			}
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	slots, err := s.repo.FindEligibleSlots(ctx, criteria)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search availability")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, slots, s.cacheTTL); err != nil {
			s.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no eligible interviewers available")
	}
	return slots, nil
}

func (s *MatchService) buildCriteria(req MatchRequest, job *models.JobContext) repository.EligibilityCriteria {
	specialization := req.Specialization
	if specialization == "" {
		specialization = job.Specialization
	}

	minLevel, maxLevel := job.JobLevel, job.JobLevel
	if job.ClientLevel == 2 || job.ClientLevel == 3 {
		minLevel = job.JobLevel - 1
		if minLevel < 1 {
			minLevel = 1
		}
	}

	minExperience := req.MinExperienceYears
	if minExperience == 0 {
		minExperience = job.MinExperienceYears
	}

	criteria := repository.EligibilityCriteria{
		Domain:             job.Domain,
		Specialization:     specialization,
		MinExperienceYears: minExperience + s.experienceMargin,
		MinLevel:           minLevel,
		MaxLevel:           maxLevel,
		MandatorySkills:    job.MandatorySkills,
		ExcludedCompany:    req.ExcludedCompany,
		Date:               req.Date,
	}
	if req.Time != nil {
		start := req.Time.UTC()
		end := start.Add(interviewDuration)
		criteria.WindowStart = &start
		criteria.WindowEnd = &end
	}
	return criteria
}

func (s *MatchService) cacheKey(req MatchRequest) string {
	at := ""
	if req.Time != nil {
		at = req.Time.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("match:%s:%s:%s:%s:%d:%s",
		req.JobID, req.Date.Format("2006-01-02"), at,
		req.Specialization, req.MinExperienceYears, req.ExcludedCompany)
}
