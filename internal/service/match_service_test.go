package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/repository"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

type matchRepoMock struct {
	criteria repository.EligibilityCriteria
	slots    []models.MatchedSlot
	calls    int
}

func (m *matchRepoMock) FindEligibleSlots(_ context.Context, c repository.EligibilityCriteria) ([]models.MatchedSlot, error) {
	m.criteria = c
	m.calls++
	return m.slots, nil
}

type cacheMock struct {
	store map[string][]byte
	sets  int
}

func newCacheMock() *cacheMock {
	return &cacheMock{store: map[string][]byte{}}
}

func (c *cacheMock) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := c.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *cacheMock) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = raw
	c.sets++
	return nil
}

func matchedSlot(id string) models.MatchedSlot {
	return models.MatchedSlot{
		AvailabilitySlot: models.AvailabilitySlot{ID: id, InterviewerID: "int-1"},
		InterviewerName:  "Dana",
		InterviewerLevel: 2,
		Strength:         "Backend",
	}
}

func testJob() *models.JobContext {
	return &models.JobContext{
		Job: models.Job{
			ID:                 "job-1",
			OrganizationID:     "org-1",
			Name:               "Senior Backend Engineer",
			Domain:             "Engineering",
			Specialization:     "Backend",
			MandatorySkills:    models.StringList{"Go", "Postgres"},
			MinExperienceYears: 5,
			JobLevel:           3,
		},
		ClientLevel: 1,
	}
}

func newMatchService(repo *matchRepoMock, jobs *jobContextMock, cache *cacheMock) *MatchService {
	var c matchCache
	if cache != nil {
		c = cache
	}
	return NewMatchService(repo, jobs, c, nil, nil, 2*time.Minute, 2)
}

func TestFindSlotsValidatesInput(t *testing.T) {
	svc := newMatchService(&matchRepoMock{}, &jobContextMock{}, nil)

	_, err := svc.FindSlots(context.Background(), MatchRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.FindSlots(context.Background(), MatchRequest{
		JobID: "job-1",
		Date:  time.Now().UTC().AddDate(0, 0, -3),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestFindSlotsJobMissingIsNotFound(t *testing.T) {
	svc := newMatchService(&matchRepoMock{}, &jobContextMock{jobs: map[string]*models.JobContext{}}, nil)

	_, err := svc.FindSlots(context.Background(), MatchRequest{
		JobID: "nope",
		Date:  time.Now().UTC().AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestFindSlotsZeroMatchesIsNotFound(t *testing.T) {
	repo := &matchRepoMock{}
	svc := newMatchService(repo, &jobContextMock{jobs: map[string]*models.JobContext{"job-1": testJob()}}, nil)

	_, err := svc.FindSlots(context.Background(), MatchRequest{
		JobID: "job-1",
		Date:  time.Now().UTC().AddDate(0, 0, 1),
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, 1, repo.calls)
}

func TestFindSlotsAppliesJobCriteria(t *testing.T) {
	repo := &matchRepoMock{slots: []models.MatchedSlot{matchedSlot("slot-1")}}
	svc := newMatchService(repo, &jobContextMock{jobs: map[string]*models.JobContext{"job-1": testJob()}}, nil)

	at := time.Date(2027, 3, 4, 10, 0, 0, 0, time.UTC)
	slots, err := svc.FindSlots(context.Background(), MatchRequest{
		JobID:           "job-1",
		Date:            at,
		Time:            &at,
		ExcludedCompany: "Acme Corp",
	})
	require.NoError(t, err)
	assert.Len(t, slots, 1)

	assert.Equal(t, "Engineering", repo.criteria.Domain)
	assert.Equal(t, "Backend", repo.criteria.Specialization)
	// Job asks for 5 years; the margin adds 2 on top.
	assert.Equal(t, 7, repo.criteria.MinExperienceYears)
	assert.Equal(t, 3, repo.criteria.MinLevel)
	assert.Equal(t, 3, repo.criteria.MaxLevel)
	assert.Equal(t, []string{"Go", "Postgres"}, repo.criteria.MandatorySkills)
	assert.Equal(t, "Acme Corp", repo.criteria.ExcludedCompany)
	require.NotNil(t, repo.criteria.WindowStart)
	assert.Equal(t, at, *repo.criteria.WindowStart)
	assert.Equal(t, at.Add(time.Hour), *repo.criteria.WindowEnd)
}

func TestFindSlotsWidensLevelWindowForMidTierClients(t *testing.T) {
	job := testJob()
	job.ClientLevel = 2
	repo := &matchRepoMock{slots: []models.MatchedSlot{matchedSlot("slot-1")}}
	svc := newMatchService(repo, &jobContextMock{jobs: map[string]*models.JobContext{"job-1": job}}, nil)

	_, err := svc.FindSlots(context.Background(), MatchRequest{
		JobID: "job-1",
		Date:  time.Now().UTC().AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.criteria.MinLevel)
	assert.Equal(t, 3, repo.criteria.MaxLevel)
}

func TestFindSlotsServesSecondCallFromCache(t *testing.T) {
	repo := &matchRepoMock{slots: []models.MatchedSlot{matchedSlot("slot-1")}}
	cache := newCacheMock()
	svc := newMatchService(repo, &jobContextMock{jobs: map[string]*models.JobContext{"job-1": testJob()}}, cache)

	req := MatchRequest{JobID: "job-1", Date: time.Now().UTC().AddDate(0, 0, 1)}

	first, err := svc.FindSlots(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.FindSlots(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
}
