package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
	"github.com/hiredeck/scheduling-api/pkg/token"
)

type confirmationFixture struct {
	svc        *ConfirmationService
	codec      *token.Codec
	candidates *candidateRepoMock
	slots      *slotRepoMock
	interviews *interviewStoreMock
	attempts   *attemptRepoMock
	notifier   *fakeNotifier
	at         time.Time
}

func newConfirmationFixture(t *testing.T, candidateStatus string) *confirmationFixture {
	t.Helper()
	at := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	jobID := "job-1"

	candidate := &models.Candidate{
		ID:     "cand-1",
		JobID:  &jobID,
		Name:   "Noor",
		Email:  "noor@example.com",
		Status: candidateStatus,
	}
	slot := futureSlot("slot-1", "int-1", at.Add(-time.Hour), 4)

	f := &confirmationFixture{
		codec:      token.NewCodec("test-secret", time.Hour),
		candidates: newCandidateRepoMock(candidate),
		slots:      newSlotRepoMock(slot),
		interviews: newInterviewStoreMock(),
		attempts:   &attemptRepoMock{latest: &models.SchedulingAttempt{ID: "attempt-1", CandidateID: "cand-1"}},
		notifier:   &fakeNotifier{},
		at:         at,
	}

	directory := &interviewerDirectoryMock{interviewers: map[string]*models.Interviewer{
		"int-1": {ID: "int-1", Name: "Dana", Email: "dana@example.com"},
	}}
	jobs := &jobContextMock{jobs: map[string]*models.JobContext{
		"job-1": {
			Job:               models.Job{ID: "job-1", Name: "Senior Backend Engineer", RecruiterEmail: "recruiter@client.com"},
			AccountOwnerEmail: "owner@example.com",
		},
	}}

	availability := newAvailabilityService(f.slots)
	f.svc = NewConfirmationService(
		f.codec, f.candidates, f.interviews, availability, f.attempts,
		directory, jobs, passthroughTx{}, f.notifier, nil, nil,
		ConfirmationServiceOptions{BufferGap: time.Hour})
	return f
}

func (f *confirmationFixture) mint(t *testing.T, action token.Action, attemptID string) string {
	t.Helper()
	signed, _, err := f.codec.Encode("slot-1", "cand-1", "recruiter-1", attemptID, f.at, action)
	require.NoError(t, err)
	return signed
}

func TestResolveMalformedToken(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)

	_, err := f.svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrTokenMalformed)
}

func TestResolveRejectLeavesStateUntouched(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)

	result, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionReject, "attempt-1"))
	require.NoError(t, err)
	assert.Equal(t, "rejected", result.Status)
	assert.Empty(t, f.interviews.inserted)
	assert.Empty(t, f.slots.booked)
	assert.Empty(t, f.candidates.statusSet)
}

func TestResolveSupersededByNewerAttempt(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)
	f.attempts.latest = &models.SchedulingAttempt{ID: "attempt-2", CandidateID: "cand-1"}

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrSuperseded)
	assert.Empty(t, f.interviews.inserted)
}

func TestResolveSecondAcceptIsAlreadyScheduled(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateConfirmedScheduled)

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrAlreadyScheduled)
}

func TestResolveStaleTokenForConfirmedCandidateIsAlreadyScheduled(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateConfirmedScheduled)
	f.attempts.latest = &models.SchedulingAttempt{ID: "attempt-2", CandidateID: "cand-1"}

	// The confirmed status wins over attempt fencing for stale tokens too.
	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrAlreadyScheduled)
	assert.Empty(t, f.interviews.inserted)
}

func TestResolveRejectsFinalizedCandidate(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateCompleted)

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestResolveBufferConflict(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)
	f.interviews.busy = true

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrBufferConflict)
	assert.Empty(t, f.interviews.inserted)
	assert.Empty(t, f.slots.booked)
}

func TestResolveRaceLosesToUniqueConstraint(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)
	f.interviews.insertErr = appErrors.ErrAlreadyScheduled

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	assert.ErrorIs(t, err, appErrors.ErrAlreadyScheduled)
	assert.Empty(t, f.slots.booked)
}

func TestResolveAcceptBooksInterview(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)

	result, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	require.NoError(t, err)

	assert.Equal(t, "confirmed", result.Status)
	assert.NotEmpty(t, result.InterviewID)

	require.Len(t, f.interviews.inserted, 1)
	interview := f.interviews.inserted[0]
	assert.Equal(t, "cand-1", interview.CandidateID)
	assert.Equal(t, "int-1", interview.InterviewerID)
	require.NotNil(t, interview.ScheduledTime)
	assert.Equal(t, f.at, *interview.ScheduledTime)
	require.NotNil(t, interview.AvailabilitySlotID)
	assert.Equal(t, "slot-1", *interview.AvailabilitySlotID)

	// The claimed slot narrowed to the hour; the 1h leading remainder and 2h
	// trailing remainder became fresh slots.
	assert.Equal(t, []string{"slot-1"}, f.slots.booked)
	assert.Len(t, f.slots.inserted, 2)

	assert.Equal(t, models.CandidateConfirmedScheduled, f.candidates.statusSet["cand-1"])

	recipients := make([]string, 0, len(f.notifier.sent))
	for _, msg := range f.notifier.sent {
		recipients = append(recipients, msg.To)
	}
	assert.ElementsMatch(t, []string{
		"noor@example.com", "dana@example.com", "recruiter@client.com", "owner@example.com",
	}, recipients)
}

func TestResolveAcceptLinksReplacedInterview(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)
	priorID := "iv-old"
	f.attempts.latest.PreviousInterviewID = &priorID

	_, err := f.svc.Resolve(context.Background(), f.mint(t, token.ActionAccept, "attempt-1"))
	require.NoError(t, err)

	require.Len(t, f.interviews.inserted, 1)
	require.NotNil(t, f.interviews.inserted[0].PreviousInterviewID)
	assert.Equal(t, priorID, *f.interviews.inserted[0].PreviousInterviewID)
}

func TestRescheduleRoundLinksReplacementInterview(t *testing.T) {
	at := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Hour)
	candidate := &models.Candidate{ID: "cand-1", Name: "Noor", Email: "noor@example.com", Status: models.CandidateConfirmedScheduled}
	f := newDispatchFixture(candidate, futureSlot("slot-1", "int-1", at, 2))
	f.interviews.confirmed = &models.Interview{
		ID:            "iv-old",
		CandidateID:   "cand-1",
		InterviewerID: "int-2",
		Status:        models.InterviewConfirmedScheduled,
	}

	result, err := f.svc.Initiate(context.Background(), InitiateRequest{
		CandidateID: "cand-1",
		SlotIDs:     []string{"slot-1"},
		ScheduledAt: at,
		RequestedBy: "recruiter-1",
	})
	require.NoError(t, err)
	require.True(t, result.Rescheduled)

	codec := token.NewCodec("test-secret", time.Hour)
	directory := &interviewerDirectoryMock{interviewers: map[string]*models.Interviewer{
		"int-1": {ID: "int-1", Name: "Dana", Email: "dana@example.com"},
	}}
	confirmations := NewConfirmationService(
		codec, f.candidates, f.interviews, newAvailabilityService(f.slots), f.attempts,
		directory, &jobContextMock{}, passthroughTx{}, f.notifier, nil, nil,
		ConfirmationServiceOptions{})

	signed, _, err := codec.Encode("slot-1", "cand-1", "recruiter-1", result.AttemptID, at, token.ActionAccept)
	require.NoError(t, err)
	_, err = confirmations.Resolve(context.Background(), signed)
	require.NoError(t, err)

	require.Len(t, f.interviews.inserted, 1)
	replacement := f.interviews.inserted[0]
	require.NotNil(t, replacement.PreviousInterviewID)
	assert.Equal(t, "iv-old", *replacement.PreviousInterviewID)
}

func TestResolveAcceptIsRetrySafe(t *testing.T) {
	f := newConfirmationFixture(t, models.CandidateSchedulingInitiated)
	signed := f.mint(t, token.ActionAccept, "attempt-1")

	_, err := f.svc.Resolve(context.Background(), signed)
	require.NoError(t, err)

	_, err = f.svc.Resolve(context.Background(), signed)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyScheduled)
	assert.Len(t, f.interviews.inserted, 1)
}
