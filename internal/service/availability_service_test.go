package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/models"
	appErrors "github.com/hiredeck/scheduling-api/pkg/errors"
)

func newAvailabilityService(repo *slotRepoMock) *AvailabilityService {
	return NewAvailabilityService(repo, passthroughTx{}, nil, nil, nil, AvailabilityServiceOptions{})
}

func TestAddSlotRejectsPastStart(t *testing.T) {
	svc := newAvailabilityService(newSlotRepoMock())

	_, err := svc.AddSlot(context.Background(), AddSlotRequest{
		InterviewerID: "int-1",
		StartAt:       time.Now().UTC().Add(-2 * time.Hour),
		EndAt:         time.Now().UTC().Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAddSlotRejectsSubHourWindow(t *testing.T) {
	svc := newAvailabilityService(newSlotRepoMock())

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.AddSlot(context.Background(), AddSlotRequest{
		InterviewerID: "int-1",
		StartAt:       start,
		EndAt:         start.Add(30 * time.Minute),
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAddSlotRejectsOverlap(t *testing.T) {
	repo := newSlotRepoMock()
	repo.overlap = true
	svc := newAvailabilityService(repo)

	start := time.Now().UTC().Add(24 * time.Hour)
	_, err := svc.AddSlot(context.Background(), AddSlotRequest{
		InterviewerID: "int-1",
		StartAt:       start,
		EndAt:         start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, appErrors.ErrSlotOverlap)
	assert.Empty(t, repo.inserted)
}

func TestAddSlotRaceLosesToExclusionConstraint(t *testing.T) {
	repo := newSlotRepoMock()
	repo.insertErr = appErrors.ErrSlotOverlap
	svc := newAvailabilityService(repo)

	// The pre-check saw no overlap but a concurrent writer got there first;
	// the database constraint still surfaces as a slot overlap.
	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	_, err := svc.AddSlot(context.Background(), AddSlotRequest{
		InterviewerID: "int-1",
		StartAt:       start,
		EndAt:         start.Add(2 * time.Hour),
	})
	assert.ErrorIs(t, err, appErrors.ErrSlotOverlap)
	assert.Empty(t, repo.inserted)
}

func TestAddSlotStoresWindow(t *testing.T) {
	repo := newSlotRepoMock()
	svc := newAvailabilityService(repo)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
	slot, err := svc.AddSlot(context.Background(), AddSlotRequest{
		InterviewerID: "int-1",
		StartAt:       start,
		EndAt:         start.Add(4 * time.Hour),
		Notes:         "full morning",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.False(t, slot.Booked())
	require.Len(t, repo.inserted, 1)
}

func TestClaimAndSplitMiddleClaimLeavesBothSides(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slot := &models.AvailabilitySlot{
		ID:            "slot-1",
		InterviewerID: "int-1",
		StartAt:       day.Add(9 * time.Hour),
		EndAt:         day.Add(13 * time.Hour),
	}
	repo := newSlotRepoMock(slot)
	svc := newAvailabilityService(repo)

	require.NoError(t, svc.ClaimAndSplit(context.Background(), nil, slot, "cand-1", day.Add(11*time.Hour)))

	assert.Equal(t, day.Add(11*time.Hour), slot.StartAt)
	assert.Equal(t, day.Add(12*time.Hour), slot.EndAt)
	assert.True(t, slot.Booked())

	require.Len(t, repo.inserted, 2)
	leading, trailing := repo.inserted[0], repo.inserted[1]
	assert.Equal(t, day.Add(9*time.Hour), leading.StartAt)
	assert.Equal(t, day.Add(11*time.Hour), leading.EndAt)
	assert.False(t, leading.Booked())
	assert.Equal(t, day.Add(12*time.Hour), trailing.StartAt)
	assert.Equal(t, day.Add(13*time.Hour), trailing.EndAt)
	assert.False(t, trailing.Booked())
}

func TestClaimAndSplitDropsSubHourRemainders(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slot := &models.AvailabilitySlot{
		ID:            "slot-1",
		InterviewerID: "int-1",
		StartAt:       day.Add(9 * time.Hour).Add(30 * time.Minute),
		EndAt:         day.Add(11 * time.Hour).Add(45 * time.Minute),
	}
	repo := newSlotRepoMock(slot)
	svc := newAvailabilityService(repo)

	require.NoError(t, svc.ClaimAndSplit(context.Background(), nil, slot, "cand-1", day.Add(10*time.Hour)))

	// 30m before and 45m after the claimed hour are both below the minimum.
	assert.Empty(t, repo.inserted)
	assert.Equal(t, day.Add(10*time.Hour), slot.StartAt)
	assert.Equal(t, day.Add(11*time.Hour), slot.EndAt)
}

func TestClaimAndSplitExactFitLeavesNothing(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slot := &models.AvailabilitySlot{
		ID:            "slot-1",
		InterviewerID: "int-1",
		StartAt:       day.Add(10 * time.Hour),
		EndAt:         day.Add(11 * time.Hour),
	}
	repo := newSlotRepoMock(slot)
	svc := newAvailabilityService(repo)

	require.NoError(t, svc.ClaimAndSplit(context.Background(), nil, slot, "cand-1", day.Add(10*time.Hour)))
	assert.Empty(t, repo.inserted)
	assert.True(t, slot.Booked())
}

func TestClaimAndSplitRejectsBookedSlot(t *testing.T) {
	owner := "cand-2"
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slot := &models.AvailabilitySlot{
		ID:            "slot-1",
		InterviewerID: "int-1",
		StartAt:       day.Add(10 * time.Hour),
		EndAt:         day.Add(12 * time.Hour),
		BookedBy:      &owner,
		IsScheduled:   true,
	}
	svc := newAvailabilityService(newSlotRepoMock(slot))

	err := svc.ClaimAndSplit(context.Background(), nil, slot, "cand-1", day.Add(10*time.Hour))
	assert.ErrorIs(t, err, appErrors.ErrSlotUnavailable)
}

func TestClaimAndSplitRejectsWindowOutsideSlot(t *testing.T) {
	day := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slot := &models.AvailabilitySlot{
		ID:            "slot-1",
		InterviewerID: "int-1",
		StartAt:       day.Add(10 * time.Hour),
		EndAt:         day.Add(12 * time.Hour),
	}
	svc := newAvailabilityService(newSlotRepoMock(slot))

	err := svc.ClaimAndSplit(context.Background(), nil, slot, "cand-1", day.Add(11*time.Hour).Add(30*time.Minute))
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}
