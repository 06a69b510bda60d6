package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulingAttemptRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchedulingAttemptRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduling_attempts")).
		WithArgs(sqlmock.AnyArg(), "cand-1", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	attempt, err := repo.Create(context.Background(), nil, "cand-1", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.Nil(t, attempt.PreviousInterviewID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulingAttemptRepositoryCreateLinksRetiredInterview(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSchedulingAttemptRepository(db)

	prior := "7a1d1f9e-0000-0000-0000-000000000001"
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO scheduling_attempts")).
		WithArgs(sqlmock.AnyArg(), "cand-1", prior, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	attempt, err := repo.Create(context.Background(), nil, "cand-1", &prior)
	require.NoError(t, err)
	require.NotNil(t, attempt.PreviousInterviewID)
	assert.Equal(t, prior, *attempt.PreviousInterviewID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
