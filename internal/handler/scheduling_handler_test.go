package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/middleware"
	"github.com/hiredeck/scheduling-api/internal/models"
	"github.com/hiredeck/scheduling-api/internal/service"
)

type candidateDirectoryStub struct {
	candidate *models.Candidate
}

func (s *candidateDirectoryStub) GetByID(context.Context, string) (*models.Candidate, error) {
	return s.candidate, nil
}

func (s *candidateDirectoryStub) GetByIDForUpdate(context.Context, sqlx.ExtContext, string) (*models.Candidate, error) {
	return s.candidate, nil
}

func (s *candidateDirectoryStub) MarkInitiated(context.Context, sqlx.ExtContext, string, time.Time) error {
	return nil
}

func TestSchedulingHandlerInitiateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchedulingHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/scheduling/requests", bytes.NewReader([]byte(`{`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextActorKey, authz.Actor{ID: "rec-1", Role: authz.RoleInternal})

	handler.Initiate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulingHandlerInitiateInterviewerForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSchedulingHandler(nil, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"candidate_id":"cand-1","slot_ids":["slot-1"],"scheduled_at":"2030-01-01T10:00:00Z","requested_by":"rec-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/scheduling/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextActorKey, authz.Actor{ID: "ivr-1", Role: authz.RoleInterviewer})

	handler.Initiate(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSchedulingHandlerInitiateForeignOrgForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	candidates := &candidateDirectoryStub{candidate: &models.Candidate{ID: "cand-1", OrganizationID: "org-1"}}
	dispatch := service.NewDispatchService(candidates, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, "", 0)
	handler := NewSchedulingHandler(dispatch, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"candidate_id":"cand-1","slot_ids":["slot-1"],"scheduled_at":"2030-01-01T10:00:00Z","requested_by":"rec-1"}`)
	req, _ := http.NewRequest(http.MethodPost, "/scheduling/requests", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextActorKey, authz.Actor{ID: "u-2", Role: authz.RoleClient, OrganizationID: "org-2"})

	// The actor's organization is compared with the candidate's, so a client
	// from another organization cannot start a round for this candidate.
	handler.Initiate(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
