package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiredeck/scheduling-api/internal/authz"
	"github.com/hiredeck/scheduling-api/internal/middleware"
)

func TestAvailabilityHandlerCreateInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/availability", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityHandlerCreateForeignSlotForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAvailabilityHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := []byte(`{"interviewer_id":"ivr-2","start_at":"2030-01-01T09:00:00Z","end_at":"2030-01-01T12:00:00Z"}`)
	req, _ := http.NewRequest(http.MethodPost, "/availability", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextActorKey, authz.Actor{ID: "ivr-1", Role: authz.RoleInterviewer})

	handler.Create(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
