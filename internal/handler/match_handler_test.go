package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMatchHandlerSearchRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMatchHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability/search?jobId=job-1&date=01-09-2026", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchHandlerSearchRejectsBadTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMatchHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability/search?jobId=job-1&date=2026-09-01&time=9am", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMatchHandlerSearchRejectsBadExperience(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMatchHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/availability/search?jobId=job-1&date=2026-09-01&minExperience=five", nil)
	c.Request = req

	handler.Search(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
