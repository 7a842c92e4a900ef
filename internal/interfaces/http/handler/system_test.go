package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping() error {
	return s.err
}

func TestSystemHandlerHealth(t *testing.T) {
	t.Run("healthy database reports ok", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewSystemHandler(stubPinger{}).Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("unreachable database reports degraded", func(t *testing.T) {
		router := gin.New()
		router.GET("/health", NewSystemHandler(stubPinger{err: errors.New("refused")}).Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	})
}
