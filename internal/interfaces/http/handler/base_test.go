package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agribase/backend/internal/domain/shared"
	"github.com/agribase/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	h := &BaseHandler{}
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBaseHandlerHandleError(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		w, resp := performError(t, shared.ErrNotFound)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("validation error maps to 400", func(t *testing.T) {
		w, resp := performError(t, shared.NewValidationError("display_name is required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "display_name is required", resp.Error.Message)
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		w, resp := performError(t, shared.NewConflictError("role already assigned"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", resp.Error.Code)
	})

	t.Run("wrapped domain error still maps by code", func(t *testing.T) {
		wrapped := errors.Join(errors.New("load party"), shared.ErrForbidden)
		w, resp := performError(t, wrapped)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	})

	t.Run("unknown error is an opaque 500", func(t *testing.T) {
		w, resp := performError(t, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq:")
	})
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success wraps data in the envelope", func(t *testing.T) {
		router := gin.New()
		router.GET("/", func(c *gin.Context) {
			h.Success(c, gin.H{"name": "Green Acres"})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"data":{"name":"Green Acres"}}`, w.Body.String())
	})

	t.Run("no content has an empty body", func(t *testing.T) {
		router := gin.New()
		router.DELETE("/", func(c *gin.Context) {
			h.NoContent(c)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
