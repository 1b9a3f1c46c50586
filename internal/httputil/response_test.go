package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clearcove/phicrypt/internal/errors"
)

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleErrorGin(c, err, nil)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandleErrorGin(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		w, body := performError(t, apperrors.ErrNotFound)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", body.Error)
	})

	t.Run("Conflict", func(t *testing.T) {
		w, body := performError(t, apperrors.ErrConflict)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "conflict", body.Error)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrInvalidInput, "bad envelope"))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "invalid_input", body.Error)
		assert.Contains(t, body.Message, "bad envelope")
	})

	t.Run("ConfigurationHidesDetails", func(t *testing.T) {
		w, body := performError(t, apperrors.Wrap(apperrors.ErrConfiguration, "encryption key required"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "configuration_error", body.Error)
		assert.NotContains(t, body.Message, "key")
	})

	t.Run("UnknownError", func(t *testing.T) {
		w, body := performError(t, errors.New("something exploded"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", body.Error)
		assert.NotContains(t, body.Message, "exploded")
	})
}

func TestParseLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/rotations"+query, nil)
		return c
	}

	t.Run("Default", func(t *testing.T) {
		limit, err := ParseLimit(newCtx(""))
		require.NoError(t, err)
		assert.Equal(t, 20, limit)
	})

	t.Run("Explicit", func(t *testing.T) {
		limit, err := ParseLimit(newCtx("?limit=5"))
		require.NoError(t, err)
		assert.Equal(t, 5, limit)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseLimit(newCtx("?limit=0"))
		assert.Error(t, err)

		_, err = ParseLimit(newCtx("?limit=101"))
		assert.Error(t, err)

		_, err = ParseLimit(newCtx("?limit=abc"))
		assert.Error(t, err)
	})
}
