package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookingops/console/internal/interfaces/http/dto"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/api/v1/drafts/:id/changes", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "read past limit")
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	change := `{"index":0,"value":"Deep cleaning"}`

	t.Run("passes a change within the limit", func(t *testing.T) {
		router := bodyLimitRouter(1024)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d1/changes", strings.NewReader(change))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "35", w.Body.String())
	})

	t.Run("rejects a declared length over the limit before the handler runs", func(t *testing.T) {
		router := bodyLimitRouter(16)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d1/changes", strings.NewReader(change))
		req.Header.Set(RequestIDHeader, "req-big")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.Equal(t, "req-big", resp.Error.RequestID)
	})

	t.Run("caps bodies without a declared length", func(t *testing.T) {
		router := bodyLimitRouter(16)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d1/changes", strings.NewReader(change))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "read past limit", w.Body.String())
	})
}
