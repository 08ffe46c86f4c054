package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/gateway"
	"github.com/bookingops/console/internal/infrastructure/logger"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Session), args.Error(1)
}

func testSession() *identity.Session {
	return &identity.Session{ID: "sess-1", UserID: "admin-1", UserType: identity.UserTypeAdmin, AccessToken: "upstream-access"}
}

func TestRequireSession(t *testing.T) {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, "good").Return(testSession(), nil)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, shared.ErrUnauthorized)

	var (
		owner, accessToken, userID, sessionID string
	)
	router := gin.New()
	router.Use(RequestID(), RequireSession(auth, "console_session"))
	router.GET("/api/jobs", func(c *gin.Context) {
		owner = SessionOwner(c)
		accessToken = gateway.AccessToken(c.Request.Context())
		userID = logger.GetUserID(c.Request.Context())
		sessionID = logger.GetSessionID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("cookie session", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/jobs", nil)
		req.AddCookie(&http.Cookie{Name: "console_session", Value: "good"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sess-1", owner)
		assert.Equal(t, "upstream-access", accessToken)
		assert.Equal(t, "admin-1", userID)
		assert.Equal(t, "sess-1", sessionID)
	})

	t.Run("bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/jobs", nil)
		req.Header.Set("Authorization", "Bearer good")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/jobs", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/jobs", nil)
		req.Header.Set("Authorization", "Bearer bad")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePageSession_RedirectsToLogin(t *testing.T) {
	auth := new(MockAuthenticator)
	router := gin.New()
	router.Use(RequirePageSession(auth, "console_session", "/login"))
	router.GET("/categories", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/categories", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestGetSession_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetSession(c))
	assert.Empty(t, SessionOwner(c))
}
