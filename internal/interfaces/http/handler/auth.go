package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookingops/console/internal/application/identity"
	"github.com/bookingops/console/internal/infrastructure/config"
	"github.com/bookingops/console/internal/interfaces/http/middleware"
)

// AuthHandler handles the phone OTP login and the session cookie
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// OTPResponse acknowledges that a code was sent
type OTPResponse struct {
	Message string `json:"message"`
}

// RequestOTP godoc
// @Summary      Request a login code
// @Description  Texts a one time code to an admin phone number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RequestOTPInput true "Phone number"
// @Router       /auth/otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req identity.RequestOTPInput
	if !h.bindJSON(c, &req) {
		return
	}
	challenge, err := h.authService.RequestOTP(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, OTPResponse{Message: challenge.Message})
}

// Verify godoc
// @Summary      Verify a login code
// @Description  Opens a console session and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.VerifyInput true "Phone number and code"
// @Router       /auth/verify [post]
func (h *AuthHandler) Verify(c *gin.Context) {
	var req identity.VerifyInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Verify(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setCookie(c, result.Token, time.Until(result.ExpiresAt))
	h.Success(c, result)
}

// Logout godoc
// @Summary      Log out
// @Description  Ends the console session and clears the cookie
// @Tags         auth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	session := middleware.GetSession(c)
	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		h.HandleError(c, err)
		return
	}
	h.setCookie(c, "", -1)
	h.NoContent(c)
}

// CurrentUserResponse describes the signed in operator
type CurrentUserResponse struct {
	UserID      string    `json:"userId"`
	UserType    string    `json:"userType"`
	PhoneNumber string    `json:"phoneNumber"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// GetCurrentUser godoc
// @Summary      Current operator
// @Tags         auth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Unauthorized(c, "Login required")
		return
	}
	h.Success(c, CurrentUserResponse{
		UserID:      session.UserID,
		UserType:    string(session.UserType),
		PhoneNumber: session.PhoneNumber,
		ExpiresAt:   session.ExpiresAt,
	})
}

// setCookie writes the session cookie; a negative ttl deletes it
func (h *AuthHandler) setCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
