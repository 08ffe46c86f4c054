// Package identity runs the operator login flow and resolves console sessions.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/activity"
	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/shared"
	"github.com/bookingops/console/internal/infrastructure/auth"
)

// EntitySession is the activity entity for logins and logouts
const EntitySession = "session"

// TokenIssuer signs and verifies console session tokens
type TokenIssuer interface {
	GenerateToken(session *identity.Session) (string, error)
	ValidateToken(token string) (*auth.Claims, error)
	Expiration() time.Duration
}

// RequestOTPInput starts a login
type RequestOTPInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
}

// VerifyInput completes a login
type VerifyInput struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,phone"`
	Code        string `json:"code" binding:"required"`
}

// LoginResult is returned after a successful verification
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Session   *identity.Session `json:"-"`
	User      identity.UserInfo `json:"user"`
}

// AuthService handles the phone OTP login and the console session lifecycle
type AuthService struct {
	gateway   identity.LoginGateway
	sessions  identity.SessionStore
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	recorder  *console.Recorder
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	gateway identity.LoginGateway,
	sessions identity.SessionStore,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	recorder *console.Recorder,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		gateway:   gateway,
		sessions:  sessions,
		tokens:    tokens,
		blacklist: blacklist,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// RequestOTP asks the booking API to text a login code to the phone number
func (s *AuthService) RequestOTP(ctx context.Context, input RequestOTPInput) (*identity.LoginChallenge, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if !identity.ValidPhoneNumber(phone) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Phone number must look like (555) 123-4567")
	}

	challenge, err := s.gateway.PhoneLogin(ctx, identity.PhoneLoginInput{
		PhoneNumber: phone,
		Type:        identity.UserTypeAdmin,
	})
	if err != nil {
		s.logger.Warn("Phone login failed", zap.Error(err))
		return nil, err
	}
	if !challenge.Success {
		s.logger.Info("Phone login rejected", zap.String("message", challenge.Message))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, loginMessage(challenge.Message, "Login was rejected"))
	}
	return challenge, nil
}

// Verify exchanges the OTP for upstream credentials and opens a console session
func (s *AuthService) Verify(ctx context.Context, input VerifyInput) (*LoginResult, error) {
	phone := strings.TrimSpace(input.PhoneNumber)
	if !identity.ValidPhoneNumber(phone) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Phone number must look like (555) 123-4567")
	}
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Code is required")
	}

	creds, err := s.gateway.VerifyOTP(ctx, identity.VerifyOTPInput{
		PhoneNumber: phone,
		Type:        identity.UserTypeAdmin,
		Code:        code,
	})
	if err != nil {
		s.logger.Warn("OTP verification failed", zap.Error(err))
		return nil, err
	}
	if creds.UserInfo.Type != identity.UserTypeAdmin {
		s.logger.Warn("Non admin account attempted login",
			zap.String("user_id", creds.UserInfo.ID),
			zap.String("user_type", string(creds.UserInfo.Type)))
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Only admin accounts can use the console")
	}

	now := s.now().UTC()
	session := &identity.Session{
		ID:           uuid.NewString(),
		UserID:       creds.UserInfo.ID,
		UserType:     creds.UserInfo.Type,
		PhoneNumber:  phone,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.tokens.Expiration()),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Failed to store session", zap.Error(err))
		return nil, err
	}

	token, err := s.tokens.GenerateToken(session)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue session token")
	}

	s.logger.Info("Operator logged in",
		zap.String("user_id", session.UserID),
		zap.String("session_id", session.ID))
	s.recorder.Record(ctx, EntitySession, session.ID, activity.ActionLogin, "user "+session.UserID)

	return &LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Session:   session,
		User:      creds.UserInfo,
	}, nil
}

// Authenticate resolves a session token to its live session
func (s *AuthService) Authenticate(ctx context.Context, token string) (*identity.Session, error) {
	if token == "" {
		return nil, shared.ErrUnauthorized
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session expired")
		}
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid session token")
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.SessionID())
		if err != nil {
			s.logger.Error("Failed to check token blacklist", zap.Error(err))
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Session has been logged out")
		}
	}

	return s.sessions.Get(ctx, claims.SessionID())
}

// Logout revokes the upstream refresh token and ends the session. The upstream
// call is best effort; the local session is always removed.
func (s *AuthService) Logout(ctx context.Context, session *identity.Session) error {
	if session == nil {
		return shared.ErrUnauthorized
	}

	if err := s.gateway.Logout(ctx, identity.LogoutInput{RefreshToken: session.RefreshToken}); err != nil {
		s.logger.Warn("Upstream logout failed", zap.String("session_id", session.ID), zap.Error(err))
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		s.logger.Error("Failed to delete session", zap.String("session_id", session.ID), zap.Error(err))
		return err
	}

	if s.blacklist != nil {
		ttl := session.ExpiresAt.Sub(s.now())
		if err := s.blacklist.AddToBlacklist(ctx, session.ID, ttl); err != nil {
			s.logger.Warn("Failed to blacklist session token", zap.String("session_id", session.ID), zap.Error(err))
		}
	}

	s.logger.Info("Operator logged out",
		zap.String("user_id", session.UserID),
		zap.String("session_id", session.ID))
	s.recorder.Record(ctx, EntitySession, session.ID, activity.ActionLogout, "user "+session.UserID)
	return nil
}

func loginMessage(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}
