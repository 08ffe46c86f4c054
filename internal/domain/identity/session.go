// Package identity holds operator login and console sessions.
package identity

import (
	"context"
	"regexp"
	"time"
)

// UserType is the kind of account logging in. The console only admits admins.
type UserType string

const UserTypeAdmin UserType = "Admin"

var phonePattern = regexp.MustCompile(`^\((\d{3})\) (\d{3})-(\d{4})$`)

// ValidPhoneNumber reports whether s is formatted as "(ddd) ddd-dddd"
func ValidPhoneNumber(s string) bool {
	return phonePattern.MatchString(s)
}

// PhoneLoginInput starts an OTP login
type PhoneLoginInput struct {
	PhoneNumber string   `json:"phoneNumber"`
	Type        UserType `json:"type"`
}

// LoginChallenge is the answer to a phone login
type LoginChallenge struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// VerifyOTPInput completes an OTP login
type VerifyOTPInput struct {
	PhoneNumber string   `json:"phoneNumber"`
	Type        UserType `json:"type"`
	Code        string   `json:"code"`
}

// UserInfo identifies the logged in account
type UserInfo struct {
	ID   string   `json:"_id"`
	Type UserType `json:"type"`
}

// Credentials are the upstream tokens issued after OTP verification
type Credentials struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	UserInfo     UserInfo `json:"userInfo"`
}

// LoginGateway performs the upstream login mutations
type LoginGateway interface {
	PhoneLogin(ctx context.Context, input PhoneLoginInput) (*LoginChallenge, error)
	VerifyOTP(ctx context.Context, input VerifyOTPInput) (*Credentials, error)
	Logout(ctx context.Context, input LogoutInput) error
}

// LogoutInput revokes the upstream refresh token
type LogoutInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Session is a logged in console operator. Its presence is the login flag.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	UserType     UserType  `json:"userType"`
	PhoneNumber  string    `json:"phoneNumber"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// SessionStore persists sessions between requests
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
