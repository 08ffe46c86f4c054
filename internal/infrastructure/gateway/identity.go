package gateway

import (
	"context"

	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/shared"
)

// LoginGateway binds the OTP login mutations
type LoginGateway struct {
	client *Client
}

var _ identity.LoginGateway = (*LoginGateway)(nil)

// NewLoginGateway creates a LoginGateway
func NewLoginGateway(c *Client) *LoginGateway {
	return &LoginGateway{client: c}
}

// PhoneLogin sends the OTP code to the phone number
func (g *LoginGateway) PhoneLogin(ctx context.Context, input identity.PhoneLoginInput) (*identity.LoginChallenge, error) {
	const query = `mutation phoneLogin($input: UserPhoneLoginInput!) {
  phoneLogin(input: $input) { message success }
}`
	res, err := mustCall[identity.LoginChallenge](ctx, g.client, "phoneLogin", query, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, messageOr(res.Message, "Login rejected"))
	}
	return res, nil
}

// VerifyOTP exchanges the OTP code for upstream tokens
func (g *LoginGateway) VerifyOTP(ctx context.Context, input identity.VerifyOTPInput) (*identity.Credentials, error) {
	const query = `mutation verifyOtpCode($input: UserVerifyPhoneOTPInput!) {
  verifyOtpCode(input: $input) {
    accessToken
    refreshToken
    userInfo { _id type }
  }
}`
	res, err := mustCall[identity.Credentials](ctx, g.client, "verifyOtpCode", query, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if res.AccessToken == "" {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid verification code")
	}
	return res, nil
}

// Logout revokes the upstream session
func (g *LoginGateway) Logout(ctx context.Context, input identity.LogoutInput) error {
	const query = `mutation logout($input: UserLogoutInput!) {
  logout(input: $input) { message success }
}`
	res, err := mustCall[identity.LoginChallenge](ctx, g.client, "logout", query, map[string]any{"input": input})
	if err != nil {
		return err
	}
	if !res.Success {
		return shared.NewDomainError(shared.CodeUpstreamError, messageOr(res.Message, "Logout failed"))
	}
	return nil
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
