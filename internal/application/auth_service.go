package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/example/housekeeping/internal/session"
)

// CredentialStore exposes user lookups required by the auth service.
type CredentialStore interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
}

// TokenCodec mints and verifies session tokens.
type TokenCodec interface {
	Mint(userID int64, role string) (session.Token, error)
	Verify(token string) (session.Identity, error)
}

// AuthService coordinates login, per-request session validation and logout.
type AuthService struct {
	credentials    CredentialStore
	codec          TokenCodec
	denylist       session.Denylist
	verifyPassword PasswordVerifier
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService. denylist may be nil, in which case
// logout only clears the client cookie.
func NewAuthService(credentials CredentialStore, codec TokenCodec, denylist session.Denylist, verify PasswordVerifier) *AuthService {
	return NewAuthServiceWithLogger(credentials, codec, denylist, verify, nil)
}

// NewAuthServiceWithLogger constructs an AuthService with a specified logger.
func NewAuthServiceWithLogger(credentials CredentialStore, codec TokenCodec, denylist session.Denylist, verify PasswordVerifier, logger *slog.Logger) *AuthService {
	if verify == nil {
		verify = VerifyPassword
	}
	return &AuthService{
		credentials:    credentials,
		codec:          codec,
		denylist:       denylist,
		verifyPassword: verify,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate validates credentials and mints a session token. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.credentials == nil || s.codec == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	email := strings.TrimSpace(strings.ToLower(params.Email))
	password := params.Password

	logger := s.loggerWith(ctx, "Authenticate",
		"email", email,
	)
	defer func() {
		if err != nil {
			logger.WarnContext(ctx, "authentication failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With(
			"user_id", result.User.ID,
			"token_id", result.Token.ID,
		).InfoContext(ctx, "authentication succeeded")
	}()

	if email == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	var user User
	user, err = s.credentials.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if verr := s.verifyPassword(user.PasswordHash, password); verr != nil {
		if !errors.Is(verr, ErrInvalidCredentials) {
			logger.ErrorContext(ctx, "stored password hash rejected", "error", verr, "user_id", user.ID)
		}
		err = ErrInvalidCredentials
		return
	}

	var token session.Token
	token, err = s.codec.Mint(user.ID, string(user.Role))
	if err != nil {
		return
	}

	result = AuthenticateResult{
		User:  user,
		Token: SessionToken{Value: token.Value, ID: token.ID, ExpiresAt: token.ExpiresAt},
	}
	return
}

// ValidateSession verifies a token and returns the principal it carries. It
// never touches the user store; role permissions are re-checked per operation.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if s.codec == nil {
		err = fmt.Errorf("token codec not configured")
		return
	}

	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		err = ErrUnauthenticated
		return
	}

	identity, verr := s.codec.Verify(trimmed)
	if verr != nil {
		s.loggerWith(ctx, "ValidateSession").DebugContext(ctx, "session rejected", "error", verr)
		err = fmt.Errorf("%w: %w", ErrUnauthenticated, verr)
		return
	}

	role := Role(identity.Role)
	if !role.Valid() {
		err = fmt.Errorf("%w: unknown role %q", ErrUnauthenticated, identity.Role)
		return
	}

	if s.denylist != nil {
		var revoked bool
		revoked, err = s.denylist.IsRevoked(ctx, identity.TokenID)
		if err != nil {
			s.loggerWith(ctx, "ValidateSession", "token_id", identity.TokenID).
				ErrorContext(ctx, "denylist lookup failed", "error", err)
			return
		}
		if revoked {
			err = fmt.Errorf("%w: token revoked", ErrUnauthenticated)
			return
		}
	}

	principal = Principal{UserID: identity.UserID, Role: role}
	return
}

// RevokeSession denies a token until its natural expiry. Invalid tokens and a
// missing denylist are no-ops so logout always succeeds for the client.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil {
		return fmt.Errorf("AuthService is nil")
	}
	trimmed := strings.TrimSpace(token)
	if trimmed == "" || s.codec == nil || s.denylist == nil {
		return nil
	}

	identity, err := s.codec.Verify(trimmed)
	if err != nil {
		return nil
	}

	logger := s.loggerWith(ctx, "RevokeSession", "user_id", identity.UserID, "token_id", identity.TokenID)
	if err := s.denylist.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "session revoked")
	return nil
}

// CurrentUser returns the account behind principal.
func (s *AuthService) CurrentUser(ctx context.Context, principal Principal) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("AuthService is nil")
		return
	}
	if principal.UserID <= 0 {
		err = ErrUnauthenticated
		return
	}
	if err = authorize(principal, ActionViewSelf); err != nil {
		return
	}
	if s.credentials == nil {
		err = fmt.Errorf("credential store not configured")
		return
	}

	user, err = s.credentials.GetUser(ctx, principal.UserID)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "CurrentUser", "principal_id", principal.UserID).
			WarnContext(ctx, "failed to load current user", "error", err, "error_kind", ErrorKind(err))
	}
	return
}
