package identity

import (
	"context"
	"errors"
	"time"

	"github.com/community/backend/internal/domain/identity"
	"github.com/community/backend/internal/domain/shared"
	"github.com/community/backend/internal/infrastructure/auth"
	"github.com/community/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Auth errors. All of them carry the UNAUTHORIZED code except disabled registration.
var (
	ErrInvalidCredentials   = shared.ErrUnauthorized.WithMessage("Invalid email or password")
	ErrSessionInvalid       = shared.ErrUnauthorized.WithMessage("Session is invalid or has expired")
	ErrRegistrationDisabled = shared.ErrNotFound.WithMessage("Registration is disabled")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	AllowRegistration bool
	SessionTTL        time.Duration
}

// AuthService handles accounts and sessions. A session row backs every
// issued token; the token's jti is the session id.
type AuthService struct {
	userRepo    identity.UserRepository
	sessionRepo identity.SessionRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	config      AuthServiceConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	sessionRepo identity.SessionRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.SessionTTL <= 0 {
		config.SessionTTL = jwtService.Expiration()
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		config:      config,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates an account when self-registration is enabled
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if !s.config.AllowRegistration {
		return nil, ErrRegistrationDisabled
	}

	user, err := identity.NewUser(req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	response := ToUserResponse(user)
	return &response, nil
}

// Login verifies the credentials, opens a session and issues its token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()

	user, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, ErrInvalidCredentials
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	session := identity.NewSession(user.ID, s.config.SessionTTL, input.UserAgent, input.ClientIP)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	token, err := s.jwtService.Issue(session.ID, user.ID, user.Email, session.ExpiresAt)
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("User logged in", zap.Int64("user_id", user.ID), zap.String("session_id", session.ID))

	return &LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// Authenticate resolves a token to its caller. The token must verify, must
// not be revoked and must be backed by a live session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionInvalid
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if session.IsExpired(s.now()) {
		return nil, ErrSessionInvalid
	}

	return &Principal{
		UserID:    session.UserID,
		SessionID: session.ID,
		Email:     claims.Email,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout ends the session and revokes its token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, p *Principal) error {
	if err := s.sessionRepo.Delete(ctx, p.SessionID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	ttl := p.ExpiresAt.Sub(s.now())
	if err := s.blacklist.AddToBlacklist(ctx, p.SessionID, ttl); err != nil {
		// the session row is gone, so the token is already rejected
		s.logger.Warn("Failed to blacklist token", zap.Error(err))
	}

	s.logger.Info("User logged out", zap.Int64("user_id", p.UserID), zap.String("session_id", p.SessionID))
	return nil
}

// GetUser returns the account of an authenticated caller
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// EnsureAdmin creates the bootstrap account unless one with the email exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.userRepo.FindByEmail(ctx, identity.NormalizeEmail(email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, err
	}

	user, err := identity.NewUser(email, "Administrator", password)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}

	s.logger.Info("Bootstrap admin created", zap.Int64("user_id", user.ID))
	return true, nil
}

// PurgeExpiredSessions deletes sessions past their expiry
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepo.DeleteExpired(ctx, s.now().UTC())
}
