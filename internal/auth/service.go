package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	store          CredentialStore
	tokenGenerator TokenGenerator
	sessions       *SessionManager
	accessTTL      time.Duration
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(store CredentialStore, tokenGen TokenGenerator, sessions *SessionManager, accessTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:          store,
		tokenGenerator: tokenGen,
		sessions:       sessions,
		accessTTL:      accessTTL,
		logger:         logger,
	}
}

func (s *Service) Sessions() *SessionManager {
	return s.sessions
}

// Authenticate validates credentials, starts a session and returns tokens
// bound to it. An unknown or inactive email is ErrUserNotFound, a wrong
// password ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto = dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return AuthTokens{}, appErr
	}

	creds, err := s.store.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrAccountNotFound) {
			s.logger.Warn("login for unknown email", "email", dto.Email)
			return AuthTokens{}, internal.ErrUserNotFound
		}
		s.logger.Error("failed to load credentials", "email", dto.Email, "error", err)
		return AuthTokens{}, err
	}
	if !creds.IsActive {
		s.logger.Warn("login for inactive account", "user_id", creds.User.ID)
		return AuthTokens{}, internal.ErrUserNotFound
	}

	if err := VerifyPassword(creds.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login with wrong password", "user_id", creds.User.ID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	session := s.sessions.Start(creds.User)
	tokens, err := s.issue(session)
	if err != nil {
		s.sessions.End(session.ID)
		return AuthTokens{}, err
	}

	s.logger.Info("user logged in", "user_id", creds.User.ID, "session_id", session.ID)
	return tokens, nil
}

// RefreshTokens issues a new token pair for the live session named by the
// refresh token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	session, ok := s.sessions.Get(claims.SessionID)
	if !ok {
		return AuthTokens{}, internal.ErrSessionEnded
	}
	return s.issue(session)
}

// Logout ends the session. It always succeeds.
func (s *Service) Logout(_ context.Context, sessionID string) {
	s.sessions.End(sessionID)
}

// CurrentUser returns the cached session user, or nil when the session is gone.
func (s *Service) CurrentUser(sessionID string) *internal.User {
	return s.sessions.CurrentUser(sessionID)
}

func (s *Service) IsAdmin(sessionID string) bool {
	return s.sessions.IsAdmin(sessionID)
}

// ValidateAccessToken checks the token and resolves it to its session user.
func (s *Service) ValidateAccessToken(tokenString string) (*internal.User, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	user := s.sessions.CurrentUser(claims.SessionID)
	if user == nil {
		return nil, internal.ErrSessionEnded
	}
	return user, nil
}

func (s *Service) issue(session *Session) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(session)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(session)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	user := session.User
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         &user,
	}, nil
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
