package auth

import (
	"context"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Credentials is what the credential store returns for a login attempt.
type Credentials struct {
	User         internal.User
	PasswordHash string
	IsActive     bool
}

// CredentialStore reads accounts for authentication. GetProfile backs the
// profile refresh of live sessions.
type CredentialStore interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	GetProfile(ctx context.Context, userID int64) (*internal.User, error)
}

// TokenGenerator creates and validates signed tokens bound to a session.
type TokenGenerator interface {
	GenerateAccessToken(session *Session) (string, error)
	GenerateRefreshToken(session *Session) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *internal.User `json:"user,omitempty"`
}

// Claims represents JWT token claims. SessionID ties the token to a live
// server-side session; a token outlives its session only until logout.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}
