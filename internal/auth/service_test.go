package auth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock CredentialStore for testing
type mockCredentialStore struct {
	byEmail       map[string]*Credentials
	returnError   bool
	errorToReturn error
	profileCalls  int
}

func newMockCredentialStore() *mockCredentialStore {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockCredentialStore{
		byEmail: map[string]*Credentials{
			"staff1@company.com": {
				User:         internal.User{ID: 1, Email: "staff1@company.com", FullName: "Staff One", Role: internal.RoleStaff, StaffCode: "STF001"},
				PasswordHash: string(hashedPassword),
				IsActive:     true,
			},
			"admin@company.com": {
				User:         internal.User{ID: 2, Email: "admin@company.com", FullName: "Admin", Role: internal.RoleAdmin},
				PasswordHash: string(hashedPassword),
				IsActive:     true,
			},
			"former@company.com": {
				User:         internal.User{ID: 3, Email: "former@company.com", FullName: "Former", Role: internal.RoleStaff, StaffCode: "STF009"},
				PasswordHash: string(hashedPassword),
				IsActive:     false,
			},
		},
	}
}

func (m *mockCredentialStore) GetCredentialsByEmail(_ context.Context, email string) (*Credentials, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	creds, ok := m.byEmail[email]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	return creds, nil
}

func (m *mockCredentialStore) GetProfile(_ context.Context, userID int64) (*internal.User, error) {
	m.profileCalls++
	for _, c := range m.byEmail {
		if c.User.ID == userID && c.IsActive {
			u := c.User
			return &u, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockCredentialStore) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service       *Service
		store         *mockCredentialStore
		sessions      *SessionManager
		tokenGen      *JWTTokenGenerator
		ctx           context.Context
		accessSecret  = "test-access-secret-0123456789abcdef"
		refreshSecret = "test-refresh-secret-0123456789abcdef"
		accessTTL     = 15 * time.Minute
		refreshTTL    = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		store = newMockCredentialStore()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		sessions = NewSessionManager(refreshTTL, quietLogger())
		service = NewService(store, tokenGen, sessions, accessTTL, quietLogger())
		ctx = context.Background()
	})

	login := func(email string) AuthTokens {
		tokens, err := service.Authenticate(ctx, LoginDTO{Email: email, Password: "correct_password"})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return tokens
	}

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return tokens bound to a new session", func() {
				// When
				tokens := login("staff1@company.com")

				// Then
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
				gomega.Expect(tokens.User.ID).To(gomega.Equal(int64(1)))

				claims, err := tokenGen.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.SessionID).To(gomega.Equal(tokens.User.SessionID))
				gomega.Expect(claims.Role).To(gomega.Equal(internal.RoleStaff))
			})

			ginkgo.It("should accept the email in any case", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "  ADMIN@company.com ", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("should make the user current right after login", func() {
				tokens := login("admin@company.com")

				user := service.CurrentUser(tokens.User.SessionID)
				gomega.Expect(user).ToNot(gomega.BeNil())
				gomega.Expect(user.Email).To(gomega.Equal("admin@company.com"))
				gomega.Expect(service.IsAdmin(tokens.User.SessionID)).To(gomega.BeTrue())
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should return UserNotFound for an unknown email", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "nobody@company.com", Password: "x"})

				gomega.Expect(errors.Is(err, internal.ErrUserNotFound)).To(gomega.BeTrue())
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})

			ginkgo.It("should return UserNotFound for an inactive account", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "former@company.com", Password: "correct_password"})
				gomega.Expect(errors.Is(err, internal.ErrUserNotFound)).To(gomega.BeTrue())
			})

			ginkgo.It("should return InvalidCredentials for a wrong password", func() {
				tokens, err := service.Authenticate(ctx, LoginDTO{Email: "staff1@company.com", Password: "wrong_password"})

				gomega.Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(gomega.BeTrue())
				gomega.Expect(tokens.RefreshToken).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty email", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Password: "password"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("email is required"))
			})

			ginkgo.It("should return validation error for empty password", func() {
				_, err := service.Authenticate(ctx, LoginDTO{Email: "staff1@company.com"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("password is required"))
			})
		})

		ginkgo.Context("when the store is unavailable", func() {
			ginkgo.It("should surface the backend error", func() {
				store.setError(internal.NewBackendUnavailableError(errors.New("dial tcp: refused")))

				_, err := service.Authenticate(ctx, LoginDTO{Email: "staff1@company.com", Password: "correct_password"})

				appErr, ok := internal.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeBackendUnavailable))
				gomega.Expect(sessions.sessions).To(gomega.BeEmpty())
			})
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should clear the current user", func() {
			tokens := login("staff1@company.com")
			sid := tokens.User.SessionID

			service.Logout(ctx, sid)

			gomega.Expect(service.CurrentUser(sid)).To(gomega.BeNil())
			_, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(errors.Is(err, internal.ErrSessionEnded)).To(gomega.BeTrue())
		})

		ginkgo.It("should be a no-op for unknown sessions", func() {
			gomega.Expect(func() { service.Logout(ctx, "no-such-session") }).ToNot(gomega.Panic())
		})
	})

	ginkgo.Describe("CurrentUser", func() {
		ginkgo.It("should answer from the session cache without reading the store", func() {
			tokens := login("staff1@company.com")

			for i := 0; i < 3; i++ {
				gomega.Expect(service.CurrentUser(tokens.User.SessionID)).ToNot(gomega.BeNil())
			}
			gomega.Expect(store.profileCalls).To(gomega.Equal(0))
		})

		ginkgo.It("should return nil before any login", func() {
			gomega.Expect(service.CurrentUser("")).To(gomega.BeNil())
			gomega.Expect(service.IsAdmin("")).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue new tokens for a live session", func() {
			tokens := login("staff1@company.com")

			refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			user, err := service.ValidateAccessToken(refreshed.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("should reject an access token used as refresh token", func() {
			tokens := login("staff1@company.com")

			_, err := service.RefreshTokens(ctx, tokens.AccessToken)
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a refresh token whose session ended", func() {
			tokens := login("staff1@company.com")
			service.Logout(ctx, tokens.User.SessionID)

			_, err := service.RefreshTokens(ctx, tokens.RefreshToken)
			gomega.Expect(errors.Is(err, internal.ErrSessionEnded)).To(gomega.BeTrue())
		})

		ginkgo.It("should return error for expired token", func() {
			expiredGen := NewJWTTokenGenerator(accessSecret, refreshSecret, -time.Hour, -time.Hour)
			expired, err := expiredGen.GenerateRefreshToken(&Session{ID: "sid", User: internal.User{ID: 1}})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(ctx, expired)
			gomega.Expect(errors.Is(err, internal.ErrTokenExpired)).To(gomega.BeTrue())
		})

		ginkgo.It("should return error for malformed token", func() {
			_, err := service.RefreshTokens(ctx, "invalid.token.format")
			gomega.Expect(errors.Is(err, internal.ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Session event handlers", func() {
		var bus *events.EventBus

		ginkgo.BeforeEach(func() {
			bus = events.NewEventBus(quietLogger())
			RegisterSessionEventHandlers(bus, sessions, store, quietLogger())
		})

		ginkgo.It("should end sessions of a deactivated user", func() {
			tokens := login("staff1@company.com")
			var signedOut []SessionEvent
			sessions.Subscribe(func(ev SessionEvent) {
				if ev.Type == SessionSignedOut {
					signedOut = append(signedOut, ev)
				}
			})

			gomega.Expect(bus.PublishSync(ctx, events.NewUserDeactivatedEvent(1))).To(gomega.Succeed())

			gomega.Expect(service.CurrentUser(tokens.User.SessionID)).To(gomega.BeNil())
			gomega.Expect(signedOut).To(gomega.HaveLen(1))
		})

		ginkgo.It("should re-fetch the profile on user.updated", func() {
			tokens := login("staff1@company.com")
			store.byEmail["staff1@company.com"].User.FullName = "Renamed"

			gomega.Expect(bus.PublishSync(ctx, events.NewUserUpdatedEvent(1))).To(gomega.Succeed())

			user := service.CurrentUser(tokens.User.SessionID)
			gomega.Expect(user.FullName).To(gomega.Equal("Renamed"))
			gomega.Expect(user.SessionID).To(gomega.Equal(tokens.User.SessionID))
			gomega.Expect(store.profileCalls).To(gomega.Equal(1))
		})
	})
})
