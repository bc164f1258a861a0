package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
	"github.com/frahmantamala/expense-ledger/internal/user"
)

type mockUserRepository struct {
	users       map[int64]*user.User
	updateError error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: map[int64]*user.User{
			1: {ID: 1, Email: "admin@company.com", FullName: "Admin", Role: internal.RoleAdmin, IsActive: true},
			2: {ID: 2, Email: "staff1@company.com", FullName: "Staff One", Role: internal.RoleStaff, StaffCode: "STF001", IsActive: true},
		},
	}
}

func (m *mockUserRepository) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, internal.ErrAccountNotFound
}

func (m *mockUserRepository) List(_ context.Context, role string) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) Count(context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepository) Create(_ context.Context, u *user.User) error {
	u.ID = int64(len(m.users) + 1)
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) Update(_ context.Context, u *user.User) error {
	if m.updateError != nil {
		return m.updateError
	}
	clone := *u
	m.users[u.ID] = &clone
	return nil
}

func (m *mockUserRepository) DeleteByEmails(context.Context, []string) error {
	return nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo      *mockUserRepository
		publisher *recordingPublisher
		service   *user.Service
		ctx       context.Context
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(repo, publisher, logger)
		ctx = context.Background()
	})

	Describe("List", func() {
		It("filters by role", func() {
			staff, err := service.List(ctx, internal.RoleStaff)
			Expect(err).NotTo(HaveOccurred())
			Expect(staff).To(HaveLen(1))
			Expect(staff[0].StaffCode).To(Equal("STF001"))
		})

		It("rejects an unknown role", func() {
			_, err := service.List(ctx, "manager")
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("UpdateProfile", func() {
		It("updates the name and publishes user.updated", func() {
			name := "  Staff Renamed "
			u, err := service.UpdateProfile(ctx, 2, user.UpdateUserDTO{FullName: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.FullName).To(Equal("Staff Renamed"))
			Expect(repo.users[2].FullName).To(Equal("Staff Renamed"))

			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeUserUpdated))
		})

		It("refuses to clear a staff member's code", func() {
			empty := ""
			_, err := service.UpdateProfile(ctx, 2, user.UpdateUserDTO{StaffCode: &empty})
			Expect(err).To(HaveOccurred())
			Expect(repo.users[2].StaffCode).To(Equal("STF001"))
			Expect(publisher.published).To(BeEmpty())
		})

		It("returns not found for an unknown user", func() {
			name := "Ghost"
			_, err := service.UpdateProfile(ctx, 99, user.UpdateUserDTO{FullName: &name})
			Expect(errors.Is(err, internal.ErrAccountNotFound)).To(BeTrue())
		})
	})

	Describe("Deactivate", func() {
		It("deactivates once and publishes user.deactivated", func() {
			u, err := service.Deactivate(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeUserDeactivated))

			_, err = service.Deactivate(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(publisher.published).To(HaveLen(1))
		})

		It("surfaces repository failures", func() {
			repo.updateError = internal.NewBackendUnavailableError(errors.New("connection refused"))
			_, err := service.Deactivate(ctx, 2)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeBackendUnavailable))
		})
	})
})
