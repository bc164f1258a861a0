package advance_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/advance"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
	"github.com/frahmantamala/expense-ledger/internal/user"
)

type mockAdvanceRepository struct {
	advances   map[int64]*advance.Advance
	linked     map[int64]int64
	nextID     int64
	lastFilter query.Filter
	markCalls  int
}

func newMockAdvanceRepository() *mockAdvanceRepository {
	return &mockAdvanceRepository{
		advances: make(map[int64]*advance.Advance),
		linked:   make(map[int64]int64),
		nextID:   1,
	}
}

func (m *mockAdvanceRepository) Create(_ context.Context, a *advance.Advance) error {
	a.ID = m.nextID
	m.nextID++
	clone := *a
	m.advances[a.ID] = &clone
	return nil
}

func (m *mockAdvanceRepository) GetByID(_ context.Context, id int64) (*advance.Advance, error) {
	a, ok := m.advances[id]
	if !ok {
		return nil, internal.ErrAdvanceNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockAdvanceRepository) List(_ context.Context, filter query.Filter) ([]*advance.Advance, error) {
	m.lastFilter = filter
	var out []*advance.Advance
	for _, a := range m.advances {
		if filter.OwnerID == nil || *filter.OwnerID == a.StaffID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAdvanceRepository) Update(_ context.Context, a *advance.Advance) error {
	if _, ok := m.advances[a.ID]; !ok {
		return internal.ErrAdvanceNotFound
	}
	clone := *a
	m.advances[a.ID] = &clone
	return nil
}

func (m *mockAdvanceRepository) Delete(_ context.Context, id int64) error {
	delete(m.advances, id)
	return nil
}

func (m *mockAdvanceRepository) MarkSettled(_ context.Context, id int64, at time.Time) (bool, error) {
	m.markCalls++
	a, ok := m.advances[id]
	if !ok || a.IsSettled() {
		return false, nil
	}
	a.Status = advance.StatusSettled
	a.SettlementStatus = advance.SettlementSettled
	a.SettledAt = &at
	return true, nil
}

func (m *mockAdvanceRepository) CountLinkedExpenses(_ context.Context, id int64) (int64, error) {
	return m.linked[id], nil
}

type mockStaffLookup struct {
	users map[int64]*user.User
}

func (m *mockStaffLookup) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, internal.ErrAccountNotFound
	}
	return u, nil
}

type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func date(s string) datetime.Date {
	d, err := datetime.Parse(s)
	Expect(err).NotTo(HaveOccurred())
	return d
}

var _ = Describe("Advance Service", func() {
	var (
		repo      *mockAdvanceRepository
		publisher *recordingPublisher
		service   *advance.Service
		ctx       context.Context
		admin     *internal.User
		staff     *internal.User
	)

	BeforeEach(func() {
		repo = newMockAdvanceRepository()
		publisher = &recordingPublisher{}
		staffLookup := &mockStaffLookup{users: map[int64]*user.User{
			1: {ID: 1, Role: internal.RoleAdmin, IsActive: true},
			2: {ID: 2, Role: internal.RoleStaff, StaffCode: "STF001", IsActive: true},
			3: {ID: 3, Role: internal.RoleStaff, StaffCode: "STF002", IsActive: true},
			4: {ID: 4, Role: internal.RoleStaff, StaffCode: "STF003", IsActive: false},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = advance.NewService(repo, staffLookup, publisher, logger)
		ctx = context.Background()
		admin = &internal.User{ID: 1, Role: internal.RoleAdmin}
		staff = &internal.User{ID: 2, Role: internal.RoleStaff}
	})

	create := func(staffID int64, amount string) *advance.Advance {
		a, err := service.Create(ctx, advance.CreateAdvanceDTO{
			StaffID: staffID,
			Amount:  decimal.RequireFromString(amount),
			Date:    date("2024-01-10"),
		})
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	Describe("Create", func() {
		It("stores a pending advance rounded to cents", func() {
			a := create(2, "1000.005")
			Expect(a.ID).To(BeNumerically(">", 0))
			Expect(a.Amount.StringFixed(2)).To(Equal("1000.01"))
			Expect(a.Status).To(Equal(advance.StatusActive))
			Expect(a.SettlementStatus).To(Equal(advance.SettlementPending))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Create(ctx, advance.CreateAdvanceDTO{StaffID: 2, Amount: decimal.Zero, Date: date("2024-01-10")})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(validation.HasCode(appErr, internal.ErrCodeInvalidAmount)).To(BeTrue())
		})

		It("rejects a date in the future", func() {
			future := datetime.NewDate(time.Now().AddDate(0, 0, 5))
			_, err := service.Create(ctx, advance.CreateAdvanceDTO{StaffID: 2, Amount: decimal.NewFromInt(10), Date: future})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(validation.HasCode(appErr, internal.ErrCodeInvalidDate)).To(BeTrue())
		})

		DescribeTable("rejects recipients that are not active staff",
			func(staffID int64) {
				_, err := service.Create(ctx, advance.CreateAdvanceDTO{StaffID: staffID, Amount: decimal.NewFromInt(10), Date: date("2024-01-10")})
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(validation.HasCode(appErr, internal.ErrCodeInvalidStaff)).To(BeTrue())
			},
			Entry("admin", int64(1)),
			Entry("inactive staff", int64(4)),
			Entry("unknown user", int64(99)),
		)
	})

	Describe("List and Get", func() {
		BeforeEach(func() {
			create(2, "100")
			create(3, "200")
		})

		It("restricts staff to their own advances", func() {
			other := int64(3)
			advances, err := service.List(ctx, staff, query.Filter{OwnerID: &other})
			Expect(err).NotTo(HaveOccurred())
			Expect(advances).To(HaveLen(1))
			Expect(advances[0].StaffID).To(Equal(int64(2)))
			Expect(repo.lastFilter.Limit).To(Equal(query.DefaultLimit))
		})

		It("lets admins see every advance", func() {
			advances, err := service.List(ctx, admin, query.Filter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(advances).To(HaveLen(2))
		})

		It("forbids staff from reading another member's advance", func() {
			_, err := service.Get(ctx, staff, 2)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})

		It("returns not found for a missing advance", func() {
			_, err := service.Get(ctx, admin, 42)
			Expect(err).To(MatchError(internal.ErrAdvanceNotFound))
		})
	})

	Describe("Update", func() {
		It("applies a partial update", func() {
			a := create(2, "100")
			desc := "fuel float"
			updated, err := service.Update(ctx, a.ID, advance.UpdateAdvanceDTO{Description: &desc})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(Equal(desc))
			Expect(updated.Amount.Equal(decimal.NewFromInt(100))).To(BeTrue())
		})

		It("refuses to move an advance with linked expenses", func() {
			a := create(2, "100")
			repo.linked[a.ID] = 1
			to := int64(3)
			_, err := service.Update(ctx, a.ID, advance.UpdateAdvanceDTO{StaffID: &to})
			Expect(err).To(MatchError(internal.ErrAdvanceInUse))
		})

		It("freezes the amount once settled", func() {
			a := create(2, "100")
			_, err := service.Settle(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())

			amount := decimal.NewFromInt(5)
			_, err = service.Update(ctx, a.ID, advance.UpdateAdvanceDTO{Amount: &amount})
			Expect(err).To(MatchError(internal.ErrAdvanceSettled))

			desc := "still editable"
			_, err = service.Update(ctx, a.ID, advance.UpdateAdvanceDTO{Description: &desc})
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("deletes an unreferenced advance", func() {
			a := create(2, "100")
			Expect(service.Delete(ctx, a.ID)).To(Succeed())
			_, err := service.Get(ctx, admin, a.ID)
			Expect(err).To(MatchError(internal.ErrAdvanceNotFound))
		})

		It("refuses when expenses link to it", func() {
			a := create(2, "100")
			repo.linked[a.ID] = 2
			Expect(service.Delete(ctx, a.ID)).To(MatchError(internal.ErrAdvanceInUse))
		})
	})

	Describe("Settle", func() {
		It("settles once and publishes a single event", func() {
			a := create(2, "100")

			first, err := service.Settle(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.IsSettled()).To(BeTrue())
			Expect(first.SettledAt).NotTo(BeNil())

			second, err := service.Settle(ctx, a.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.SettledAt).To(Equal(first.SettledAt))

			Expect(repo.markCalls).To(Equal(1))
			Expect(publisher.published).To(HaveLen(1))
			Expect(publisher.published[0].EventType()).To(Equal(events.EventTypeAdvanceSettled))
		})
	})
})
