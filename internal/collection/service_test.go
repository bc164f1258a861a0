package collection_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/collection"
	collectionPostgres "github.com/frahmantamala/expense-ledger/internal/collection/postgres"
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	"github.com/frahmantamala/expense-ledger/internal/testutil"
	"github.com/frahmantamala/expense-ledger/internal/user"
	userPostgres "github.com/frahmantamala/expense-ledger/internal/user/postgres"
)

func TestCollection(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collection Suite")
}

var _ = Describe("Collection Service", func() {
	var (
		db      *gorm.DB
		service *collection.Service
		ctx     context.Context
		adminID int64
		staffID int64
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()

		users := userPostgres.NewUserRepository(db)
		admin := &user.User{Email: "admin@company.com", FullName: "Admin", Role: internal.RoleAdmin, PasswordHash: "x", IsActive: true}
		staff := &user.User{Email: "staff1@company.com", FullName: "Staff One", Role: internal.RoleStaff, StaffCode: "STF001", PasswordHash: "x", IsActive: true}
		Expect(users.Create(ctx, admin)).To(Succeed())
		Expect(users.Create(ctx, staff)).To(Succeed())
		adminID, staffID = admin.ID, staff.ID

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = collection.NewService(collectionPostgres.NewCollectionRepository(db), users, logger)
	})

	AfterEach(func() {
		Expect(testutil.Close(db)).To(Succeed())
	})

	dto := func(staff int64, day string, amount int64) collection.CreateCollectionDTO {
		d, err := datetime.Parse(day)
		Expect(err).NotTo(HaveOccurred())
		return collection.CreateCollectionDTO{StaffID: staff, Date: d, Amount: decimal.NewFromInt(amount)}
	}

	It("records a collection from a staff member", func() {
		c, err := service.Create(ctx, dto(staffID, "2024-06-01", 300))
		Expect(err).NotTo(HaveOccurred())
		Expect(c.ID).To(BeNumerically(">", 0))

		rows, err := service.List(ctx, query.Filter{OwnerID: &staffID})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].Amount.IntPart()).To(Equal(int64(300)))
	})

	DescribeTable("rejects invalid input",
		func(staff func() int64, amount int64, code internal.ErrorCode) {
			_, err := service.Create(ctx, dto(staff(), "2024-06-01", amount))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(validation.HasCode(appErr, code)).To(BeTrue())
		},
		Entry("zero amount", func() int64 { return staffID }, int64(0), internal.ErrCodeInvalidAmount),
		Entry("admin as staff", func() int64 { return adminID }, int64(10), internal.ErrCodeInvalidStaff),
		Entry("unknown staff", func() int64 { return 999 }, int64(10), internal.ErrCodeInvalidStaff),
	)

	It("updates and deletes", func() {
		c, err := service.Create(ctx, dto(staffID, "2024-06-01", 300))
		Expect(err).NotTo(HaveOccurred())

		amount := decimal.NewFromInt(150)
		updated, err := service.Update(ctx, c.ID, collection.UpdateCollectionDTO{Amount: &amount})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Amount.IntPart()).To(Equal(int64(150)))

		Expect(service.Delete(ctx, c.ID)).To(Succeed())
		_, err = service.Get(ctx, c.ID)
		Expect(err).To(MatchError(internal.ErrCollectionNotFound))
	})

	It("fails update and delete on a missing id", func() {
		amount := decimal.NewFromInt(1)
		_, err := service.Update(ctx, 404, collection.UpdateCollectionDTO{Amount: &amount})
		Expect(err).To(MatchError(internal.ErrCollectionNotFound))
		Expect(service.Delete(ctx, 404)).To(MatchError(internal.ErrCollectionNotFound))
	})
})
