package transportpayment_test

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
	"github.com/frahmantamala/expense-ledger/internal/core/common/datetime"
	"github.com/frahmantamala/expense-ledger/internal/core/common/query"
	"github.com/frahmantamala/expense-ledger/internal/core/common/validation"
	"github.com/frahmantamala/expense-ledger/internal/testutil"
	"github.com/frahmantamala/expense-ledger/internal/transportpayment"
	transportPostgres "github.com/frahmantamala/expense-ledger/internal/transportpayment/postgres"
)

func TestTransportPayment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Payment Suite")
}

var _ = Describe("Transport Payment Service", func() {
	var (
		db      *gorm.DB
		service *transportpayment.Service
		ctx     context.Context
		admin   *internal.User
		staff   *internal.User
		other   *internal.User
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = transportpayment.NewService(transportPostgres.NewTransportPaymentRepository(db), logger)
		ctx = context.Background()
		admin = &internal.User{ID: 1, Role: internal.RoleAdmin}
		staff = &internal.User{ID: 2, Role: internal.RoleStaff}
		other = &internal.User{ID: 3, Role: internal.RoleStaff}
	})

	AfterEach(func() {
		Expect(testutil.Close(db)).To(Succeed())
	})

	dto := func(company string) transportpayment.CreateTransportPaymentDTO {
		d, err := datetime.Parse("2024-07-01")
		Expect(err).NotTo(HaveOccurred())
		return transportpayment.CreateTransportPaymentDTO{Date: d, Company: company, Amount: decimal.NewFromInt(80)}
	}

	DescribeTable("accepts every known company",
		func(company string) {
			p, err := service.Create(ctx, staff, dto(company))
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Company).To(Equal(company))
		},
		Entry("Exh", transportpayment.CompanyExh),
		Entry("Genex", transportpayment.CompanyGenex),
		Entry("IQ", transportpayment.CompanyIQ),
		Entry("Canadian", transportpayment.CompanyCanadian),
		Entry("Others", transportpayment.CompanyOthers),
	)

	It("rejects an unknown company", func() {
		_, err := service.Create(ctx, staff, dto("Acme"))
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(validation.HasCode(appErr, internal.ErrCodeInvalidCompany)).To(BeTrue())
	})

	It("scopes staff to their own payments and lets admins see all", func() {
		mine, err := service.Create(ctx, staff, dto("IQ"))
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(ctx, other, dto("Exh"))
		Expect(err).NotTo(HaveOccurred())

		rows, err := service.List(ctx, staff, query.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
		Expect(rows[0].ID).To(Equal(mine.ID))

		all, err := service.List(ctx, admin, query.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))

		_, err = service.Get(ctx, other, mine.ID)
		Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
	})

	It("updates and deletes the caller's own payment", func() {
		p, err := service.Create(ctx, staff, dto("IQ"))
		Expect(err).NotTo(HaveOccurred())

		company := transportpayment.CompanyGenex
		updated, err := service.Update(ctx, staff, p.ID, transportpayment.UpdateTransportPaymentDTO{Company: &company})
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Company).To(Equal(company))

		Expect(service.Delete(ctx, staff, p.ID)).To(Succeed())
		Expect(service.Delete(ctx, admin, p.ID)).To(MatchError(internal.ErrTransportPaymentNotFound))
	})
})
