package category_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-ledger/internal/category/postgres"
	"github.com/frahmantamala/expense-ledger/internal/testutil"
	"github.com/frahmantamala/expense-ledger/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		service *category.Service
		handler *category.Handler
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = testutil.NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		repo := categoryPostgres.NewCategoryRepository(db)
		service = category.NewService(repo, slogger)
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		_, err = service.EnsureDefaults(context.Background())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(testutil.Close(db)).To(Succeed())
	})

	It("should handle GET /categories request successfully", func() {
		req := httptest.NewRequest(http.MethodGet, "/categories", nil)
		w := httptest.NewRecorder()

		handler.GetCategories(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(len(category.DefaultCategories)))
		for _, cat := range response.Categories {
			Expect(cat.Name).NotTo(BeEmpty())
			Expect(cat.Description).NotTo(BeEmpty())
		}
	})

	It("should reject a duplicate POST /categories with 409", func() {
		body := `{"name":"travel","description":"dup"}`
		req := httptest.NewRequest(http.MethodPost, "/categories", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		handler.CreateCategory(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})
})
