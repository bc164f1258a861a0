package middleware_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/transport/middleware"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func withUser(r *http.Request, role string) *http.Request {
	return r.WithContext(internal.ContextWithUser(r.Context(), &internal.User{ID: 1, Role: role}))
}

var _ = Describe("Middleware", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	Describe("RequireAdmin", func() {
		DescribeTable("gates on the session role",
			func(role string, expected int) {
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				if role != "" {
					req = withUser(req, role)
				}
				rec := httptest.NewRecorder()
				middleware.RequireAdmin(logger)(ok).ServeHTTP(rec, req)
				Expect(rec.Code).To(Equal(expected))
			},
			Entry("admin passes", internal.RoleAdmin, http.StatusOK),
			Entry("staff is forbidden", internal.RoleStaff, http.StatusForbidden),
			Entry("anonymous is unauthorized", "", http.StatusUnauthorized),
		)
	})

	Describe("CORS", func() {
		It("answers preflight requests without calling the handler", func() {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })
			req := httptest.NewRequest(http.MethodOptions, "/", nil)
			req.Header.Set("Origin", "https://ledger.example.com")
			rec := httptest.NewRecorder()

			middleware.CORS("https://ledger.example.com")(next).ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://ledger.example.com"))
			Expect(called).To(BeFalse())
		})

		It("does not echo unknown origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", "https://evil.example.com")
			rec := httptest.NewRecorder()

			middleware.CORS("https://ledger.example.com")(ok).ServeHTTP(rec, req)
			Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		})
	})

	Describe("RecoveryMiddleware", func() {
		It("turns a panic into a 500 error body", func() {
			boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
			rec := httptest.NewRecorder()

			middleware.RecoveryMiddleware(logger)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		})
	})

	Describe("RequestID", func() {
		It("keeps a client supplied trace id", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.TraceHeader, "trace-123")
			rec := httptest.NewRecorder()

			middleware.RequestID(ok).ServeHTTP(rec, req)
			Expect(rec.Header().Get(middleware.TraceHeader)).To(Equal("trace-123"))
		})

		It("generates one when absent", func() {
			rec := httptest.NewRecorder()
			middleware.RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(rec.Header().Get(middleware.TraceHeader)).NotTo(BeEmpty())
		})
	})

	Describe("LoggingMiddleware", func() {
		It("masks passwords and leaves the body readable downstream", func() {
			var out strings.Builder
			lg := slog.New(slog.NewTextHandler(&out, nil))
			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				data, _ := io.ReadAll(r.Body)
				seen = string(data)
				w.WriteHeader(http.StatusOK)
			})

			body := `{"email":"staff1@company.com","password":"hunter2"}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			middleware.LoggingMiddleware(lg)(next).ServeHTTP(httptest.NewRecorder(), req)

			Expect(seen).To(Equal(body))
			Expect(out.String()).NotTo(ContainSubstring("hunter2"))
			Expect(out.String()).To(ContainSubstring("[FILTERED]"))
		})
	})
})
