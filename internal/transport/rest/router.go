package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expense-ledger/internal/adminexpense"
	"github.com/frahmantamala/expense-ledger/internal/advance"
	"github.com/frahmantamala/expense-ledger/internal/attachment"
	"github.com/frahmantamala/expense-ledger/internal/auth"
	"github.com/frahmantamala/expense-ledger/internal/balance"
	"github.com/frahmantamala/expense-ledger/internal/category"
	"github.com/frahmantamala/expense-ledger/internal/collection"
	"github.com/frahmantamala/expense-ledger/internal/expense"
	"github.com/frahmantamala/expense-ledger/internal/transport/middleware"
	"github.com/frahmantamala/expense-ledger/internal/transport/swagger"
	"github.com/frahmantamala/expense-ledger/internal/transportpayment"
	"github.com/frahmantamala/expense-ledger/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the per-domain HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth             *auth.Handler
	User             *user.Handler
	Category         *category.Handler
	Advance          *advance.Handler
	Expense          *expense.Handler
	AdminExpense     *adminexpense.Handler
	Collection       *collection.Handler
	TransportPayment *transportpayment.Handler
	Balance          *balance.Handler
	Attachment       *attachment.Handler
}

type RouterConfig struct {
	DB             *sql.DB
	Driver         string
	AllowedOrigins string
	OpenAPIPath    string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router chi.Router, cfg RouterConfig, h Handlers) {
	healthHandler := NewHealthHandler(cfg.DB, cfg.Driver)
	requireAdmin := middleware.RequireAdmin(cfg.Logger)

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.LoggingMiddleware(cfg.Logger))

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Get("/categories", h.Category.GetCategories)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			pr.Get("/users/me", h.User.GetCurrentUser)
			pr.Group(func(ad chi.Router) {
				ad.Use(requireAdmin)
				ad.Get("/users", h.User.ListUsers)
				ad.Get("/users/{id}", h.User.GetUser)
				ad.Patch("/users/{id}", h.User.UpdateUser)
				ad.Delete("/users/{id}", h.User.DeactivateUser)

				ad.Post("/categories", h.Category.CreateCategory)
				ad.Delete("/categories/{id}", h.Category.DeactivateCategory)
			})

			pr.Route("/advances", func(ar chi.Router) {
				ar.Get("/", h.Advance.ListAdvances)
				ar.Get("/{id}", h.Advance.GetAdvance)

				ar.Group(func(ad chi.Router) {
					ad.Use(requireAdmin)
					ad.Post("/", h.Advance.CreateAdvance)
					ad.Patch("/{id}", h.Advance.UpdateAdvance)
					ad.Delete("/{id}", h.Advance.DeleteAdvance)
					ad.Patch("/{id}/settle", h.Advance.SettleAdvance)
				})
			})

			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", h.Expense.CreateExpense)
				er.Get("/", h.Expense.ListExpenses)
				er.Get("/{id}", h.Expense.GetExpense)
				er.Patch("/{id}", h.Expense.UpdateExpense)
				er.Delete("/{id}", h.Expense.DeleteExpense)
				er.Patch("/{id}/submit", h.Expense.SubmitExpense)

				er.With(requireAdmin).Patch("/{id}/settle", h.Expense.SettleExpense)
			})

			pr.Route("/admin-expenses", func(ar chi.Router) {
				ar.Use(requireAdmin)
				ar.Post("/", h.AdminExpense.CreateAdminExpense)
				ar.Get("/", h.AdminExpense.ListAdminExpenses)
				ar.Get("/{id}", h.AdminExpense.GetAdminExpense)
				ar.Patch("/{id}", h.AdminExpense.UpdateAdminExpense)
				ar.Delete("/{id}", h.AdminExpense.DeleteAdminExpense)
			})

			pr.Route("/collections", func(cr chi.Router) {
				cr.Use(requireAdmin)
				cr.Post("/", h.Collection.CreateCollection)
				cr.Get("/", h.Collection.ListCollections)
				cr.Get("/{id}", h.Collection.GetCollection)
				cr.Patch("/{id}", h.Collection.UpdateCollection)
				cr.Delete("/{id}", h.Collection.DeleteCollection)
			})

			pr.Route("/transport-payments", func(tr chi.Router) {
				tr.Post("/", h.TransportPayment.CreateTransportPayment)
				tr.Get("/", h.TransportPayment.ListTransportPayments)
				tr.Get("/{id}", h.TransportPayment.GetTransportPayment)
				tr.Patch("/{id}", h.TransportPayment.UpdateTransportPayment)
				tr.Delete("/{id}", h.TransportPayment.DeleteTransportPayment)
			})

			pr.Route("/balances", func(br chi.Router) {
				br.With(requireAdmin).Get("/", h.Balance.GetOverview)
				br.Get("/{staffID}", h.Balance.GetStaffBalance)
			})

			pr.Route("/attachments", func(at chi.Router) {
				at.Post("/", h.Attachment.Upload)
				at.Get("/{key}", h.Attachment.Download)
			})
		})
	})
}
