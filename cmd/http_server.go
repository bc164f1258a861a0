package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/frahmantamala/expense-ledger/internal/adminexpense"
	adminexpenseRepo "github.com/frahmantamala/expense-ledger/internal/adminexpense/postgres"
	"github.com/frahmantamala/expense-ledger/internal/advance"
	advanceRepo "github.com/frahmantamala/expense-ledger/internal/advance/postgres"
	"github.com/frahmantamala/expense-ledger/internal/attachment"
	"github.com/frahmantamala/expense-ledger/internal/auth"
	authRepo "github.com/frahmantamala/expense-ledger/internal/auth/postgres"
	"github.com/frahmantamala/expense-ledger/internal/balance"
	balanceRepo "github.com/frahmantamala/expense-ledger/internal/balance/postgres"
	"github.com/frahmantamala/expense-ledger/internal/category"
	categoryRepo "github.com/frahmantamala/expense-ledger/internal/category/postgres"
	"github.com/frahmantamala/expense-ledger/internal/collection"
	collectionRepo "github.com/frahmantamala/expense-ledger/internal/collection/postgres"
	"github.com/frahmantamala/expense-ledger/internal/core/events"
	"github.com/frahmantamala/expense-ledger/internal/expense"
	expenseRepo "github.com/frahmantamala/expense-ledger/internal/expense/postgres"
	"github.com/frahmantamala/expense-ledger/internal/seed"
	"github.com/frahmantamala/expense-ledger/internal/transport"
	"github.com/frahmantamala/expense-ledger/internal/transport/rest"
	"github.com/frahmantamala/expense-ledger/internal/transport/swagger"
	"github.com/frahmantamala/expense-ledger/internal/transportpayment"
	transportpaymentRepo "github.com/frahmantamala/expense-ledger/internal/transportpayment/postgres"
	"github.com/frahmantamala/expense-ledger/internal/user"
	userRepo "github.com/frahmantamala/expense-ledger/internal/user/postgres"
	"github.com/frahmantamala/expense-ledger/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *Database
	Router  *chi.Mux
	Logger  *slog.Logger
	Sweeper *cron.Cron
	Events  *events.EventBus
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.DB.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if d.Sweeper != nil {
		<-d.Sweeper.Stop().Done()
	}
	if d.Events != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.Events.Drain(ctx); err != nil {
			d.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Configure(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if _, err := swagger.LoadSpec(context.Background(), config.Server.OpenAPIPath); err != nil {
		lg.Warn("openapi document not served cleanly", "error", err)
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)
	base := transport.NewBaseHandler(lg)

	users := userRepo.NewUserRepository(db.Gorm)
	categoryService := category.NewService(categoryRepo.NewCategoryRepository(db.Gorm), lg)

	if config.Seed.OnStartup {
		seeder := seed.NewSeeder(users, categoryService, config.Seed.DefaultPassword, config.Security.BCryptCost, lg)
		if seeded, err := seeder.Ensure(context.Background()); err != nil {
			lg.Error("startup seed failed; continuing without demo data", "error", err)
		} else if seeded {
			lg.Info("demo accounts seeded")
		}
	}

	sessions := auth.NewSessionManager(config.Security.RefreshTokenDuration, lg)
	credentials := authRepo.NewRepository(db.Gorm)
	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(credentials, tokens, sessions, config.Security.AccessTokenDuration, lg)
	auth.RegisterSessionEventHandlers(bus, sessions, credentials, lg)

	sweeper, err := auth.StartSessionSweeper(config.Security.SessionSweepSchedule, sessions, lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := attachment.NewDiskStore(config.Storage.AttachmentDir, config.Storage.PublicBaseURL, config.Storage.MaxUploadBytes, lg)
	if err != nil {
		<-sweeper.Stop().Done()
		_ = db.Close()
		return nil, err
	}

	advances := advanceRepo.NewAdvanceRepository(db.Gorm)
	advanceService := advance.NewService(advances, users, bus, lg)
	expenseService := expense.NewService(expenseRepo.NewExpenseRepository(db.Gorm), advances, categoryService, bus, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{
		DB:             db.SQLX.DB,
		Driver:         db.Driver,
		AllowedOrigins: config.Server.AllowedOrigins,
		OpenAPIPath:    config.Server.OpenAPIPath,
		Logger:         lg,
	}, rest.Handlers{
		Auth:             auth.NewHandler(base, authService),
		User:             user.NewHandler(base, user.NewService(users, bus, lg)),
		Category:         category.NewHandler(base, categoryService),
		Advance:          advance.NewHandler(base, advanceService),
		Expense:          expense.NewHandler(base, expenseService),
		AdminExpense:     adminexpense.NewHandler(base, adminexpense.NewService(adminexpenseRepo.NewAdminExpenseRepository(db.Gorm), categoryService, lg)),
		Collection:       collection.NewHandler(base, collection.NewService(collectionRepo.NewCollectionRepository(db.Gorm), users, lg)),
		TransportPayment: transportpayment.NewHandler(base, transportpayment.NewService(transportpaymentRepo.NewTransportPaymentRepository(db.Gorm), lg)),
		Balance:          balance.NewHandler(base, balance.NewService(balanceRepo.NewBalanceRepository(db.SQLX), lg)),
		Attachment:       attachment.NewHandler(base, store),
	})

	return &Dependencies{
		Config:  config,
		DB:      db,
		Router:  router,
		Logger:  lg,
		Sweeper: sweeper,
		Events:  bus,
	}, nil
}
