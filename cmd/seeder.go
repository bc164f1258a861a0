package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/frahmantamala/expense-ledger/internal/category"
	categoryRepo "github.com/frahmantamala/expense-ledger/internal/category/postgres"
	"github.com/frahmantamala/expense-ledger/internal/seed"
	userRepo "github.com/frahmantamala/expense-ledger/internal/user/postgres"
	"github.com/frahmantamala/expense-ledger/pkg/logger"
	"github.com/spf13/cobra"
)

var forceSeed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the demo admin and staff accounts",
	Long: `Install the demo admin, five staff accounts and the default categories.
Accounts are only created into an empty user table unless --force is given,
which deletes the demo accounts by email and recreates them.`,
	Run: func(cmd *cobra.Command, args []string) {
		seeder, closeDB := openSeeder()
		defer closeDB()

		ctx := context.Background()
		if forceSeed {
			if err := seeder.Force(ctx); err != nil {
				log.Fatalf("forced seed failed: %v", err)
			}
			fmt.Println("Demo accounts recreated")
			return
		}

		seeded, err := seeder.Ensure(ctx)
		if err != nil {
			log.Fatalf("seed failed: %v", err)
		}
		if seeded {
			fmt.Println("Demo accounts seeded")
		} else {
			fmt.Println("Users already present; accounts left untouched")
		}
	},
}

var seedCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the store holds the expected demo accounts",
	Run: func(cmd *cobra.Command, args []string) {
		seeder, closeDB := openSeeder()
		defer closeDB()

		report, err := seeder.Check(context.Background())
		if err != nil {
			log.Fatalf("seed check failed: %v", err)
		}

		for _, c := range report.Checks {
			mark := "PASS"
			if !c.Passed {
				mark = "FAIL"
			}
			fmt.Printf("[%s] %s: %s\n", mark, c.Name, c.Detail)
		}
		fmt.Printf("admins=%d staff=%d\n", report.Admins, report.Staff)
		if !report.Passed {
			closeDB()
			log.Fatal("seed check did not pass")
		}
	},
}

func openSeeder() (*seed.Seeder, func()) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger.Configure(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database, lg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	categories := category.NewService(categoryRepo.NewCategoryRepository(db.Gorm), lg)
	seeder := seed.NewSeeder(userRepo.NewUserRepository(db.Gorm), categories, cfg.Seed.DefaultPassword, cfg.Security.BCryptCost, lg)

	closed := false
	return seeder, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	}
}

func init() {
	seedCmd.Flags().BoolVar(&forceSeed, "force", false, "Delete and recreate the demo accounts")
	seedCmd.AddCommand(seedCheckCmd)
}
