package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/expense-ledger/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "expense-ledger",
	Short: "Expense Ledger",
	Long:  `Tracks staff cash advances, expenses, collections and transport payments.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		cfg := internal.LoadConfigFromEnv()
		cfg.ApplyPortOverride()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.ApplyPortOverride()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return &cfg, nil
}

// setDefaults mirrors LoadConfigFromEnv for keys a config file may leave out.
// Registering a key is also what lets its ENV_ variable override it.
func setDefaults(v *viper.Viper) {
	d := internal.LoadConfigFromEnv()

	v.SetDefault("http_server.port", d.Server.Port)
	v.SetDefault("http_server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("http_server.openapi_path", d.Server.OpenAPIPath)
	v.SetDefault("http_server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("http_server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("http_server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("http_server.write_timeout", d.Server.WriteTimeout)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", d.Database.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", d.Database.ConnMaxIdleTime)
	v.SetDefault("database.migrations_dir", d.Database.MigrationsDir)
	v.SetDefault("database.source", d.Database.Source)

	v.SetDefault("security.access_token_secret", d.Security.AccessTokenSecret)
	v.SetDefault("security.refresh_token_secret", d.Security.RefreshTokenSecret)
	v.SetDefault("security.access_token_duration", d.Security.AccessTokenDuration)
	v.SetDefault("security.refresh_token_duration", d.Security.RefreshTokenDuration)
	v.SetDefault("security.bcrypt_cost", d.Security.BCryptCost)
	v.SetDefault("security.session_sweep_schedule", d.Security.SessionSweepSchedule)

	v.SetDefault("storage.attachment_dir", d.Storage.AttachmentDir)
	v.SetDefault("storage.public_base_url", d.Storage.PublicBaseURL)
	v.SetDefault("storage.max_upload_bytes", d.Storage.MaxUploadBytes)

	v.SetDefault("seed.on_startup", d.Seed.OnStartup)
	v.SetDefault("seed.default_password", d.Seed.DefaultPassword)

	v.SetDefault("observability.logging.level", d.Observability.Logging.Level)
	v.SetDefault("observability.logging.format", d.Observability.Logging.Format)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}
