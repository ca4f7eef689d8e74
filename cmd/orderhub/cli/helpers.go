package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/orderhub/orderhub/internal/auth"
	"github.com/orderhub/orderhub/internal/config"
	"github.com/orderhub/orderhub/internal/store"
)

// loadConfig builds the effective configuration: file values (already read
// into viper), overridden by ORDERHUB_* environment variables, overridden by
// flags bound to viper keys.
func loadConfig() *config.YAMLConfig {
	cfg := config.DefaultYAMLConfig()

	if v := viper.GetString("server.host"); v != "" {
		cfg.Server.Host = v
	}
	if v := viper.GetInt("server.port"); v != 0 {
		cfg.Server.Port = v
	}
	if v := viper.GetString("server.base_url"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := viper.GetString("server.shutdown_timeout"); v != "" {
		cfg.Server.ShutdownTimeout = v
	}
	if viper.IsSet("server.requests_per_minute") {
		cfg.Server.RequestsPerMinute = viper.GetInt("server.requests_per_minute")
	}
	if v := viper.GetStringSlice("server.cors.origins"); len(v) > 0 {
		cfg.Server.CORS.Origins = v
	}

	if v := viper.GetString("database.driver"); v != "" {
		cfg.Database.Driver = v
	}
	cfg.Database.DSN = viper.GetString("database.dsn")
	if v := viper.GetString("database.data_dir"); v != "" {
		cfg.Database.DataDir = v
	}

	// The default config file references the secret as ${ORDERHUB_AUTH_JWT_SECRET}.
	cfg.Auth.JWTSecret = os.ExpandEnv(viper.GetString("auth.jwt_secret"))
	if v := viper.GetString("auth.issuer"); v != "" {
		cfg.Auth.Issuer = v
	}
	if v := viper.GetString("auth.audience"); v != "" {
		cfg.Auth.Audience = v
	}
	cfg.Auth.RoleClaim = viper.GetString("auth.role_claim")
	cfg.Auth.RequireExpiry = viper.GetBool("auth.require_expiry")

	cfg.MCP.Enabled = viper.GetBool("mcp.enabled")
	cfg.MCP.Token = viper.GetString("mcp.token")

	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}

	return cfg
}

// newLogger builds the process logger from the logging config.
func newLogger(cfg *config.YAMLConfig, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore opens the configured database. SQLite with no DSN becomes a
// file under the data directory.
func openStore(cfg *config.YAMLConfig) (*store.Store, error) {
	if cfg.Database.Driver == store.DriverSQLite && cfg.Database.DSN == "" {
		dataDir := cfg.Database.DataDir
		if dataDir == "" {
			home, _ := os.UserHomeDir()
			dataDir = home + "/.orderhub"
		}
		return store.OpenSQLiteFile(dataDir)
	}
	return store.Open(cfg.Database.Driver, cfg.Database.DSN)
}

// newValidator builds the credential validator from the auth config.
func newValidator(cfg *config.YAMLConfig) (*auth.Validator, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required (set ORDERHUB_AUTH_JWT_SECRET or the config file)")
	}
	return auth.NewValidator(auth.Config{
		Secret:        cfg.Auth.JWTSecret,
		Issuer:        cfg.Auth.Issuer,
		Audience:      cfg.Auth.Audience,
		RoleClaim:     cfg.Auth.RoleClaim,
		RequireExpiry: cfg.Auth.RequireExpiry,
	})
}
