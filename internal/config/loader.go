package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rpattn/portaldata/internal/db"
	"github.com/rpattn/portaldata/internal/domain"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	Server   ServerConfig
	Database db.Config
	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool
	Storage        StorageConfig
	Log            LogConfig
	Paging         PagingConfig
	TracingEnabled bool
	MetricsEnabled bool
	// File is the config file that was read, empty when only defaults and env applied.
	File string
}

type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

type StorageConfig struct {
	Driver   string
	SeedFile string
}

type LogConfig struct {
	Mode  string
	Level string
}

type PagingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func setDefaults(v *viper.Viper) {
	dbDefaults := db.DefaultConfig()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("database.host", dbDefaults.Host)
	v.SetDefault("database.port", dbDefaults.Port)
	v.SetDefault("database.user", dbDefaults.User)
	v.SetDefault("database.password", dbDefaults.Password)
	v.SetDefault("database.dbname", dbDefaults.DBName)
	v.SetDefault("database.sslmode", dbDefaults.SSLMode)
	v.SetDefault("database.max_conns", 5)
	v.SetDefault("database.migrate_on_start", false)
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.seed_file", "")
	v.SetDefault("log.mode", "production")
	v.SetDefault("log.level", "info")
	v.SetDefault("paging.default_page_size", domain.DefaultPageSize)
	v.SetDefault("paging.max_page_size", domain.DefaultPageSize)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("metrics.enabled", true)
}

// Load reads config.yaml from configPath when present and applies PORTAL_*
// environment overrides, e.g. PORTAL_DATABASE_HOST.
func Load(configPath string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix("PORTAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // allow environment overrides

	file := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		file = v.ConfigFileUsed()
	}

	cfg := Config{
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			CORSOrigins: v.GetStringSlice("server.cors_origins"),
		},
		Database: db.Config{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
			MaxConns: v.GetInt32("database.max_conns"),
		},
		MigrateOnStart: v.GetBool("database.migrate_on_start"),
		Storage: StorageConfig{
			Driver:   strings.ToLower(v.GetString("storage.driver")),
			SeedFile: v.GetString("storage.seed_file"),
		},
		Log: LogConfig{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
		},
		Paging: PagingConfig{
			DefaultPageSize: v.GetInt("paging.default_page_size"),
			MaxPageSize:     v.GetInt("paging.max_page_size"),
		},
		TracingEnabled: v.GetBool("tracing.enabled"),
		MetricsEnabled: v.GetBool("metrics.enabled"),
		File:           file,
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
	case DriverMemory:
		if c.Storage.SeedFile == "" {
			return errors.New("storage.seed_file is required for the memory driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Paging.DefaultPageSize < 1 || c.Paging.MaxPageSize < 1 {
		return errors.New("paging sizes must be at least 1")
	}
	if c.Paging.DefaultPageSize > c.Paging.MaxPageSize {
		return fmt.Errorf("paging.default_page_size %d exceeds paging.max_page_size %d", c.Paging.DefaultPageSize, c.Paging.MaxPageSize)
	}
	return nil
}
