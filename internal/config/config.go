package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Database selects where review progress, decks and logs are kept
type Database struct {
	Driver  string
	DSN     string // Connection string for postgres, file path for sqlite3
	DataDir string
}

// Backup configures the periodic progress snapshot job
type Backup struct {
	Dir   string
	Keep  int
	Every time.Duration
}

// Config represents the configuration for the application
type Config struct {
	Database Database
	Backup   Backup
	LogLevel string
	// Number of options offered per quiz question
	QuizOptions int
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Database: Database{
			Driver:  DriverSQLite,
			DataDir: "data",
		},
		Backup: Backup{
			Dir:   filepath.Join("data", "backups"),
			Keep:  7,
			Every: time.Hour,
		},
		LogLevel:    "info",
		QuizOptions: 4,
	}
}

// Load reads an optional .env file and then the MEDLEARN_* environment variables.
// envFiles defaults to ".env"; a missing file is not an error.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := Default()

	if v := env("MEDLEARN_DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := env("MEDLEARN_DATA_DIR"); v != "" {
		cfg.Database.DataDir = v
		cfg.Backup.Dir = filepath.Join(v, "backups")
	}
	cfg.Database.DSN = env("MEDLEARN_DB_DSN")
	if v := env("MEDLEARN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := env("MEDLEARN_BACKUP_DIR"); v != "" {
		cfg.Backup.Dir = v
	}
	if v := env("MEDLEARN_BACKUP_KEEP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDLEARN_BACKUP_KEEP %q: %w", v, err)
		}
		cfg.Backup.Keep = n
	}
	if v := env("MEDLEARN_BACKUP_EVERY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDLEARN_BACKUP_EVERY %q: %w", v, err)
		}
		cfg.Backup.Every = d
	}
	if v := env("MEDLEARN_QUIZ_OPTIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MEDLEARN_QUIZ_OPTIONS %q: %w", v, err)
		}
		cfg.QuizOptions = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can be used
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.DSN == "" && c.Database.DataDir == "" {
			return errors.New("MEDLEARN_DATA_DIR or MEDLEARN_DB_DSN is required for sqlite3")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("MEDLEARN_DB_DSN is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Backup.Keep < 1 {
		return fmt.Errorf("backup keep must be at least 1, got %d", c.Backup.Keep)
	}
	if c.Backup.Every <= 0 {
		return fmt.Errorf("backup interval must be positive, got %s", c.Backup.Every)
	}
	if c.QuizOptions < 2 {
		return fmt.Errorf("quiz options must be at least 2, got %d", c.QuizOptions)
	}
	return nil
}

// SQLitePath returns the database file used by the sqlite3 driver
func (d Database) SQLitePath() string {
	if d.DSN != "" {
		return d.DSN
	}
	return filepath.Join(d.DataDir, "medlearn.db")
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
