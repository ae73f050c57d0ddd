package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage drivers accepted by ROOMBOOK_STORAGE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// DefaultEnvFile is read when ROOMBOOK_ENV_FILE is unset.
const DefaultEnvFile = ".env"

// Config captures environment driven configuration values for the booking client.
type Config struct {
	HTTPPort      int
	StorageDriver string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	DirectoryPath string
	RoomsPath     string
	LogLevel      string
	CORSOrigins   []string
}

// Load reads the optional .env file and then parses configuration values from
// the process environment. Variables already set in the environment win over
// the file.
func Load() (Config, error) {
	envFile := strings.TrimSpace(os.Getenv("ROOMBOOK_ENV_FILE"))
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv parses configuration values from the current process environment.
//
// Optional fields fall back to defaults. Every malformed or missing value is
// collected so a single error names all of them.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		StorageDriver: DriverSQLite,
		SQLitePath:    "roombook.db",
		RedisPrefix:   "roombook",
		LogLevel:      "info",
		CORSOrigins:   []string{"*"},
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 3)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "ROOMBOOK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.ToLower(strings.TrimSpace(os.Getenv("ROOMBOOK_STORAGE_DRIVER"))); driver != "" {
		switch driver {
		case DriverSQLite, DriverMemory, DriverRedis:
			cfg.StorageDriver = driver
		default:
			invalid = append(invalid, "ROOMBOOK_STORAGE_DRIVER")
		}
	}

	if path := strings.TrimSpace(os.Getenv("ROOMBOOK_SQLITE_PATH")); path != "" {
		cfg.SQLitePath = path
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("ROOMBOOK_REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("ROOMBOOK_REDIS_PASSWORD")
	if cfg.StorageDriver == DriverRedis && cfg.RedisAddr == "" {
		missing = append(missing, "ROOMBOOK_REDIS_ADDR")
	}

	if dbValue := strings.TrimSpace(os.Getenv("ROOMBOOK_REDIS_DB")); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "ROOMBOOK_REDIS_DB")
		} else {
			cfg.RedisDB = db
		}
	}

	if prefix := strings.TrimSpace(os.Getenv("ROOMBOOK_REDIS_PREFIX")); prefix != "" {
		cfg.RedisPrefix = prefix
	}

	cfg.DirectoryPath = strings.TrimSpace(os.Getenv("ROOMBOOK_DIRECTORY_PATH"))
	cfg.RoomsPath = strings.TrimSpace(os.Getenv("ROOMBOOK_ROOMS_PATH"))

	if level := strings.ToLower(strings.TrimSpace(os.Getenv("ROOMBOOK_LOG_LEVEL"))); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "ROOMBOOK_LOG_LEVEL")
		}
	}

	if originsValue := strings.TrimSpace(os.Getenv("ROOMBOOK_CORS_ORIGINS")); originsValue != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(originsValue, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) == 0 {
			invalid = append(invalid, "ROOMBOOK_CORS_ORIGINS")
		} else {
			cfg.CORSOrigins = origins
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables have invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
