package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port string

	// Record store
	RecordStore    string
	SQLiteDBPath   string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	// Optional cashier directory
	UserServiceURL string

	ReportTimezone string
	LogLevel       string
}

func Load() Config {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil || redisDB < 0 {
		redisDB = 0
	}

	return Config{
		Port:           getEnv("PORT", "8081"),
		RecordStore:    strings.ToLower(getEnv("RECORD_STORE", "memory")),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/records.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        redisDB,
		RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "pos:"),
		UserServiceURL: strings.TrimSpace(os.Getenv("USER_SERVICE_URL")),
		ReportTimezone: strings.TrimSpace(os.Getenv("REPORT_TIMEZONE")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

// Validate returns every problem found, joined into one error.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.RecordStore {
	case "memory":
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH is required when RECORD_STORE=sqlite")
		}
	case "redis":
		if c.RedisAddr == "" {
			problems = append(problems, "REDIS_ADDR is required when RECORD_STORE=redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid RECORD_STORE '%s': must be memory, sqlite or redis", c.RecordStore))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := c.Level(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Location is the zone report periods are resolved in. Empty means the
// process local zone.
func (c Config) Location() (*time.Location, error) {
	if c.ReportTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TIMEZONE '%s': %v", c.ReportTimezone, err)
	}
	return loc, nil
}

func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid LOG_LEVEL '%s': %v", c.LogLevel, err)
	}
	return level, nil
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
