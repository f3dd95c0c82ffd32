package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL      string
	TescoDatabaseURL string
	DBPoolSize       int
	MigrateOnStart   bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	WarmInterval  time.Duration // 0 disables the dashboard warm-up job

	HTTPAddr      string
	SessionSecret string
	SessionDir    string
	SessionMaxAge time.Duration
	AdminRoles    []string

	Location  *time.Location
	LogLevel  string
	Env       string // dev|prod
	SentryDSN string
	Release   string
}

const devSessionSecret = "lms-secret-key-change-in-production"

func Load() (*Config, error) {
	tz := getenv("TZ", "Asia/Bangkok")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	dbURL := mustEnv("DATABASE_URL")

	poolSize, err := getInt("DB_POOL_SIZE", 10)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	ttl, err := getDuration("CACHE_TTL", 300*time.Second)
	if err != nil {
		return nil, err
	}
	warm, err := getDuration("DASHBOARD_WARM_INTERVAL", 4*time.Minute)
	if err != nil {
		return nil, err
	}
	maxAge, err := getDuration("SESSION_MAX_AGE", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	migrate, err := strconv.ParseBool(getenv("MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("MIGRATE_ON_START: %w", err)
	}

	cfg := &Config{
		DatabaseURL:      dbURL,
		TescoDatabaseURL: getenv("TESCO_DATABASE_URL", dbURL),
		DBPoolSize:       poolSize,
		MigrateOnStart:   migrate,
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		CacheTTL:         ttl,
		WarmInterval:     warm,
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		SessionSecret:    getenv("SESSION_SECRET", devSessionSecret),
		SessionDir:       getenv("SESSION_DIR", os.TempDir()),
		SessionMaxAge:    maxAge,
		AdminRoles:       parseList(getenv("ADMIN_ROLES", "Student,Manager,Employee")),
		Location:         loc,
		LogLevel:         getenv("LOG_LEVEL", "info"),
		Env:              getenv("ENV", "dev"),
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		Release:          os.Getenv("RELEASE"),
	}
	if cfg.IsProd() && cfg.SessionSecret == devSessionSecret {
		return nil, fmt.Errorf("SESSION_SECRET must be set in prod")
	}
	return cfg, nil
}

func (c *Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

// getDuration accepts Go durations ("5m") or plain seconds ("300").
func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func parseList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
