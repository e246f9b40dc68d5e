package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// DBDriver selects the appraisal database: "sqlite3" (default) or "pgx".
	DBDriver string
	DBDSN    string

	// ComparablesConfigPath optionally overlays band lists and weights from a
	// JSON file.
	ComparablesConfigPath string

	Redis RedisConfig
}

// RedisConfig holds the shared result cache settings. An empty URL keeps the
// cache in-process.
type RedisConfig struct {
	URL          string
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TAXPROTEST_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	driver := os.Getenv("TAXPROTEST_DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := os.Getenv("TAXPROTEST_DB_DSN")
	if dsn == "" {
		dsn = "database.sqlite"
	}

	return Server{
		Addr:                  addr,
		DBDriver:              driver,
		DBDSN:                 dsn,
		ComparablesConfigPath: os.Getenv("TAXPROTEST_COMPARABLES_CONFIG"),
		Redis: RedisConfig{
			URL:          os.Getenv("TAXPROTEST_REDIS_URL"),
			TTL:          durationEnv("TAXPROTEST_REDIS_TTL", 15*time.Minute),
			PoolSize:     intEnv("TAXPROTEST_REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("TAXPROTEST_REDIS_MIN_IDLE", 2),
			DialTimeout:  durationEnv("TAXPROTEST_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("TAXPROTEST_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("TAXPROTEST_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func durationEnv(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func intEnv(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
