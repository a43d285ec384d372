package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string
	// SchemaFile is an optional YAML overlay for alias tables and rules.
	SchemaFile  string
	MaxScanRows int
	// RateLimitRPS caps upload requests per second; 0 disables the limiter.
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	port := atoi(getenv("PORT", "8082"), 8082)
	mb := atoi(getenv("MAX_UPLOAD_MB", "64"), 64)
	scan := atoi(getenv("MAX_SCAN_ROWS", "10"), 10)
	burst := atoi(getenv("RATE_LIMIT_BURST", "10"), 10)
	rps, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")), 64)
	if err != nil || rps < 0 {
		rps = 0
	}

	var origins []string
	for _, o := range strings.Split(getenv("ALLOW_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/intake-service.log"),
		SchemaFile:   os.Getenv("SCHEMA_FILE"),
		MaxScanRows:  scan,

		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
