// shared/config.go
package shared

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	DefaultPort              = "8080"
	DefaultAllowedOrigins    = "*"
	DefaultAllowedVideoHosts = "*"
	DefaultRateLimitRPM      = 300
	DefaultTempDirName       = "temp"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// Config holds process-wide settings. It is resolved once at startup and
// treated as read-only afterwards.
type Config struct {
	Port string
	// Serverless is set when running on a hosted function platform (VERCEL env).
	// It changes where the temp dir and the bundled yt-dlp binary live.
	Serverless bool
	TempDir    string
	YtDlpPath  string
	// Redis (optional). If RedisAddr is empty, the rate limiter stays in-memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Rate limiting (requests per minute per IP); 0 disables it.
	RateLimitRPM int
	// CORS and URL validation
	AllowedOrigins    []string
	AllowedVideoHosts []string
	// TrustedProxies limits which peers may set X-Forwarded-For/X-Real-IP.
	// Empty trusts every peer.
	TrustedProxies    []string
	CoalesceRequests  bool
	LogLevel          string
	LogFormat         string
}

// LoadConfig loads configuration from environment variables or uses defaults
func LoadConfig() *Config {
	serverless := strings.TrimSpace(os.Getenv("VERCEL")) != ""

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			redisDB = n
		} else {
			slog.Warn("REDIS_DB invalid, using 0", "value", v)
		}
	}

	rateLimit := DefaultRateLimitRPM
	if v := os.Getenv("RATE_LIMIT_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			rateLimit = n
		} else {
			slog.Warn("RATE_LIMIT_RPM invalid, using default", "value", v, "default", DefaultRateLimitRPM)
		}
	}

	coalesce := true
	if v := os.Getenv("COALESCE_REQUESTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			coalesce = b
		}
	}

	return &Config{
		Port:              valueOrDefault(os.Getenv("PORT"), DefaultPort),
		Serverless:        serverless,
		TempDir:           resolveTempDir(os.Getenv("TEMP_DIR"), serverless),
		YtDlpPath:         strings.TrimSpace(os.Getenv("YTDLP_PATH")),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		RateLimitRPM:      rateLimit,
		AllowedOrigins:    splitAndClean(valueOrDefault(os.Getenv("ALLOWED_ORIGINS"), DefaultAllowedOrigins)),
		AllowedVideoHosts: splitAndClean(valueOrDefault(os.Getenv("ALLOWED_VIDEO_HOSTS"), DefaultAllowedVideoHosts)),
		TrustedProxies:    splitAndClean(os.Getenv("TRUSTED_PROXIES")),
		CoalesceRequests:  coalesce,
		LogLevel:          valueOrDefault(os.Getenv("LOG_LEVEL"), DefaultLogLevel),
		LogFormat:         valueOrDefault(os.Getenv("LOG_FORMAT"), DefaultLogFormat),
	}
}

// resolveTempDir picks the scratch directory for cookie and subtitle files.
func resolveTempDir(override string, serverless bool) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if serverless {
		return os.TempDir()
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(os.TempDir(), DefaultTempDirName)
	}
	return filepath.Join(cwd, DefaultTempDirName)
}

// EnsureTempDir creates the temp dir if it is missing.
func (c *Config) EnsureTempDir() error {
	return os.MkdirAll(c.TempDir, 0o755)
}

// HostAllowed reports whether host (or a parent domain of it) is in the
// allowlist. A "*" entry allows everything.
func (c *Config) HostAllowed(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	for _, allowed := range c.AllowedVideoHosts {
		allowed = strings.ToLower(allowed)
		if allowed == "*" || host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// valueOrDefault returns fallback if s is empty
func valueOrDefault(s string, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// splitAndClean splits a comma-separated list and trims spaces; empty entries are removed
func splitAndClean(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return []string{}
	}
	parts := strings.Split(csv, ",")
	var out []string
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
