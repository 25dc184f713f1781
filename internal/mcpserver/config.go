package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/oassplit/internal/fileutil"
	"github.com/erraggy/oassplit/merger"
	"github.com/erraggy/oassplit/splitter"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Split tool defaults.
	SplitStrategy splitter.Strategy
	MaxOperations int

	// Merge tool defaults.
	ConflictPolicy merger.Policy

	// IOConcurrency bounds concurrent unit file reads and writes.
	IOConcurrency int

	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Response limits.
	IssueLimit    int
	MaxLimit      int
	MaxInlineSize int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASSPLIT_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		SplitStrategy:      envSplitStrategy("OASSPLIT_SPLIT_STRATEGY", splitter.StrategyByPathPrefix),
		MaxOperations:      envInt("OASSPLIT_MAX_OPERATIONS", 30),
		ConflictPolicy:     envConflictPolicy("OASSPLIT_CONFLICT_POLICY", merger.PolicyKeepFirst),
		IOConcurrency:      envInt("OASSPLIT_IO_CONCURRENCY", fileutil.DefaultLimit()),
		CacheEnabled:       envBool("OASSPLIT_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASSPLIT_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASSPLIT_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("OASSPLIT_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASSPLIT_CACHE_SWEEP_INTERVAL", 60*time.Second),
		IssueLimit:         envInt("OASSPLIT_ISSUE_LIMIT", 100),
		MaxLimit:           envInt("OASSPLIT_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("OASSPLIT_MAX_INLINE_SIZE", 10*1024*1024)),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func envSplitStrategy(key string, fallback splitter.Strategy) splitter.Strategy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	s, err := splitter.ParseStrategy(v)
	if err != nil {
		slog.Warn("invalid strategy env var, using default", "key", key, "value", v, "default", string(fallback))
		return fallback
	}
	return s
}

func envConflictPolicy(key string, fallback merger.Policy) merger.Policy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	p, err := merger.ParsePolicy(v)
	if err != nil {
		slog.Warn("invalid conflict policy env var, using default", "key", key, "value", v, "default", string(fallback))
		return fallback
	}
	return p
}
