package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/erraggy/oassplit/internal/fileutil"
	"github.com/erraggy/oassplit/merger"
	"github.com/erraggy/oassplit/splitter"
)

// clearEnv clears all OASSPLIT_* env vars to isolate tests from the ambient environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASSPLIT_SPLIT_STRATEGY", "OASSPLIT_MAX_OPERATIONS",
		"OASSPLIT_CONFLICT_POLICY", "OASSPLIT_IO_CONCURRENCY",
		"OASSPLIT_CACHE_ENABLED", "OASSPLIT_CACHE_MAX_SIZE",
		"OASSPLIT_CACHE_FILE_TTL", "OASSPLIT_CACHE_CONTENT_TTL",
		"OASSPLIT_CACHE_SWEEP_INTERVAL", "OASSPLIT_ISSUE_LIMIT",
		"OASSPLIT_MAX_LIMIT", "OASSPLIT_MAX_INLINE_SIZE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := loadConfig()

	assert.Equal(t, splitter.StrategyByPathPrefix, c.SplitStrategy)
	assert.Equal(t, 30, c.MaxOperations)
	assert.Equal(t, merger.PolicyKeepFirst, c.ConflictPolicy)
	assert.Equal(t, fileutil.DefaultLimit(), c.IOConcurrency)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, 100, c.IssueLimit)
	assert.Equal(t, 1000, c.MaxLimit)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASSPLIT_SPLIT_STRATEGY", "tags")
	t.Setenv("OASSPLIT_MAX_OPERATIONS", "12")
	t.Setenv("OASSPLIT_CONFLICT_POLICY", "rename")
	t.Setenv("OASSPLIT_IO_CONCURRENCY", "3")
	t.Setenv("OASSPLIT_CACHE_ENABLED", "false")
	t.Setenv("OASSPLIT_CACHE_FILE_TTL", "30m")
	t.Setenv("OASSPLIT_ISSUE_LIMIT", "20")

	c := loadConfig()

	assert.Equal(t, splitter.StrategyByTag, c.SplitStrategy)
	assert.Equal(t, 12, c.MaxOperations)
	assert.Equal(t, merger.PolicyRename, c.ConflictPolicy)
	assert.Equal(t, 3, c.IOConcurrency)
	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 20, c.IssueLimit)
}

func TestLoadConfig_InvalidValues_UseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OASSPLIT_SPLIT_STRATEGY", "random")
	t.Setenv("OASSPLIT_MAX_OPERATIONS", "-5")
	t.Setenv("OASSPLIT_CONFLICT_POLICY", "coinflip")
	t.Setenv("OASSPLIT_IO_CONCURRENCY", "banana")
	t.Setenv("OASSPLIT_CACHE_ENABLED", "maybe")
	t.Setenv("OASSPLIT_CACHE_FILE_TTL", "not-a-duration")
	t.Setenv("OASSPLIT_MAX_LIMIT", "0")

	c := loadConfig()

	assert.Equal(t, splitter.StrategyByPathPrefix, c.SplitStrategy)
	assert.Equal(t, 30, c.MaxOperations)
	assert.Equal(t, merger.PolicyKeepFirst, c.ConflictPolicy)
	assert.Equal(t, fileutil.DefaultLimit(), c.IOConcurrency)
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 1000, c.MaxLimit)
}
