package envconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"MEDEX_ADDR", "MEDEX_LOG_LEVEL", "MEDEX_PARALLELISM", "MEDEX_RATE_LIMIT_RPS", "MEDEX_RATE_LIMIT_BURST", "MEDEX_DB"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, ":8080", ServerAddr())
	assert.Empty(t, LogLevel())
	assert.Equal(t, 1, Parallelism())
	assert.Equal(t, 10.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
	assert.Empty(t, DatabasePath())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("MEDEX_PARALLELISM", "-3")
	t.Setenv("MEDEX_RATE_LIMIT_RPS", "fast")
	t.Setenv("MEDEX_RATE_LIMIT_BURST", "0")

	assert.Equal(t, 1, Parallelism())
	assert.Equal(t, 10.0, RateLimitRPS())
	assert.Equal(t, 20, RateLimitBurst())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MEDEX_ADDR=:9999\nMEDEX_PARALLELISM=4\n"), 0644))

	t.Setenv("MEDEX_ENV", path)
	t.Setenv("MEDEX_ADDR", "")
	t.Setenv("MEDEX_PARALLELISM", "")
	// t.Setenv restores the originals; godotenv only fills unset variables
	os.Unsetenv("MEDEX_ADDR")
	os.Unsetenv("MEDEX_PARALLELISM")

	require.NoError(t, Load())
	assert.Equal(t, ":9999", ServerAddr())
	assert.Equal(t, 4, Parallelism())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("MEDEX_ENV", filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, Load())
}
