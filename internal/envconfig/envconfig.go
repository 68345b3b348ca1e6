package envconfig

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by MEDEX_ENV (or .env by default).
// A missing file is not an error; values already in the environment win.
func Load() error {
	envFile := os.Getenv("MEDEX_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	return nil
}

func ServerAddr() string {
	if addr := os.Getenv("MEDEX_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// LogLevel is a zap level name, empty when unset so callers keep their own default.
func LogLevel() string {
	return os.Getenv("MEDEX_LOG_LEVEL")
}

func CatalogPath() string {
	return os.Getenv("MEDEX_CATALOG")
}

func RulesPath() string {
	return os.Getenv("MEDEX_RULES")
}

// DatabasePath is the sqlite catalog store. Empty means no store.
func DatabasePath() string {
	return os.Getenv("MEDEX_DB")
}

// Parallelism is the number of illnesses evaluated concurrently per request.
func Parallelism() int {
	n, err := strconv.Atoi(os.Getenv("MEDEX_PARALLELISM"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("MEDEX_RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 10
	}
	return rps
}

func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("MEDEX_RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}
