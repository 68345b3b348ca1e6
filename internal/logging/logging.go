package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/medex/pkg/medex/internalerr"
)

// New builds a production JSON logger at level ("debug", "info", "warn", "error").
// "off" returns a no-op logger.
func New(level string) (*zap.Logger, error) {
	if level == "off" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level %q", internalerr.ErrInvalidConfig, level)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
