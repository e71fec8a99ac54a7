package observability

import (
	"strings"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. The returned level can be changed at
// runtime.
func NewLogger(cfg config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Log.Level))

	var zc zap.Config
	if strings.EqualFold(cfg.Log.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = level

	logger, err := zc.Build(zap.Fields(zap.String("env", cfg.App.Env)))
	if err != nil {
		return nil, level, err
	}
	return logger, level, nil
}

func parseLevel(value string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(value))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
