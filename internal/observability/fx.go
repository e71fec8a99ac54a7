package observability

import (
	"context"

	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(provideLogger),
	fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }),
	fx.Provide(func() prometheus.Gatherer { return prometheus.DefaultGatherer }),
	fx.Provide(NewMetrics),
	fx.Provide(provideTracerProvider),
	fx.Invoke(watchLogLevel),
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	logger, level, err := NewLogger(cfg)
	if err != nil {
		return nil, level, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, level, nil
}

func provideTracerProvider(lc fx.Lifecycle, cfg config.Config) (trace.TracerProvider, error) {
	tp, shutdown, err := NewTracerProvider(context.Background(), cfg.OTel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{OnStop: shutdown})
	return tp, nil
}

func watchLogLevel(loader *config.Loader, level zap.AtomicLevel, log *zap.Logger) {
	loader.OnChange(func(cfg config.Config) {
		next := parseLevel(cfg.Log.Level)
		if next != level.Level() {
			level.SetLevel(next)
			log.Info("log level changed", zap.String("level", next.String()))
		}
	})
	loader.Watch()
}
