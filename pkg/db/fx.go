package db

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("db",
	fx.Provide(provideDB),
	fx.Provide(provideNode),
)

func provideDB(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, tp trace.TracerProvider) (*gorm.DB, error) {
	conn, err := Open(cfg.Database, Options{
		Log:            log,
		TracerProvider: tp,
		Metrics:        cfg.Metrics.Enabled,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return conn, nil
}

func provideNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.Snowflake.Node)
}
