package migration

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		return Run(conn, cfg.Database.Driver, log.Named("migration"))
	}),
)
