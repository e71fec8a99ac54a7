package idempotency

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Redis  *redis.Client `optional:"true"`
	Log    *zap.Logger
}

var Module = fx.Module("idempotency",
	fx.Provide(New),
)

func New(p Params) Store {
	if p.Redis != nil {
		return NewRedisStore(p.Redis, p.Config.Idempotency.TTL)
	}
	p.Log.Named("idempotency").Warn("redis disabled, idempotency keys are kept in process memory")
	return NewMemoryStore(p.Config.Idempotency.TTL)
}
