package rate

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/repository"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/rate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
