package stay

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/repository"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/service"
	"go.uber.org/fx"
)

var Module = fx.Module("stay.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
