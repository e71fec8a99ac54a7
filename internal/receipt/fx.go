package receipt

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/repository"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/receipt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("receipt.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
