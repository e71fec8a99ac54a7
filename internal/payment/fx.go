package payment

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/domain"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/repository"
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/payment/service"
	staydomain "github.com/idaholion/cabinbuddy-48f92664-sub000/internal/stay/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		fx.Annotate(
			service.New,
			fx.As(new(domain.Service)),
			fx.As(new(staydomain.OccupancySync)),
		),
	),
)
