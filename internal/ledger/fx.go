package ledger

import (
	"github.com/idaholion/cabinbuddy-48f92664-sub000/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.New),
)
