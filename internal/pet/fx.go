package pet

import (
	"github.com/smallbiznis/vetledger/internal/pet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pet.service",
	fx.Provide(service.NewService),
)
