package treatment

import (
	"github.com/smallbiznis/vetledger/internal/treatment/resolver"
	"github.com/smallbiznis/vetledger/internal/treatment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("treatment.service",
	fx.Provide(resolver.New),
	fx.Provide(service.NewService),
)
