package billing

import (
	"github.com/smallbiznis/vetledger/internal/billing/domain"
	"github.com/smallbiznis/vetledger/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(service.NewService),
	fx.Provide(func(s *service.Service) domain.Service { return s }),
)
