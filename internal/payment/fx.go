package payment

import (
	"github.com/cashdeskhq/cashdesk/internal/payment/repository"
	"github.com/cashdeskhq/cashdesk/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
