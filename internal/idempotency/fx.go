package idempotency

import (
	"github.com/cashdeskhq/cashdesk/internal/idempotency/repository"
	"github.com/cashdeskhq/cashdesk/internal/idempotency/service"
	"go.uber.org/fx"
)

var Module = fx.Module("idempotency.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
