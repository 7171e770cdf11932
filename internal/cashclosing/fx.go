package cashclosing

import (
	"github.com/cashdeskhq/cashdesk/internal/cashclosing/repository"
	"github.com/cashdeskhq/cashdesk/internal/cashclosing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cashclosing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
