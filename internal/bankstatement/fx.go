package bankstatement

import (
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/repository"
	"github.com/cashdeskhq/cashdesk/internal/bankstatement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bankstatement.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
