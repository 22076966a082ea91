package audit

import (
	"github.com/afsacademy/groupgate/internal/audit/repository"
	"github.com/afsacademy/groupgate/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
