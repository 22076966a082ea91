package decision

import (
	"github.com/afsacademy/groupgate/internal/decision/service"
	"go.uber.org/fx"
)

var Module = fx.Module("decision.service",
	fx.Provide(service.NewService),
)
