package registry

import (
	"github.com/afsacademy/groupgate/internal/registry/repository"
	registryservice "github.com/afsacademy/groupgate/internal/registry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("registry.service",
	fx.Provide(repository.Provide),
	fx.Provide(registryservice.NewService),
)
