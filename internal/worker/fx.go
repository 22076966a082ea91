package worker

import (
	"github.com/afsacademy/groupgate/internal/worker/domain"
	"github.com/afsacademy/groupgate/internal/worker/service"
	"go.uber.org/fx"
)

var Module = fx.Module("worker",
	fx.Provide(
		service.NewQueue,
		func(q *service.Queue) domain.Source { return q },
		service.NewLogActioner,
		service.NewRunner,
	),
	fx.Invoke(service.Register),
)
