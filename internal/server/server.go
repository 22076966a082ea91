package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/afsacademy/groupgate/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newHTTPServer(cfg config.Config, r *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func registerHooks(lc fx.Lifecycle, log *zap.Logger, srv *http.Server) {
	log = log.Named("server")
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server shutting down")
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(
		NewRouter,
		newHTTPServer,
	),
	fx.Invoke(registerHooks),
)
