package repo

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"repo",
		logger.WithNamedLogger("repo"),
		fx.Provide(NewService),
		fx.Provide(func(svc *Service, cfg Config, log *zap.Logger) *Monitor {
			return NewMonitor(cfg.MonitorInterval, svc.checkForChanges, log)
		}),
		fx.Invoke(func(lc fx.Lifecycle, monitor *Monitor, svc *Service) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					monitor.Start()
					return nil
				},
				OnStop: func(_ context.Context) error {
					monitor.Stop()
					svc.Close()
					return nil
				},
			})
		}),
	)
}
