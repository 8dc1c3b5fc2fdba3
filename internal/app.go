package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/forgeworks/repocore/internal/analytics"
	"github.com/forgeworks/repocore/internal/config"
	"github.com/forgeworks/repocore/internal/events"
	"github.com/forgeworks/repocore/internal/github"
	"github.com/forgeworks/repocore/internal/repo"
	"github.com/forgeworks/repocore/internal/secscan"
	"github.com/forgeworks/repocore/internal/server"
	"github.com/forgeworks/repocore/internal/vault"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		//
		// APP MODULES
		config.Module(),
		events.Module(),
		vault.Module(),
		secscan.Module(),
		server.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		analytics.Module(),
		repo.Module(),
		github.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("repocore starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("repocore shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
