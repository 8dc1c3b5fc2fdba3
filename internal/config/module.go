package config

import (
	"github.com/forgeworks/repocore/internal/analytics"
	"github.com/forgeworks/repocore/internal/github"
	"github.com/forgeworks/repocore/internal/repo"
	"github.com/forgeworks/repocore/internal/vault"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) repo.Config {
			return repo.Config{
				DefaultRemote:   cfg.Repository.DefaultRemote,
				HistoryLimit:    cfg.Repository.HistoryLimit,
				MonitorInterval: cfg.Repository.MonitorInterval,
				IdentityName:    cfg.Repository.IdentityName,
				IdentityEmail:   cfg.Repository.IdentityEmail,
			}
		}),
		fx.Provide(func(cfg Config) analytics.Config {
			return analytics.Config{
				StalenessWindow: cfg.Analytics.StalenessWindow,
			}
		}),
		fx.Provide(func(cfg Config) vault.Config {
			return vault.Config{
				Backend: vault.Backend(cfg.Vault.Backend),
				DataDir: cfg.Vault.DataDir,
				Service: cfg.Vault.Service,
			}
		}),
		fx.Provide(func(cfg Config) github.Config {
			return github.Config{
				Owner:      cfg.GitHub.Owner,
				Repository: cfg.GitHub.Repository,
			}
		}),
	)
}
