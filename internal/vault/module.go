package vault

import (
	"context"
	"fmt"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"vault",
		logger.WithNamedLogger("vault"),
		fx.Provide(NewStore),
	)
}

// NewStore builds the configured vault backend. The badger backend is
// registered with the fx lifecycle so the database closes on shutdown.
func NewStore(cfg Config, log *zap.Logger, lc fx.Lifecycle) (Store, error) {
	switch cfg.Backend {
	case BackendBadger:
		store, err := NewBadgerStore(cfg.DataDir, log)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})

		return store, nil
	case BackendKeyring, "":
		return NewKeyringStore(cfg.Service, log), nil
	default:
		return nil, fmt.Errorf("unknown vault backend %q", cfg.Backend)
	}
}
