package secscan

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"secscan",
		fx.Provide(NewScanner),
	)
}
