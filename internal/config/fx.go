package config

import "go.uber.org/fx"

// Module provides the Loader and the Config it reads. Path is taken from
// the --config flag when set.
func Module(path string) fx.Option {
	return fx.Module("config",
		fx.Provide(func() *Loader { return NewLoader(path) }),
		fx.Provide(func(l *Loader) (Config, error) { return l.Load() }),
	)
}
