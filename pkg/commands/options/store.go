package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/store"
)

// StoreOptions overrides the configured backend for one invocation.
type StoreOptions struct {
	Backend string
}

func AddStoreArgs(cmd *cobra.Command, o *StoreOptions) {
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		"Override the configured backend: 'diskv' or 'memory'.")
}

// Config loads the configuration and applies the override.
func (o *StoreOptions) Config() (store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.Backend == "" {
		return cfg, nil
	}
	return store.StaticConfig{
		Kind:       o.Backend,
		Path:       cfg.BasePath(),
		SeedDemo:   cfg.Seed(),
		ExtraRooms: cfg.Rooms(),
		Level:      cfg.LogLevel(),
		File:       cfg.LogFile(),
		Addr:       cfg.ServeAddr(),
	}, nil
}
