// Package commands implements the emmet command line.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/emmet/config"
	"github.com/teranos/emmet/errors"
	"github.com/teranos/emmet/logger"
	"github.com/teranos/emmet/options"
)

// current is the configuration loaded by Setup
var current *config.Config

// Setup loads the configuration named by --config (or the default cascade)
// and initializes the logger. It runs before every command.
func Setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = cfg.Log.Verbosity
	}
	if err := logger.Initialize(cfg.Log.JSON, verbosity); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	logger.ComponentLogger("cli").Infow("Configuration loaded",
		logger.FieldPath, path,
		"verbosity", logger.LevelName(verbosity),
		"transport", cfg.Server.Transport)

	current = cfg
	return nil
}

// currentConfig returns the loaded configuration, or the defaults when a
// command runs without Setup
func currentConfig() *config.Config {
	if current == nil {
		cfg, err := config.LoadFromDefaults()
		if err != nil {
			cfg = &config.Config{}
		}
		current = cfg
	}
	return current
}

// openStore returns a snapshot store loaded from the extensions directory,
// or an empty one when path is ""
func openStore(ctx context.Context, path string) (*options.Store, error) {
	store := options.NewStore()
	if path == "" {
		return store, nil
	}
	if err := store.Update(ctx, path); err != nil {
		return nil, errors.Wrapf(err, "failed to load extensions from %s", path)
	}
	return store, nil
}

// verbosity returns the effective -v count
func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	if v == 0 {
		v = currentConfig().Log.Verbosity
	}
	return v
}
