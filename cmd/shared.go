package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"

	"github.com/hypersdk/hypeget/pkg/config"
)

// envOptions is the one place ambient environment state is read. Commands
// snapshot it once and pass explicit values down.
type envOptions struct {
	installDir string
	useCargo   bool
	token      string
}

func readEnvOptions() envOptions {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		token = os.Getenv("GH_TOKEN")
	}
	return envOptions{
		installDir: os.Getenv("INSTALL_DIR"),
		useCargo:   os.Getenv("USE_CARGO") == "1",
		token:      token,
	}
}

// loadConfig loads the effective configuration: the global --config flag
// first, then HYPEGET_CONFIG, then discovery, then the baked-in defaults.
// Per-command repo and binary overrides are applied on top.
func loadConfig(repoOverride, binOverride string) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv("HYPEGET_CONFIG")
	}

	cfg, found, err := config.LoadOrDiscover(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if found != "" {
		log.Debugf("using config file: %s", found)
	}

	if repoOverride != "" {
		cfg.Repo = config.StringPtr(repoOverride)
	}
	if binOverride != "" {
		cfg.BinName = config.StringPtr(binOverride)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
