package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/hypersdk/hypeget/pkg/asset"
	"github.com/hypersdk/hypeget/pkg/config"
	"github.com/hypersdk/hypeget/pkg/platform"
)

var (
	// Flags for check command
	checkVersion string
	checkAssets  bool
)

// CheckCommand represents the check command
var CheckCommand = &cobra.Command{
	Use:   "check",
	Short: "Validate the config and preview release asset names",
	Long: `Validates the effective configuration, renders the release asset name for
every supported platform, and checks that each asset is actually published
for the requested release.

This catches configuration mistakes without installing anything.`,
	Example: `  # Check the latest release
  hypeget check

  # Check a specific release
  hypeget check --version v0.4.2

  # Preview asset names without hitting the network
  hypeget check --check-assets=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := readEnvOptions()

		cfg, err := loadConfig("", "")
		if err != nil {
			return err
		}
		if err := cfg.ValidateForScript(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
		log.Info("config validation passed")

		repo := config.StringValue(cfg.Repo)

		version := checkVersion
		if version == "" {
			if checkAssets {
				version, err = resolveLatest(ctx, repo, env.token)
				if err != nil {
					return fmt.Errorf("failed to resolve the latest %s release: %w", repo, err)
				}
				log.Infof("checking against the latest release: %s", version)
			} else {
				// Placeholder for offline name previews.
				version = "v1.0.0"
			}
		}

		supported := platform.Supported()
		missing := 0

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if checkAssets {
			fmt.Fprintln(w, "PLATFORM\tASSET\tSTATUS")
		} else {
			fmt.Fprintln(w, "PLATFORM\tASSET")
		}

		for _, plat := range supported {
			name, err := asset.Name(config.StringValue(cfg.AssetTemplate), config.StringValue(cfg.BinName), version, plat)
			if err != nil {
				return fmt.Errorf("failed to derive the asset name for %s: %w", plat, err)
			}

			if !checkAssets {
				fmt.Fprintf(w, "%s\t%s\n", plat, name)
				continue
			}

			assetURL := asset.DownloadURL(gitHubDownloadBaseURL, repo, version, name)
			status := "✓ EXISTS"
			if err := checkAssetURL(ctx, assetURL); err != nil {
				log.Debugf("%s: %v", plat, err)
				status = "✗ MISSING"
				missing++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", plat, name, status)
		}
		w.Flush()

		if missing > 0 {
			return fmt.Errorf("%d of %d platform assets are not downloadable for %s", missing, len(supported), version)
		}
		return nil
	},
}

func init() {
	// Flags specific to check command
	CheckCommand.Flags().StringVar(&checkVersion, "version", "", "Check a specific release instead of the latest")
	CheckCommand.Flags().BoolVar(&checkAssets, "check-assets", true, "Check that assets exist in the GitHub release")
}
