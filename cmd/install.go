package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/hypersdk/hypeget/internal/run"
	"github.com/hypersdk/hypeget/pkg/asset"
	"github.com/hypersdk/hypeget/pkg/cargo"
	"github.com/hypersdk/hypeget/pkg/config"
	"github.com/hypersdk/hypeget/pkg/fetch"
	"github.com/hypersdk/hypeget/pkg/httpclient"
	"github.com/hypersdk/hypeget/pkg/install"
	"github.com/hypersdk/hypeget/pkg/platform"
	"github.com/hypersdk/hypeget/pkg/release"
)

// downloadRetries is the number of extra attempts after a transient
// download failure.
const downloadRetries = 2

var (
	// Flags for install command
	installDirFlag string
	installRepo    string
	installBin     string
	installCargo   bool
	installDryRun  bool
)

// Overridable in tests to target local servers and fake hosts. Production
// values point at the real GitHub hosts and the running system.
var (
	gitHubAPIBaseURL      = ""
	gitHubDownloadBaseURL = "https://github.com"
	detectPlatform        = platform.Detect
	elevator              install.Elevator = install.SudoElevator{}
	cargoRunner           run.Runner
)

// installOptions carries everything an install run needs. Environment state
// is snapshotted into it up front; nothing below the command layer reads
// ambient state.
type installOptions struct {
	cfg      *config.Config
	version  string
	useCargo bool
	dirFlag  string
	envDir   string
	token    string
	dryRun   bool
}

// InstallCommand represents the install command
var InstallCommand = &cobra.Command{
	Use:   "install [VERSION]",
	Short: "Download and install the hypecli binary",
	Long: `Detects the host platform, resolves the requested hypersdk release (the
latest one when VERSION is omitted), downloads the matching prebuilt hypecli
binary, and moves it into the install directory.

With --cargo (or USE_CARGO=1 in the environment) the binary release path is
skipped entirely and hypecli is built from source with cargo instead.`,
	Example: `  # Install the latest release into /usr/local/bin
  hypeget install

  # Install a specific release
  hypeget install v0.4.2

  # Install into a directory that needs no sudo
  hypeget install --dir ~/.local/bin

  # Build from source instead of downloading a binary
  hypeget install --cargo`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := readEnvOptions()

		cfg, err := loadConfig(installRepo, installBin)
		if err != nil {
			return err
		}

		opts := installOptions{
			cfg:      cfg,
			useCargo: installCargo || env.useCargo,
			dirFlag:  installDirFlag,
			envDir:   env.installDir,
			token:    env.token,
			dryRun:   installDryRun,
		}
		if len(args) > 0 {
			opts.version = args[0]
		}

		return runInstall(cmd.Context(), opts)
	},
}

func runInstall(ctx context.Context, opts installOptions) error {
	if opts.useCargo {
		return installFromSource(ctx, opts)
	}

	binName := config.StringValue(opts.cfg.BinName)
	repo := config.StringValue(opts.cfg.Repo)

	plat, err := detectPlatform()
	if err != nil {
		log.Debugf("host system: %s", platform.Describe(ctx))
		return fmt.Errorf("no prebuilt %s binaries exist for this system: %w", binName, err)
	}
	log.Debugf("detected platform: %s", plat)

	version := opts.version
	if version == "" {
		version, err = resolveLatest(ctx, repo, opts.token)
		if err != nil {
			return fmt.Errorf("failed to resolve the latest %s release: %w", repo, err)
		}
	}
	log.Infof("installing %s %s for %s", binName, version, plat)

	assetName, err := asset.Name(config.StringValue(opts.cfg.AssetTemplate), binName, version, plat)
	if err != nil {
		return fmt.Errorf("failed to derive the release asset name: %w", err)
	}
	assetURL := asset.DownloadURL(gitHubDownloadBaseURL, repo, version, assetName)

	if opts.dryRun {
		if err := checkAssetURL(ctx, assetURL); err != nil {
			return err
		}
		log.Infof("dry run: %s is downloadable", assetURL)
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "hypeget-*")
	if err != nil {
		return fmt.Errorf("failed to create a temporary directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	artifact := filepath.Join(tmpDir, binName)
	log.Infof("downloading %s", assetURL)
	err = fetch.Download(ctx, assetURL, artifact, fetch.Options{
		Progress: logProgress(),
		Retries:  downloadRetries,
	})
	if err != nil {
		if errors.Is(err, fetch.ErrAssetNotFound) {
			log.Errorf("no %s binary is published for %s", binName, plat)
		}
		log.Info("to build from source instead, run: hypeget install --cargo")
		return fmt.Errorf("failed to download %s: %w", assetName, err)
	}

	if err := os.Chmod(artifact, 0755); err != nil {
		return fmt.Errorf("failed to mark %s executable: %w", artifact, err)
	}

	targetDir, err := install.ResolveDir(opts.dirFlag, opts.envDir, config.StringValue(opts.cfg.InstallDir))
	if err != nil {
		return fmt.Errorf("failed to resolve the install directory: %w", err)
	}

	var targetPath string
	if install.Writable(targetDir) {
		targetPath, err = install.Binary(artifact, targetDir, binName)
	} else {
		log.Infof("%s is not writable, retrying with sudo", targetDir)
		targetPath, err = elevator.Install(ctx, artifact, targetDir, binName)
	}
	if err != nil {
		return fmt.Errorf("failed to install %s into %s: %w", binName, targetDir, err)
	}

	printSuccess(binName, targetPath)
	return nil
}

// installFromSource builds the crate with cargo instead of downloading a
// binary. The toolchain check runs before anything touches the network.
func installFromSource(ctx context.Context, opts installOptions) error {
	crate := config.StringValue(opts.cfg.Crate)
	inst := cargo.Installer{Runner: cargoRunner}

	log.Infof("building %s from source with cargo", crate)
	err := inst.Install(ctx, crate, opts.cfg.GitURL(), opts.version)
	if errors.Is(err, cargo.ErrToolchainMissing) {
		log.Error("building from source requires the rust toolchain")
		log.Info("install it via rustup first:")
		fmt.Fprintln(os.Stderr, cargo.RustupInstructions)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to build %s from source: %w", crate, err)
	}

	log.Infof("%s installed into the cargo bin directory", crate)
	return nil
}

func resolveLatest(ctx context.Context, repo, token string) (string, error) {
	log.Debug("resolving the latest release tag")
	ropts := []release.Option{release.WithHTTPClient(httpclient.NewGitHubClient(token))}
	if gitHubAPIBaseURL != "" {
		ropts = append(ropts, release.WithBaseURL(gitHubAPIBaseURL))
	}
	resolver, err := release.NewResolver(ropts...)
	if err != nil {
		return "", err
	}
	return resolver.LatestTag(ctx, repo)
}

// checkAssetURL validates the composed download URL with a HEAD request
// without writing anything to disk.
func checkAssetURL(ctx context.Context, assetURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, assetURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", assetURL, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", assetURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s is not downloadable: status %d", assetURL, resp.StatusCode)
	}
	return nil
}

// logProgress reports download progress in 10% steps. Responses without a
// Content-Length report nothing.
func logProgress() fetch.ProgressFunc {
	next := 10
	return func(downloaded, total int64) {
		if total <= 0 {
			return
		}
		pct := int(downloaded * 100 / total)
		for pct >= next {
			log.Debugf("downloaded %d%%", next)
			next += 10
		}
	}
}

func init() {
	// Flags specific to install command
	InstallCommand.Flags().StringVarP(&installDirFlag, "dir", "d", "", "Install directory (default: INSTALL_DIR or "+config.DefaultInstallDir+")")
	InstallCommand.Flags().StringVar(&installRepo, "repo", "", "Override the release repository (owner/name)")
	InstallCommand.Flags().StringVar(&installBin, "bin", "", "Override the installed binary name")
	InstallCommand.Flags().BoolVar(&installCargo, "cargo", false, "Build from source with cargo instead of downloading a binary")
	InstallCommand.Flags().BoolVar(&installDryRun, "dry-run", false, "Resolve and check the download URL without installing")
}
