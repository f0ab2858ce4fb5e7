package cmd

import (
	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

const (
	// Default config file paths
	DefaultConfigPathYML  = ".config/hypeget.yml"
	DefaultConfigPathYAML = ".config/hypeget.yaml"
)

var (
	// Global flags
	configFile string
	verbose    bool
	quiet      bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "hypeget",
	Short: "Bootstrap installer for hypecli, the hypersdk command line client",
	Long: `hypeget installs hypecli, the hypersdk command line client.

It detects the host platform, resolves the latest hypersdk release on GitHub,
downloads the matching prebuilt hypecli binary, and moves it into a directory
on your PATH. When no prebuilt binary exists for your platform, --cargo builds
hypecli from source with the rust toolchain instead.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.Default)
		if verbose {
			log.SetLevel(log.DebugLevel)
			log.Debug("verbose logging enabled")
		} else if quiet {
			log.SetLevel(log.ErrorLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
}

func init() {
	// Disable automatic command sorting to maintain semantic order
	cobra.EnableCommandSorting = false

	// Add global flags
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: "+DefaultConfigPathYML+")")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Increase log verbosity")
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress progress output")

	// Add command groups
	RootCmd.AddGroup(&cobra.Group{
		ID:    "install",
		Title: "Install Commands:",
	})
	RootCmd.AddGroup(&cobra.Group{
		ID:    "utility",
		Title: "Utility Commands:",
	})

	// Set group for built-in commands
	RootCmd.SetHelpCommandGroupID("utility")
	RootCmd.SetCompletionCommandGroupID("utility")

	// Add subcommands with groups
	InstallCommand.GroupID = "install"
	CheckCommand.GroupID = "utility"
	ScriptCommand.GroupID = "utility"
	InitCommand.GroupID = "utility"

	RootCmd.AddCommand(InstallCommand)
	RootCmd.AddCommand(CheckCommand)
	RootCmd.AddCommand(ScriptCommand)
	RootCmd.AddCommand(InitCommand)
}
