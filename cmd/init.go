package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"
)

var (
	// Flags for init command
	initRepo       string
	initBin        string
	initOutputFile string
	initForce      bool
)

// InitCommand represents the init command
var InitCommand = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the effective defaults",
	Long: `Writes the effective configuration to ` + DefaultConfigPathYML + ` as a
starting point for customization. The file is discovered automatically by
subsequent runs, so edits to it take effect without further flags.`,
	Example: `  # Scaffold .config/hypeget.yml with the defaults
  hypeget init

  # Scaffold for a fork
  hypeget init --repo myorg/hypersdk

  # Overwrite an existing config
  hypeget init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(initRepo, initBin)
		if err != nil {
			return err
		}

		yamlData, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		if initOutputFile == "-" {
			fmt.Print(string(yamlData))
			return nil
		}

		if _, err := os.Stat(initOutputFile); err == nil && !initForce {
			return fmt.Errorf("%s already exists, pass --force to overwrite", initOutputFile)
		}

		outputDir := filepath.Dir(initOutputFile)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
		if err := os.WriteFile(initOutputFile, yamlData, 0644); err != nil {
			return fmt.Errorf("failed to write config to %s: %w", initOutputFile, err)
		}
		log.Infof("config written to %s", initOutputFile)

		return nil
	},
}

func init() {
	// Flags specific to init command
	InitCommand.Flags().StringVar(&initRepo, "repo", "", "Release repository to record (owner/name)")
	InitCommand.Flags().StringVar(&initBin, "bin", "", "Binary name to record")
	InitCommand.Flags().StringVarP(&initOutputFile, "output", "o", DefaultConfigPathYML, "Output path for the config (use '-' for stdout)")
	InitCommand.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}
