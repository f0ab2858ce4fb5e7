package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/hypersdk/hypeget/internal/shell"
)

var (
	// Flags for script command
	scriptOutputFile string
)

// ScriptCommand represents the script command
var ScriptCommand = &cobra.Command{
	Use:   "script",
	Short: "Generate a standalone POSIX bootstrap installer script",
	Long: `Renders a self-contained POSIX sh script that performs the same install
flow as hypeget install: platform detection, latest-release resolution, binary
download with cleanup on every exit path, and the cargo fallback.

The script has no dependency on hypeget itself, so it can be hosted at a
stable URL and piped through sh.`,
	Example: `  # Print the script to stdout
  hypeget script

  # Write an executable install.sh
  hypeget script --output install.sh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig("", "")
		if err != nil {
			return err
		}

		log.Info("generating installer script")
		scriptBytes, err := shell.Generate(cfg)
		if err != nil {
			log.WithError(err).Error("failed to generate installer script")
			return fmt.Errorf("failed to generate installer script: %w", err)
		}

		if scriptOutputFile == "" || scriptOutputFile == "-" {
			fmt.Print(string(scriptBytes))
			return nil
		}

		outputDir := filepath.Dir(scriptOutputFile)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
		if err := os.WriteFile(scriptOutputFile, scriptBytes, 0755); err != nil {
			return fmt.Errorf("failed to write installer script to %s: %w", scriptOutputFile, err)
		}
		log.Infof("installer script written to %s", scriptOutputFile)

		return nil
	},
}

func init() {
	// Flags specific to script command
	ScriptCommand.Flags().StringVarP(&scriptOutputFile, "output", "o", "-", "Output path for the generated script (use '-' for stdout)")
}
