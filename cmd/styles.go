package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/hypersdk/hypeget/pkg/config"
)

// Style definitions
var (
	// Color profile detection
	profile = colorprofile.Detect(os.Stdout, os.Environ())

	// Styles with adaptive colors based on terminal capabilities
	successStyle = func() lipgloss.Style {
		if profile == colorprofile.TrueColor || profile == colorprofile.ANSI256 {
			return lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))
		}
		return lipgloss.NewStyle().Bold(true)
	}()

	hintStyle = func() lipgloss.Style {
		if profile == colorprofile.TrueColor || profile == colorprofile.ANSI256 {
			return lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
		}
		return lipgloss.NewStyle().Faint(true)
	}()
)

// printSuccess reports where the binary landed and how to take the first
// steps with it.
func printSuccess(binName, targetPath string) {
	fmt.Println(successStyle.Render(fmt.Sprintf("Installed %s to %s", binName, targetPath)))
	fmt.Println()
	fmt.Println("Get started:")
	fmt.Println(hintStyle.Render("  " + binName + " --help"))
	if binName == config.DefaultBinName {
		fmt.Println(hintStyle.Render("  " + binName + " spot-balances <address>"))
	}
}
