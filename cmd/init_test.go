package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/hypersdk/hypeget/pkg/config"
)

func resetInitFlags(t *testing.T) {
	t.Helper()
	oldRepo := initRepo
	oldBin := initBin
	oldOutput := initOutputFile
	oldForce := initForce
	oldConfig := configFile
	t.Cleanup(func() {
		initRepo = oldRepo
		initBin = oldBin
		initOutputFile = oldOutput
		initForce = oldForce
		configFile = oldConfig
	})
	initRepo = ""
	initBin = ""
	initOutputFile = DefaultConfigPathYML
	initForce = false
	configFile = ""
}

func TestInitCommandScaffoldsConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	resetInitFlags(t)

	if err := InitCommand.RunE(InitCommand, nil); err != nil {
		t.Fatalf("init command error = %v", err)
	}

	content, err := os.ReadFile(DefaultConfigPathYML)
	if err != nil {
		t.Fatalf("scaffolded config missing: %v", err)
	}
	if !strings.Contains(string(content), config.DefaultRepo) {
		t.Errorf("scaffolded config does not record the default repo:\n%s", content)
	}

	// The scaffolded file round-trips through the loader.
	cfg, err := config.Load(DefaultConfigPathYML)
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if got := config.StringValue(cfg.BinName); got != config.DefaultBinName {
		t.Errorf("bin name: got %s, want %s", got, config.DefaultBinName)
	}
}

func TestInitCommandRefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())
	resetInitFlags(t)

	if err := InitCommand.RunE(InitCommand, nil); err != nil {
		t.Fatalf("first init error = %v", err)
	}

	if err := InitCommand.RunE(InitCommand, nil); err == nil {
		t.Fatal("second init must refuse to overwrite without --force")
	}

	initForce = true
	if err := InitCommand.RunE(InitCommand, nil); err != nil {
		t.Fatalf("init --force error = %v", err)
	}
}

func TestInitCommandRecordsOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	resetInitFlags(t)

	initRepo = "myorg/hypersdk"
	initBin = "forkcli"

	if err := InitCommand.RunE(InitCommand, nil); err != nil {
		t.Fatalf("init command error = %v", err)
	}

	cfg, err := config.Load(DefaultConfigPathYML)
	if err != nil {
		t.Fatal(err)
	}
	if got := config.StringValue(cfg.Repo); got != "myorg/hypersdk" {
		t.Errorf("repo: got %s, want myorg/hypersdk", got)
	}
	if got := config.StringValue(cfg.BinName); got != "forkcli" {
		t.Errorf("bin name: got %s, want forkcli", got)
	}
}
