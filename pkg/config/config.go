package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Baked-in defaults so the installer works with no config file present.
const (
	DefaultRepo          = "hypersdk/hypersdk"
	DefaultBinName       = "hypecli"
	DefaultCrate         = "hypecli"
	DefaultAssetTemplate = "${NAME}-${OS}-${ARCH}"
	DefaultInstallDir    = "/usr/local/bin"
)

// Config describes which artifact to install and where. Every field is
// optional; SetDefaults fills in the hypecli defaults.
type Config struct {
	// Repo is the owner/name slug releases are published under.
	Repo *string `yaml:"repo,omitempty"`
	// BinName is the executable name installed into the target directory.
	BinName *string `yaml:"bin_name,omitempty"`
	// Crate is the package the cargo fallback builds from source.
	Crate *string `yaml:"crate,omitempty"`
	// AssetTemplate names the release artifact. ${NAME}, ${OS} and ${ARCH}
	// expand when the download URL is composed.
	AssetTemplate *string `yaml:"asset_template,omitempty"`
	// InstallDir is the target directory when neither the --dir flag nor
	// INSTALL_DIR overrides it.
	InstallDir *string `yaml:"install_dir,omitempty"`
}

// Default returns a config holding only the baked-in defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills unset fields with the hypecli defaults.
func (c *Config) SetDefaults() {
	if c.Repo == nil || *c.Repo == "" {
		c.Repo = StringPtr(DefaultRepo)
	}
	if c.BinName == nil || *c.BinName == "" {
		c.BinName = StringPtr(DefaultBinName)
	}
	if c.Crate == nil || *c.Crate == "" {
		c.Crate = StringPtr(DefaultCrate)
	}
	if c.AssetTemplate == nil || *c.AssetTemplate == "" {
		c.AssetTemplate = StringPtr(DefaultAssetTemplate)
	}
	if c.InstallDir == nil || *c.InstallDir == "" {
		c.InstallDir = StringPtr(DefaultInstallDir)
	}
}

// GitURL returns the clone URL the cargo fallback builds from.
func (c *Config) GitURL() string {
	return "https://github.com/" + StringValue(c.Repo)
}

// Validate checks the fields an install run depends on.
func (c *Config) Validate() error {
	repo := StringValue(c.Repo)
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.Errorf("repo must be in owner/name form: %q", repo)
	}
	if strings.Contains(StringValue(c.BinName), "/") {
		return errors.Errorf("bin_name must not contain a path separator: %q", StringValue(c.BinName))
	}
	if strings.Contains(StringValue(c.AssetTemplate), "/") {
		return errors.Errorf("asset_template must not contain a path separator: %q", StringValue(c.AssetTemplate))
	}
	return nil
}

// Load reads and parses a config file from the given path and applies
// defaults for any unset field.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file: %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file: %s", path)
	}

	cfg.SetDefaults()

	return &cfg, nil
}

// Discover searches the working directory and its parents for
// .config/hypeget.yml (or .yaml) and returns the first hit.
func Discover() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get current directory")
	}

	for {
		for _, name := range []string{"hypeget.yml", "hypeget.yaml"} {
			configPath := filepath.Join(dir, ".config", name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("no hypeget config found")
}

// LoadOrDiscover loads the config at path when given, otherwise discovers
// one. When nothing is found the baked-in defaults are returned with an
// empty path; a config file is never required.
func LoadOrDiscover(configPath string) (*Config, string, error) {
	path := configPath
	if path == "" {
		discovered, err := Discover()
		if err != nil {
			return Default(), "", nil
		}
		path = discovered
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}

	return cfg, path, nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal config")
	}
	return data, nil
}

// StringPtr returns a pointer to the string
func StringPtr(s string) *string {
	return &s
}

// StringValue safely dereferences a string pointer
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
