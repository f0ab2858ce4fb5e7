package shell

import (
	"bytes"
	"text/template"

	"github.com/pkg/errors"

	"github.com/hypersdk/hypeget/pkg/config"
)

// templateData holds the data passed to the script template execution. Only
// static configuration goes in here. Platform detection, version resolution
// and URL construction all happen at script runtime.
type templateData struct {
	Repo          string
	BinName       string
	Crate         string
	GitURL        string
	InstallDir    string
	AssetTemplate string
}

// Generate renders the standalone bootstrap installer for cfg. The script
// determines OS, architecture and version dynamically when run. Every value
// embedded into the script is checked against shell metacharacters first.
func Generate(cfg *config.Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	cfg.SetDefaults()
	if err := cfg.ValidateForScript(); err != nil {
		return nil, errors.Wrap(err, "config is not safe to embed in a script")
	}

	data := templateData{
		Repo:          config.StringValue(cfg.Repo),
		BinName:       config.StringValue(cfg.BinName),
		Crate:         config.StringValue(cfg.Crate),
		GitURL:        cfg.GitURL(),
		InstallDir:    config.StringValue(cfg.InstallDir),
		AssetTemplate: config.StringValue(cfg.AssetTemplate),
	}

	tmpl, err := template.New("installer").Parse(installScriptTemplate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse installer script template")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to execute installer script template")
	}

	return buf.Bytes(), nil
}
