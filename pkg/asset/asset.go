package asset

import (
	"fmt"
	"strings"

	"github.com/buildkite/interpolate"
	"github.com/pkg/errors"

	"github.com/hypersdk/hypeget/pkg/platform"
)

// Name expands an asset-name template for one platform. Templates may
// reference ${NAME}, ${OS}, ${ARCH}, ${VERSION} (the tag with any leading v
// stripped) and ${TAG} (the tag verbatim).
func Name(template, binName, version string, p platform.Platform) (string, error) {
	if template == "" {
		return "", errors.New("asset template is empty")
	}

	env := interpolate.NewMapEnv(map[string]string{
		"NAME":    binName,
		"OS":      p.OS,
		"ARCH":    p.Arch,
		"TAG":     version,
		"VERSION": strings.TrimPrefix(version, "v"),
	})

	name, err := interpolate.Interpolate(env, template)
	if err != nil {
		return "", errors.Wrapf(err, "failed to interpolate asset template: %s", template)
	}
	if name == "" {
		return "", errors.Errorf("asset template expanded to an empty name: %s", template)
	}
	if strings.Contains(name, "/") {
		return "", errors.Errorf("asset name must not contain a path separator: %s", name)
	}

	return name, nil
}

// DownloadURL composes the release-artifact URL for an asset. base is the
// GitHub download host, normally https://github.com.
func DownloadURL(base, repo, version, assetName string) string {
	return fmt.Sprintf("%s/%s/releases/download/%s/%s", strings.TrimSuffix(base, "/"), repo, version, assetName)
}
