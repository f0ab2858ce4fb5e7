package platform

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/host"
)

// Canonical OS and architecture tags used in release asset names.
const (
	OSLinux  = "linux"
	OSDarwin = "darwin"

	ArchX8664   = "x86_64"
	ArchAarch64 = "aarch64"
)

// Sentinel errors for callers that branch on the rejection kind.
var (
	ErrUnsupportedOS   = errors.New("unsupported operating system")
	ErrUnsupportedArch = errors.New("unsupported architecture")
)

// Platform identifies a host that prebuilt release artifacts exist for.
type Platform struct {
	OS   string
	Arch string
}

// String returns the composed identifier used verbatim in asset names,
// e.g. "linux-x86_64".
func (p Platform) String() string {
	return p.OS + "-" + p.Arch
}

// Supported lists every platform a release ships binaries for.
func Supported() []Platform {
	return []Platform{
		{OS: OSLinux, Arch: ArchX8664},
		{OS: OSLinux, Arch: ArchAarch64},
		{OS: OSDarwin, Arch: ArchX8664},
		{OS: OSDarwin, Arch: ArchAarch64},
	}
}

// Detect inspects the running system and returns its normalized platform.
// Rejection happens before any network or temporary-file activity, so an
// unsupported host leaves nothing behind.
func Detect() (Platform, error) {
	return For(runtime.GOOS, runtime.GOARCH)
}

// For normalizes explicit OS and architecture identifiers. Both Go-style
// (amd64, arm64) and uname-style (x86_64, aarch64) spellings are accepted.
func For(osName, arch string) (Platform, error) {
	normOS, err := normalizeOS(osName)
	if err != nil {
		return Platform{}, err
	}
	normArch, err := normalizeArch(arch)
	if err != nil {
		return Platform{}, err
	}
	return Platform{OS: normOS, Arch: normArch}, nil
}

func normalizeOS(osName string) (string, error) {
	switch strings.ToLower(osName) {
	case "linux":
		return OSLinux, nil
	case "darwin":
		return OSDarwin, nil
	default:
		return "", errors.Wrap(ErrUnsupportedOS, osName)
	}
}

func normalizeArch(arch string) (string, error) {
	switch strings.ToLower(arch) {
	case "amd64", "x86_64":
		return ArchX8664, nil
	case "arm64", "aarch64":
		return ArchAarch64, nil
	default:
		return "", errors.Wrap(ErrUnsupportedArch, arch)
	}
}

// Describe returns a short human-readable description of the running host,
// including distribution details where the system exposes them. Detection
// failures fall back to the bare GOOS/GOARCH pair.
func Describe(ctx context.Context) string {
	name, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil || name == "" {
		return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
	}
	if version == "" {
		return fmt.Sprintf("%s/%s (%s)", runtime.GOOS, runtime.GOARCH, name)
	}
	return fmt.Sprintf("%s/%s (%s %s)", runtime.GOOS, runtime.GOARCH, name, version)
}
