package cargo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hypersdk/hypeget/internal/run"
)

// ErrToolchainMissing reports that cargo is not on PATH.
var ErrToolchainMissing = errors.New("cargo toolchain not found")

// RustupInstructions tells users how to bootstrap the toolchain before
// retrying the source build.
const RustupInstructions = "  curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh"

// Installer builds and installs a crate from source with cargo.
type Installer struct {
	// Runner executes cargo; run.ExecRunner when nil.
	Runner run.Runner
}

// Check verifies the toolchain is present. It runs before any network or
// build work so a missing toolchain fails fast.
func (i Installer) Check() error {
	if _, err := i.runner().LookPath("cargo"); err != nil {
		return errors.Wrap(ErrToolchainMissing, "cargo not found in PATH")
	}
	return nil
}

// Install runs cargo install for the crate out of its git repository,
// streaming cargo's own output through. An explicit version pins the build
// to that tag; otherwise cargo builds the default branch. The child's exit
// code is captured and classified rather than inherited.
func (i Installer) Install(ctx context.Context, crate, gitURL, version string) error {
	if err := i.Check(); err != nil {
		return err
	}

	args := []string{"install", crate, "--git", gitURL}
	if version != "" {
		args = append(args, "--tag", version)
	}

	if err := i.runner().Run(ctx, "cargo", args...); err != nil {
		if code := run.ExitCode(err); code >= 0 {
			return errors.Wrapf(err, "cargo install %s failed with exit code %d", crate, code)
		}
		return errors.Wrapf(err, "cargo install %s failed", crate)
	}

	return nil
}

func (i Installer) runner() run.Runner {
	if i.Runner != nil {
		return i.Runner
	}
	return run.ExecRunner{}
}
