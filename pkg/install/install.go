package install

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/hypersdk/hypeget/internal/run"
)

// ResolveDir picks the install directory: the explicit override first (the
// --dir flag), then the INSTALL_DIR value captured by the caller, then the
// configured default. ~ and ${VAR} references are expanded and the result
// is made absolute.
func ResolveDir(override, envDir, defaultDir string) (string, error) {
	dir := defaultDir
	if envDir != "" {
		dir = envDir
	}
	if override != "" {
		dir = override
	}
	if dir == "" {
		return "", errors.New("no install directory configured")
	}

	dir = expandPath(dir)

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve install directory")
	}

	return absPath, nil
}

// Writable reports whether the current user can create files in dir. The
// probe creates and removes a throwaway file; a missing directory counts
// as writable only when it can be created.
func Writable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".hypeget-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}

// Binary installs the file at sourcePath into targetDir under targetName.
// The content is staged in a dot-temp file inside the target directory and
// renamed into place, so an existing binary is replaced atomically.
func Binary(sourcePath, targetDir, targetName string) (string, error) {
	targetPath := filepath.Join(targetDir, targetName)

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", errors.Wrap(err, "failed to create install directory")
	}

	source, err := os.Open(sourcePath)
	if err != nil {
		return "", errors.Wrap(err, "failed to open source file")
	}
	defer source.Close()

	tmpFile, err := os.CreateTemp(targetDir, "."+targetName+"-*")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, source); err != nil {
		tmpFile.Close()
		return "", errors.Wrap(err, "failed to copy binary")
	}

	if err := tmpFile.Chmod(0755); err != nil {
		tmpFile.Close()
		return "", errors.Wrap(err, "failed to set permissions")
	}

	if err := tmpFile.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close temporary file")
	}

	if err := os.Rename(tmpPath, targetPath); err != nil {
		return "", errors.Wrap(err, "failed to install binary")
	}

	success = true
	return targetPath, nil
}

// Elevator escalates privileges to place a binary into a directory the
// current user cannot write.
type Elevator interface {
	Install(ctx context.Context, sourcePath, targetDir, targetName string) (string, error)
}

// SudoElevator moves the artifact into place with sudo. The source file
// must already carry its final permissions; mv preserves them.
type SudoElevator struct {
	// Runner executes the elevated commands; run.ExecRunner when nil.
	Runner run.Runner
}

// Install implements Elevator.
func (e SudoElevator) Install(ctx context.Context, sourcePath, targetDir, targetName string) (string, error) {
	runner := e.Runner
	if runner == nil {
		runner = run.ExecRunner{}
	}

	if _, err := runner.LookPath("sudo"); err != nil {
		return "", errors.Wrapf(err, "%s is not writable and sudo is not available", targetDir)
	}

	targetPath := filepath.Join(targetDir, targetName)
	if err := runner.Run(ctx, "sudo", "mv", sourcePath, targetPath); err != nil {
		return "", errors.Wrapf(err, "failed to move %s to %s with sudo", sourcePath, targetPath)
	}

	return targetPath, nil
}

// expandPath expands ~ and environment variables in a path
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home := os.Getenv("HOME"); home != "" {
			path = filepath.Join(home, path[2:])
		}
	}

	path = os.ExpandEnv(path)

	return path
}
