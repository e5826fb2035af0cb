// Package runtimeenv prepares the process environment the embedded engine
// expects before any session is attached: it materializes the runtime
// assets bundled in the binary onto the filesystem and points the engine at
// them through environment variables.
//
// Setup runs once per process. The connection layer never calls it; the
// program entrypoint does, before the first connect.
package runtimeenv

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	// EnvRoot is the environment variable holding the runtime directory.
	EnvRoot = "EMBEDCLOCK_ROOT"
	// EnvTmpDir is the directory SQLite uses for its temporary files.
	EnvTmpDir = "SQLITE_TMPDIR"

	dirPermissions  = 0750
	filePermissions = 0640
)

//go:embed assets
var assetsFS embed.FS

// Config holds the options for Setup.
type Config struct {
	// Dir is where the runtime assets are extracted. Defaults to
	// embedclock inside the user cache directory.
	Dir string
	// Force overwrites assets that already exist in Dir.
	Force bool
}

// Env describes a prepared runtime environment.
type Env struct {
	// Root is the directory holding the extracted assets.
	Root string
	// TmpDir is the engine temporary directory, inside Root.
	TmpDir string
	// Extracted lists the asset paths written during setup, relative to
	// Root. Assets that were already present and kept are not listed.
	Extracted []string
}

var (
	setupOnce sync.Once
	setupEnv  Env
	setupErr  error
)

// Setup extracts the runtime assets and exports EnvRoot and EnvTmpDir.
//
// Only the first call does any work; later calls return the outcome of the
// first one, whatever their config.
func Setup(config Config) (Env, error) {
	setupOnce.Do(func() {
		setupEnv, setupErr = setup(config)
	})
	return setupEnv, setupErr
}

// setup does the actual work behind Setup.
func setup(config Config) (Env, error) {
	root := config.Dir
	if root == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return Env{}, fmt.Errorf("failed to resolve runtime directory: %w", err)
		}
		root = filepath.Join(cacheDir, "embedclock")
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return Env{}, fmt.Errorf("failed to resolve runtime directory: %w", err)
	}

	extracted, err := extractAssets(root, config.Force)
	if err != nil {
		return Env{}, err
	}

	tmpDir := filepath.Join(root, "tmp")
	if err := os.MkdirAll(tmpDir, dirPermissions); err != nil {
		return Env{}, fmt.Errorf("failed to create engine temp directory: %w", err)
	}

	if err := os.Setenv(EnvRoot, root); err != nil {
		return Env{}, fmt.Errorf("failed to set %s: %w", EnvRoot, err)
	}
	if err := os.Setenv(EnvTmpDir, tmpDir); err != nil {
		return Env{}, fmt.Errorf("failed to set %s: %w", EnvTmpDir, err)
	}

	return Env{
		Root:      root,
		TmpDir:    tmpDir,
		Extracted: extracted,
	}, nil
}

// extractAssets copies the embedded assets tree into root. Files already
// present are kept unless force is set.
func extractAssets(root string, force bool) ([]string, error) {
	if err := os.MkdirAll(root, dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	extracted := []string{}
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("failed to open bundled assets: %w", err)
	}

	err = fs.WalkDir(sub, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(root, filepath.FromSlash(name))
		if entry.IsDir() {
			return os.MkdirAll(target, dirPermissions)
		}

		if !force {
			if _, err := os.Stat(target); err == nil {
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		data, err := fs.ReadFile(sub, name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, filePermissions); err != nil {
			return err
		}

		extracted = append(extracted, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract runtime assets: %w", err)
	}

	return extracted, nil
}
