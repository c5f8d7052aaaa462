// Package configutil reads json5 configuration files along with their
// untracked local overrides.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override file for a config,
// config.json5 -> config.local.json5
func LocalPath(name string) string {
	dir, base := filepath.Split(name)
	ext := filepath.Ext(base)
	if ext == "" {
		return filepath.Join(dir, base+".local")
	}
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

// readFile decodes the file at path into out, a missing or empty file
// leaves out untouched and reports false.
func readFile[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads `name` and merges <name>.local.<ext> over it, fields set
// in the local file win. It returns os.ErrNotExist when neither exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readFile(name, &out)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	var override T
	foundLocal, err := readFile(localPath, &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Debug("merged config with local overrides", "local", localPath)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively looks for `name` in the working directory and then in
// every parent directory up to the root.
func ReadRecursively[T any](name string) (T, error) {
	var empty T

	dir, err := os.Getwd()
	if err != nil {
		return empty, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !os.IsNotExist(err) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return empty, os.ErrNotExist
		}
		dir = parent
	}
}
