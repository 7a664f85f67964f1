package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "lintreport.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Project projectSection `toml:"project"`
	Report  reportSection  `toml:"report"`
	Rules   rulesSection   `toml:"rules"`
}

type projectSection struct {
	Name string `toml:"name"`
	Base string `toml:"base"`
}

type reportSection struct {
	Output   string `toml:"output"`
	Encoding string `toml:"encoding"`
}

type rulesSection struct {
	Catalog string `toml:"catalog"`
	Cache   *bool  `toml:"cache"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [project].name", path)
	}
	return cfg, nil
}

// resolve makes p relative to the manifest directory. Empty stays empty.
func (m *projectManifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root, filepath.FromSlash(p))
}
