package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	manifest := `[project]
name = "demo"
base = "src"

[report]
output = "build/report.xml"
encoding = "ISO-8859-1"

[rules]
catalog = "rules.yaml"
cache = false
`
	if err := os.WriteFile(filepath.Join(root, manifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	nested := filepath.Join(root, "src", "main", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	m, found, err := loadProjectManifest(nested)
	if err != nil {
		t.Fatalf("loadProjectManifest: %v", err)
	}
	if !found {
		t.Fatal("manifest not found")
	}
	if m.Root != root {
		t.Errorf("Root = %q, want %q", m.Root, root)
	}
	cfg := m.Config
	if cfg.Project.Name != "demo" || cfg.Report.Encoding != "ISO-8859-1" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Rules.Cache == nil || *cfg.Rules.Cache {
		t.Errorf("rules.cache should be explicitly false")
	}
	if got, want := m.resolve(cfg.Report.Output), filepath.Join(root, "build", "report.xml"); got != want {
		t.Errorf("resolve(output) = %q, want %q", got, want)
	}
	if got := m.resolve(""); got != "" {
		t.Errorf("resolve(\"\") = %q", got)
	}
}

func TestLoadProjectManifestMissing(t *testing.T) {
	_, found, err := loadProjectManifest(t.TempDir())
	if err != nil {
		t.Fatalf("loadProjectManifest: %v", err)
	}
	if found {
		t.Skip("a lintreport.toml exists above the temp directory")
	}
}

func TestLoadProjectConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "[project]\nbase = \".\"\n", "missing [project].name"},
		{"blank name", "[project]\nname = \"  \"\n", "missing [project].name"},
		{"unknown key", "[project]\nname = \"x\"\n[report]\nformat = \"html\"\n", "unknown key"},
		{"bad toml", "[project\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), manifestName)
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("failed to write manifest: %v", err)
			}
			_, err := loadProjectConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
