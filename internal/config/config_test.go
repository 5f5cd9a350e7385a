package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if cfg.DBPath != "" || cfg.Auth.Profile != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatal("empty path should error")
	}
}

func TestLoadParsesToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
db-path = "/tmp/monk-test.db"

[auth]
profile = "/tmp/profile.json"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/monk-test.db" {
		t.Fatalf("unexpected db-path: %q", cfg.DBPath)
	}
	if cfg.Auth.Profile != "/tmp/profile.json" {
		t.Fatalf("unexpected auth profile: %q", cfg.Auth.Profile)
	}
}

func TestLoadBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("db-path = [broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !strings.HasSuffix(path, filepath.Join("monk", "config.toml")) {
		t.Fatalf("unexpected default path: %s", path)
	}
}
