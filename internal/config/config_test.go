package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "state")

	cfg, err := Load(stateDir, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.StateDir != stateDir {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.LastLogPath != filepath.Join(stateDir, "last.log") {
		t.Errorf("LastLogPath = %q", cfg.LastLogPath)
	}
	if cfg.AuditLogPath != filepath.Join(stateDir, "audit.jsonl") {
		t.Errorf("AuditLogPath = %q", cfg.AuditLogPath)
	}
	if cfg.Profile != "lowvision" {
		t.Errorf("Profile = %q, want lowvision default", cfg.Profile)
	}

	if info, err := os.Stat(stateDir); err != nil || !info.IsDir() {
		t.Errorf("state directory was not created: %v", err)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	stateDir := t.TempDir()
	content := "default_profile: screen-reader\nlast_log: captured.log\naudit_log: /var/log/a11y-audit.jsonl\n"
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(stateDir, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != "screen-reader" {
		t.Errorf("Profile = %q, want the file value", cfg.Profile)
	}
	// Relative paths resolve against the state directory, absolute paths
	// are kept as-is.
	if cfg.LastLogPath != filepath.Join(stateDir, "captured.log") {
		t.Errorf("LastLogPath = %q", cfg.LastLogPath)
	}
	if cfg.AuditLogPath != "/var/log/a11y-audit.jsonl" {
		t.Errorf("AuditLogPath = %q", cfg.AuditLogPath)
	}
}

func TestLoad_FlagOverridesFile(t *testing.T) {
	stateDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"),
		[]byte("default_profile: screen-reader\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(stateDir, "dyslexia")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != "dyslexia" {
		t.Errorf("Profile = %q, want the flag value", cfg.Profile)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	stateDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(stateDir, "config.yaml"),
		[]byte("default_profile: [unclosed\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(stateDir, ""); err == nil {
		t.Error("Load() error = nil, want YAML parse error")
	}
}
