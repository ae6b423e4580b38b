// Package config resolves the a11y-assist state directory and user
// settings. Settings come from ~/.a11y-assist/config.yaml when present;
// flags override file values, file values override defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultStateDir    = ".a11y-assist"
	DefaultConfigFile  = "config.yaml"
	DefaultLastLogFile = "last.log"
	DefaultAuditFile   = "audit.jsonl"
	DefaultProfile     = "lowvision"
)

// fileConfig is the on-disk config.yaml shape.
type fileConfig struct {
	DefaultProfile string `yaml:"default_profile"`
	AuditLog       string `yaml:"audit_log"`
	LastLog        string `yaml:"last_log"`
}

// Config holds resolved paths and defaults for one invocation.
type Config struct {
	StateDir     string
	LastLogPath  string
	AuditLogPath string
	Profile      string
}

// Load resolves the configuration. stateDir overrides the default state
// directory; profile overrides the configured default profile.
func Load(stateDir, profile string) (*Config, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		stateDir = filepath.Join(home, DefaultStateDir)
	}
	if err := ensureDir(stateDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		StateDir:     stateDir,
		LastLogPath:  filepath.Join(stateDir, DefaultLastLogFile),
		AuditLogPath: filepath.Join(stateDir, DefaultAuditFile),
		Profile:      DefaultProfile,
	}

	if err := cfg.applyFile(filepath.Join(stateDir, DefaultConfigFile)); err != nil {
		return nil, err
	}
	if profile != "" {
		cfg.Profile = profile
	}
	return cfg, nil
}

// applyFile overlays config.yaml values when the file exists.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if fc.DefaultProfile != "" {
		c.Profile = fc.DefaultProfile
	}
	if fc.AuditLog != "" {
		c.AuditLogPath = resolve(c.StateDir, fc.AuditLog)
	}
	if fc.LastLog != "" {
		c.LastLogPath = resolve(c.StateDir, fc.LastLog)
	}
	return nil
}

func resolve(stateDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(stateDir, path)
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
