// Package storage persists the captured last.log and the JSONL audit
// trail. Captured output is redacted before it touches disk.
package storage

import (
	"os"
	"path/filepath"

	"github.com/a11ytools/a11y-assist/internal/redact"
)

// WriteLastLog saves captured command output, creating the parent
// directory if needed.
func WriteLastLog(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(redact.Redact(text)), 0600)
}

// ReadLastLog returns the captured output, or "" when none exists.
func ReadLastLog(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
