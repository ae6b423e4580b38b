package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/a11ytools/a11y-assist/internal/redact"
)

// AuditEvent is one line of the audit trail: which command ran, with
// which profile, over which input, and what the guard said.
type AuditEvent struct {
	Timestamp   string   `json:"timestamp"`
	Command     string   `json:"command"`
	Profile     string   `json:"profile,omitempty"`
	InputKind   string   `json:"input_kind,omitempty"`
	AnchoredID  string   `json:"anchored_id,omitempty"`
	Confidence  string   `json:"confidence,omitempty"`
	Methods     []string `json:"methods_applied,omitempty"`
	GuardIssues []string `json:"guard_issues,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// AuditLogger appends events to a JSONL file. Safe for concurrent use.
type AuditLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewAuditLogger opens (or creates) the audit log at path.
func NewAuditLogger(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	return &AuditLogger{file: file}, nil
}

// Log appends one event, redacting error text first.
func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Error != "" {
		event.Error = redact.Redact(event.Error)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
