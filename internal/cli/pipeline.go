package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/a11ytools/a11y-assist/internal/assist"
	"github.com/a11ytools/a11y-assist/internal/config"
	"github.com/a11ytools/a11y-assist/internal/guard"
	"github.com/a11ytools/a11y-assist/internal/profile"
	"github.com/a11ytools/a11y-assist/internal/storage"
)

// Input kinds recorded in guard contexts and audit events.
const (
	inputKindCliError = "cli_error_json"
	inputKindRawText  = "raw_text"
	inputKindLastLog  = "last_log"
)

func loadConfig() (*config.Config, error) {
	return config.Load(stateDir, "")
}

// pipelineInput is one base result plus the text it was derived from.
type pipelineInput struct {
	baseText  string
	base      assist.Result
	inputKind string
}

// outputOptions controls where the response goes.
type outputOptions struct {
	jsonResponse bool
	jsonOut      string
}

// runPipeline executes transform, guard, render in that order and emits
// the output. Guard violations abort with the engine-failure exit code;
// rendered output is never produced from an unguarded result.
func runPipeline(command string, in pipelineInput, profileName string, out outputOptions) error {
	p, err := profile.Lookup(profileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInputError)
	}

	transformed := p.Apply(in.base).WithMethod(p.MethodID)

	ctx := guard.ContextFor(profileName, in.base.Confidence, in.inputKind, in.base.NextSafeCommands)
	issues, err := guard.Validate(in.baseText, in.base, transformed, ctx)
	logWarnIssues(issues)
	auditPipeline(command, profileName, in, transformed, issues, err)
	if err != nil {
		reportGuardViolation(err)
	}
	transformed = transformed.WithMethod(assist.MethodGuardValidate)

	rendered := p.Render(transformed)
	return emitResult(rendered, transformed, out)
}

// emitResult prints either the rendered text or the JSON response, and
// optionally writes the JSON response to a file as well.
func emitResult(rendered string, result assist.Result, out outputOptions) error {
	if out.jsonResponse {
		data, err := json.MarshalIndent(result.ToResponse(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Print(rendered)
	}

	if out.jsonOut != "" {
		data, err := json.MarshalIndent(result.ToResponse(), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out.jsonOut, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// reportGuardViolation surfaces an engine bug report and exits. Never a
// user error: the input was fine, a transform or renderer misbehaved.
func reportGuardViolation(err error) {
	violation, ok := err.(*guard.Violation)
	if !ok {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitGuardFail)
	}

	lines := []string{
		"[ERROR] A11Y.ASSIST.ENGINE.GUARD.FAIL",
		"",
		"What:",
		"  A profile produced output that violates engine safety rules.",
		"",
		"Why:",
		"  This indicates a bug in a profile transform or renderer.",
		"",
		"Fix:",
		"  Run tests; open an issue; include profile name and guard codes.",
		"",
		"Guard codes:",
	}
	for _, line := range lines {
		fmt.Fprintln(os.Stderr, line)
	}
	for _, issue := range violation.Issues {
		fmt.Fprintf(os.Stderr, "  - %s: %s\n", issue.Code, issue.Message)
	}
	os.Exit(exitGuardFail)
}

// logWarnIssues records WARN-level guard issues. Soft heuristic misses
// are logged, never fatal.
func logWarnIssues(issues []guard.Issue) {
	for _, issue := range issues {
		if issue.Severity == guard.SeverityWarn {
			logger.Warn("guard heuristic miss",
				zap.String("code", issue.Code),
				zap.String("message", issue.Message),
			)
		}
	}
}

// auditPipeline appends one audit event for the run. Audit failures are
// logged and ignored: they must never change command behavior.
func auditPipeline(command, profileName string, in pipelineInput, transformed assist.Result, issues []guard.Issue, guardErr error) {
	cfg, err := config.Load(stateDir, "")
	if err != nil {
		logger.Debug("audit skipped", zap.Error(err))
		return
	}
	auditLogger, err := storage.NewAuditLogger(cfg.AuditLogPath)
	if err != nil {
		logger.Debug("audit skipped", zap.Error(err))
		return
	}
	defer auditLogger.Close()

	event := storage.AuditEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Command:    command,
		Profile:    profileName,
		InputKind:  in.inputKind,
		AnchoredID: in.base.AnchoredID,
		Confidence: string(in.base.Confidence),
		Methods:    transformed.MethodsApplied,
	}
	for _, issue := range issues {
		event.GuardIssues = append(event.GuardIssues, issue.Code)
	}
	if guardErr != nil {
		event.Error = guardErr.Error()
	}
	if err := auditLogger.Log(event); err != nil {
		logger.Debug("audit write failed", zap.Error(err))
	}
}
