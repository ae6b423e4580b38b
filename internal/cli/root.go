// Package cli wires the a11y-assist commands: explain, triage, last, run,
// gate, and ingest.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes. Guard violations get their own code because they indicate an
// engine defect, not a user mistake.
const (
	exitOK         = 0
	exitInputError = 2
	exitPolicyFail = 3
	exitGuardFail  = 4
)

var (
	stateDir string
	verbose  bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "a11y-assist",
	Short: "a11y-assist - accessibility-first assistant for CLI failures",
	Long: `a11y-assist turns tool failures into deterministic, accessible guidance.
It reads structured cli.error.v0.1 JSON or raw command output, builds a
remediation plan, and renders it for an accessibility profile (low vision,
cognitive load, screen reader, dyslexia, or plain language). Every profile
transform is checked by a guard that refuses to emit output violating
engine safety rules.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		built, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "State directory (default: ~/.a11y-assist)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() error {
	return rootCmd.Execute()
}
