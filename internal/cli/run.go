package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/shell"

	"github.com/a11ytools/a11y-assist/internal/storage"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command> [args...]",
	Short: "Run a command and capture its output for 'last'",
	Long: `Run executes a command, passes its output through unchanged, and
captures a redacted copy to the state directory so "a11y-assist last"
can explain a failure afterwards. The wrapped command's exit code is
preserved.

Example:
  a11y-assist run -- payctl export --all
  a11y-assist run "payctl export --all"`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: a11y-assist run -- <command> [args...]")
		os.Exit(exitInputError)
	}

	// A single argument may be a whole shell-quoted command line.
	if len(args) == 1 {
		fields, err := shell.Fields(args[0], nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "run: cannot parse command: %v\n", err)
			os.Exit(exitInputError)
		}
		args = fields
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: a11y-assist run -- <command> [args...]")
		os.Exit(exitInputError)
	}

	child := exec.Command(args[0], args[1:]...)
	child.Stdin = os.Stdin

	// stdout and stderr are interleaved into one capture, the same
	// stream a user would have seen in a terminal.
	var captured bytes.Buffer
	child.Stdout = &captured
	child.Stderr = &captured

	runErr := child.Run()

	// Original output passes through unchanged.
	os.Stdout.Write(captured.Bytes())

	if err := saveLastLog(captured.String()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture output: %v\n", err)
	}

	if runErr != nil {
		// Tip only when a human is watching; pipelines get clean output.
		if term.IsTerminal(int(os.Stderr.Fd())) {
			fmt.Fprintln(os.Stderr, "\nTip: run `a11y-assist last` for help")
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "run: %v\n", runErr)
		os.Exit(exitInputError)
	}
	return nil
}

func saveLastLog(text string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return storage.WriteLastLog(cfg.LastLogPath, text)
}
