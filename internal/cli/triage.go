package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/normalize"
)

var (
	triageStdin        bool
	triageProfile      string
	triageJSONResponse bool
	triageJSONOut      string
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage raw CLI output (best effort)",
	Long: `Triage parses unstructured command output: it looks for an
(ID: ...) marker, a leading [OK|WARN|ERROR] status line, and indented
What:/Why:/Fix: blocks. No ID is ever invented; confidence is Medium at
best.

Example:
  failing-tool 2>&1 | a11y-assist triage --stdin --profile dyslexia`,
	RunE: runTriage,
}

func init() {
	triageCmd.Flags().BoolVar(&triageStdin, "stdin", false, "Read raw CLI output from stdin")
	triageCmd.Flags().StringVar(&triageProfile, "profile", "", "Accessibility profile (default: lowvision)")
	triageCmd.Flags().BoolVar(&triageJSONResponse, "json-response", false, "Output assist.response.v0.1 JSON instead of rendered text")
	triageCmd.Flags().StringVar(&triageJSONOut, "json-out", "", "Write assist.response.v0.1 JSON to file (in addition to rendered output)")
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
	if !triageStdin {
		fmt.Fprintln(os.Stderr, "Use: a11y-assist triage --stdin")
		os.Exit(exitInputError)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "triage: %v\n", err)
		os.Exit(exitInputError)
	}
	text := string(data)

	in := pipelineInput{
		baseText:  text,
		base:      normalize.FromRawText(text),
		inputKind: inputKindRawText,
	}
	out := outputOptions{jsonResponse: triageJSONResponse, jsonOut: triageJSONOut}
	return runPipeline("triage", in, resolveProfile(triageProfile), out)
}
