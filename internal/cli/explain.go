package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/normalize"
)

var (
	explainJSONPath     string
	explainProfile      string
	explainJSONResponse bool
	explainJSONOut      string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Explain a structured cli.error.v0.1 JSON message",
	Long: `Explain reads a validated cli.error.v0.1 JSON file and renders
High-confidence guidance for the selected accessibility profile.

Example:
  a11y-assist explain --json error.json --profile screen-reader`,
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().StringVar(&explainJSONPath, "json", "", "Path to cli.error.v0.1 JSON file (required)")
	explainCmd.Flags().StringVar(&explainProfile, "profile", "", "Accessibility profile (default: lowvision)")
	explainCmd.Flags().BoolVar(&explainJSONResponse, "json-response", false, "Output assist.response.v0.1 JSON instead of rendered text")
	explainCmd.Flags().StringVar(&explainJSONOut, "json-out", "", "Write assist.response.v0.1 JSON to file (in addition to rendered output)")
	explainCmd.MarkFlagRequired("json")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	profileName := resolveProfile(explainProfile)
	out := outputOptions{jsonResponse: explainJSONResponse, jsonOut: explainJSONOut}

	raw, err := os.ReadFile(explainJSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "explain: %v\n", err)
		os.Exit(exitInputError)
	}

	ce, err := normalize.ParseCliError(raw)
	if err != nil {
		verr, ok := err.(*normalize.ValidationError)
		if !ok {
			fmt.Fprintf(os.Stderr, "explain: %v\n", err)
			os.Exit(exitInputError)
		}

		// Validation failed: fall back to a Low-confidence result that
		// describes the errors, then exit with the input-error code.
		in := pipelineInput{
			baseText:  strings.Join(verr.Errors, "; "),
			base:      normalize.ValidationFallback(verr),
			inputKind: inputKindCliError,
		}
		if err := runPipeline("explain", in, profileName, out); err != nil {
			return err
		}
		os.Exit(exitInputError)
	}

	in := pipelineInput{
		baseText:  string(raw),
		base:      normalize.FromCliError(ce),
		inputKind: inputKindCliError,
	}
	return runPipeline("explain", in, profileName, out)
}

// resolveProfile applies the configured default when no flag was given.
func resolveProfile(flag string) string {
	if flag != "" {
		return flag
	}
	cfg, err := loadConfig()
	if err != nil {
		return "lowvision"
	}
	return cfg.Profile
}
