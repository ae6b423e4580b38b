package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/gate"
)

var (
	gateCurrentPath   string
	gateBaselinePath  string
	gateFailOn        string
	gateAllowlistPath string
	gateJSONOutput    bool
	gateEvidenceOut   string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Evaluate the CI policy gate against scorecards",
	Long: `Gate compares a current scorecard against policy: any finding at
or above the fail-on threshold fails; with a baseline, regressions and
new finding IDs fail too. Allowlist suppressions must carry an expiry
date; expired entries fail the gate.

Example:
  a11y-assist gate --current scorecard.json --baseline main.json --fail-on serious`,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&gateCurrentPath, "current", "", "Path to current scorecard JSON (required)")
	gateCmd.Flags().StringVar(&gateBaselinePath, "baseline", "", "Path to baseline scorecard JSON")
	gateCmd.Flags().StringVar(&gateFailOn, "fail-on", "serious", "Minimum severity to fail on (info|minor|moderate|serious|critical)")
	gateCmd.Flags().StringVar(&gateAllowlistPath, "allowlist", "", "Path to allowlist JSON or YAML")
	gateCmd.Flags().BoolVar(&gateJSONOutput, "json", false, "Emit machine-readable JSON report")
	gateCmd.Flags().StringVar(&gateEvidenceOut, "evidence-out", "", "Write evidence payload JSON to file")
	gateCmd.MarkFlagRequired("current")
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	current, err := gate.LoadScorecard(gateCurrentPath)
	if err != nil {
		gateInputError(err)
	}

	var baseline *gate.Scorecard
	if gateBaselinePath != "" {
		baseline, err = gate.LoadScorecard(gateBaselinePath)
		if err != nil {
			gateInputError(err)
		}
	}

	var allowlist *gate.Allowlist
	if gateAllowlistPath != "" {
		allowlist, err = gate.LoadAllowlist(gateAllowlistPath)
		if err != nil {
			if alErr, ok := err.(*gate.AllowlistError); ok {
				gate.WriteMessage(os.Stdout, gate.CliMessage{
					Status: "ERROR",
					ID:     "A11Y.CI.ALLOWLIST.INVALID",
					Title:  "Allowlist is invalid",
					What:   []string{"The allowlist file failed validation."},
					Why:    []string{"The allowlist must include finding_id, expires, and reason for each entry."},
					Fix: []string{
						"Fix the allowlist file and re-run the gate.",
						"Details: " + alErr.Errors[0],
					},
				})
				os.Exit(exitInputError)
			}
			gateInputError(err)
		}
	}

	now := time.Now()
	result := gate.Evaluate(current, baseline, gateFailOn, allowlist, now)

	if gateEvidenceOut != "" {
		artifacts := []gate.Artifact{
			{Kind: "scorecard", Path: gateCurrentPath},
		}
		if gateBaselinePath != "" {
			artifacts = append(artifacts, gate.Artifact{Kind: "baseline", Path: gateBaselinePath})
		}
		payload := gate.BuildEvidencePayload(result, current, gateFailOn, artifacts, now)
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(gateEvidenceOut, data, 0o644); err != nil {
			return err
		}
	}

	if gateJSONOutput {
		if err := gate.WriteJSONReport(os.Stdout, result, now); err != nil {
			return err
		}
	} else {
		gate.WriteMessage(os.Stdout, gate.ReportMessage(result))
	}

	if !result.OK {
		os.Exit(exitPolicyFail)
	}
	return nil
}

func gateInputError(err error) {
	gate.WriteMessage(os.Stdout, gate.CliMessage{
		Status: "ERROR",
		ID:     "A11Y.CI.INPUT.INVALID",
		Title:  "Could not read inputs",
		What:   []string{"One or more input files could not be parsed."},
		Why:    []string{"The scorecard JSON may be malformed or missing required fields."},
		Fix: []string{
			"Verify the JSON files exist and are valid.",
			fmt.Sprintf("Error: %v", err),
		},
	})
	os.Exit(exitInputError)
}
