package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/ingest"
)

var (
	ingestOutDir      string
	ingestFormat      string
	ingestMinSeverity string
	ingestStrict      bool
	ingestVerifyProv  bool
	ingestFailOn      string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <findings.json>",
	Short: "Ingest findings from a11y-evidence-engine",
	Long: `Ingest reads findings.json and derives two artifacts:

  ingest-summary.json  normalized stats and groupings
  advisories.json      fix-oriented tasks with evidence links

With --verify-provenance (or --strict), each referenced provenance
bundle is validated and its digest recomputed over canonical JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOutDir, "out", "", "Output directory for derived artifacts (default: alongside findings.json under a11y-assist/)")
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "text", "Output format for stdout (text|json)")
	ingestCmd.Flags().StringVar(&ingestMinSeverity, "min-severity", "info", "Minimum severity to include (info|warning|error)")
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "Fail if evidence_ref files are missing or provenance fails validation")
	ingestCmd.Flags().BoolVar(&ingestVerifyProv, "verify-provenance", false, "Validate each referenced provenance bundle and verify digests")
	ingestCmd.Flags().StringVar(&ingestFailOn, "fail-on", "error", "Exit nonzero if findings exist at/above this severity (error|warning|never)")
	rootCmd.AddCommand(ingestCmd)
}

// ingestJSONSummary is the stdout JSON shape for --format json.
type ingestJSONSummary struct {
	SourceEngine       string             `json:"source_engine"`
	SourceVersion      string             `json:"source_version"`
	IngestedAt         string             `json:"ingested_at"`
	Target             map[string]any     `json:"target"`
	Summary            map[string]any     `json:"summary"`
	ByRule             []ingest.RuleGroup `json:"by_rule"`
	OutputDir          string             `json:"output_dir"`
	ProvenanceVerified *bool              `json:"provenance_verified,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	findingsPath := args[0]

	outDir := ingestOutDir
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(findingsPath), "a11y-assist")
	}

	opts := ingest.Options{
		VerifyProvenance: ingestVerifyProv || ingestStrict,
		MinSeverity:      ingestMinSeverity,
	}
	result, err := ingest.Run(findingsPath, opts, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(exitPolicyFail)
	}

	if ingestStrict && len(result.ProvenanceErrors) > 0 {
		fmt.Fprintln(os.Stderr, "Provenance verification failed:")
		for _, perr := range result.ProvenanceErrors {
			fmt.Fprintf(os.Stderr, "  - %s\n", perr)
		}
		os.Exit(exitPolicyFail)
	}

	if err := ingest.WriteSummary(result, filepath.Join(outDir, "ingest-summary.json")); err != nil {
		return err
	}
	if err := ingest.WriteAdvisories(result, filepath.Join(outDir, "advisories.json")); err != nil {
		return err
	}

	if ingestFormat == "json" {
		summary := ingestJSONSummary{
			SourceEngine:  result.SourceEngine,
			SourceVersion: result.SourceVersion,
			IngestedAt:    result.IngestedAt,
			Target:        result.Target,
			Summary:       result.Summary,
			ByRule:        result.ByRule,
			OutputDir:     outDir,
		}
		if opts.VerifyProvenance {
			v := result.ProvenanceVerified
			summary.ProvenanceVerified = &v
		}
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(ingest.RenderTextSummary(result))
		fmt.Printf("\nOutput: %s\n", outDir)
	}

	if ingestFailOn == "never" {
		return nil
	}
	errors := summaryCountValue(result.Summary, "errors")
	warnings := summaryCountValue(result.Summary, "warnings")
	if ingestFailOn == "error" && errors > 0 {
		os.Exit(exitInputError)
	}
	if ingestFailOn == "warning" && (errors > 0 || warnings > 0) {
		os.Exit(exitInputError)
	}
	return nil
}

func summaryCountValue(summary map[string]any, key string) int {
	switch v := summary[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
