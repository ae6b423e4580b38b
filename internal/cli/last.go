package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a11ytools/a11y-assist/internal/normalize"
	"github.com/a11ytools/a11y-assist/internal/storage"
)

var (
	lastProfile      string
	lastJSONResponse bool
	lastJSONOut      string
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Assist using the last captured log",
	Long: `Last re-reads the output captured by "a11y-assist run" from
the state directory and renders guidance for it.`,
	RunE: runLast,
}

func init() {
	lastCmd.Flags().StringVar(&lastProfile, "profile", "", "Accessibility profile (default: lowvision)")
	lastCmd.Flags().BoolVar(&lastJSONResponse, "json-response", false, "Output assist.response.v0.1 JSON instead of rendered text")
	lastCmd.Flags().StringVar(&lastJSONOut, "json-out", "", "Write assist.response.v0.1 JSON to file (in addition to rendered output)")
	rootCmd.AddCommand(lastCmd)
}

func runLast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "last: %v\n", err)
		os.Exit(exitInputError)
	}
	out := outputOptions{jsonResponse: lastJSONResponse, jsonOut: lastJSONOut}
	profileName := resolveProfile(lastProfile)

	text, err := storage.ReadLastLog(cfg.LastLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "last: %v\n", err)
		os.Exit(exitInputError)
	}

	if strings.TrimSpace(text) == "" {
		in := pipelineInput{
			baseText:  "No last.log found. Run assist-run command.",
			base:      normalize.EmptyLastLog(),
			inputKind: inputKindLastLog,
		}
		if err := runPipeline("last", in, profileName, out); err != nil {
			return err
		}
		os.Exit(exitInputError)
	}

	in := pipelineInput{
		baseText:  text,
		base:      normalize.FromLastLog(text),
		inputKind: inputKindLastLog,
	}
	return runPipeline("last", in, profileName, out)
}
