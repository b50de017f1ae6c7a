package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/keys"
	"github.com/tsukumogami/gemkey/internal/pipeline"
	"github.com/tsukumogami/gemkey/internal/validator"
)

var (
	validateKeyFlags []string
	validateStdin    bool
	validateJSON     bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [KEY...]",
	Short: "Check keys without generating a script",
	Long: `Check up to three Gemini API keys and report the result for each one.

Keys are gathered the same way as for generate. The exit code is 0 when
every key is valid, 3 when no keys were supplied, 4 when at least one key
was rejected and 5 when the API could not be reached.

Examples:
  gemkey validate AIza...
  GEMINI_API_KEY=AIza... gemkey validate --json`,
	Run: func(cmd *cobra.Command, args []string) {
		src := keySource{Args: args, Flags: validateKeyFlags, Stdin: validateStdin}
		code := runValidate(globalCtx, loadSettings(), src, validateJSON, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != ExitSuccess {
			exitWithCode(code)
		}
	},
}

func init() {
	validateCmd.Flags().StringArrayVarP(&validateKeyFlags, "key", "k", nil, "API key to check (repeatable)")
	validateCmd.Flags().BoolVar(&validateStdin, "stdin", false, "Read keys from stdin, one per line")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print verdicts as JSON")
}

// validateJSONOutput is the --json shape.
type validateJSONOutput struct {
	Valid    bool                `json:"valid"`
	Verdicts []validator.Verdict `json:"verdicts"`
}

// runValidate checks the gathered keys and prints one line per key.
func runValidate(ctx context.Context, s settings, src keySource, asJSON bool, stdout, stderr io.Writer) int {
	loc := i18n.New(s.Lang)

	candidates, err := gatherKeys(src, loc, stderr)
	if err != nil {
		printError(stderr, err)
		if errors.Is(err, keys.ErrTooManyKeys) {
			return ExitUsage
		}
		return ExitGeneral
	}
	if len(candidates) == 0 {
		f := &pipeline.Failure{Status: pipeline.StatusNoKeys, Detail: loc.T("status.no_keys", nil)}
		printError(stderr, f)
		return ExitNoKeys
	}

	coord, err := newCoordinator(s, loc)
	if err != nil {
		printError(stderr, err)
		return ExitUsage
	}

	agg, err := coord.ValidateAll(ctx, candidates)
	if err != nil {
		printError(stderr, err)
		return ExitGeneral
	}

	if asJSON {
		if err := printJSON(stdout, validateJSONOutput{Valid: agg.AllValid(), Verdicts: agg.Verdicts()}); err != nil {
			printError(stderr, err)
			return ExitGeneral
		}
	} else {
		for _, v := range agg.Verdicts() {
			if v.Valid {
				fmt.Fprintln(stdout, loc.T("validate.ok", map[string]any{"Index": v.Index}))
				continue
			}
			fmt.Fprintln(stdout, loc.T("status.key_line", map[string]any{"Index": v.Index, "Message": v.Error}))
		}
		if agg.AllValid() {
			printInfo(stderr, loc.T("validate.all_valid", map[string]any{"Count": len(candidates)}))
		}
	}

	if agg.AllValid() {
		return ExitSuccess
	}
	return exitCodeFor(pipeline.Result{Status: pipeline.StatusInvalid, Verdicts: agg.Verdicts()}.Err())
}
