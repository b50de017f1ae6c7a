package main

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/keys"
	"github.com/tsukumogami/gemkey/internal/pipeline"
	"github.com/tsukumogami/gemkey/internal/progress"
	"github.com/tsukumogami/gemkey/internal/sink"
	"github.com/tsukumogami/gemkey/internal/validator"
)

var (
	generateKeyFlags    []string
	generateStdin       bool
	generateInteractive bool
	generateOutput      string
	generateCopy        bool
	generateJSON        bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [KEY...]",
	Short: "Validate keys and print the bookmarklet",
	Long: `Validate up to three Gemini API keys and, if every key is accepted,
print the bookmarklet that injects them.

All keys are checked at the same time and every problem is reported in a
single run. Nothing is generated unless all keys are valid.

Keys are taken from the first source that provides any:
  1. KEY arguments and --key flags
  2. stdin, one key per line (--stdin)
  3. a hidden prompt (--interactive)
  4. GEMINI_API_KEY (or GOOGLE_API_KEY), GEMINI_API_KEY_2, GEMINI_API_KEY_3

Exit codes:
  0  script generated
  2  usage error (for example more than three keys)
  3  no keys supplied
  4  at least one key is invalid
  5  no key could be checked because the API was unreachable

Examples:
  gemkey generate AIza...
  gemkey generate --key AIza... --key AIza... --copy
  pass show gemini | gemkey generate --stdin -o bookmarklet.txt`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := generateOptions{
			Source: keySource{
				Args:        args,
				Flags:       generateKeyFlags,
				Stdin:       generateStdin,
				Interactive: generateInteractive,
			},
			Output: generateOutput,
			Copy:   generateCopy,
			JSON:   generateJSON,
		}
		code := runGenerate(globalCtx, loadSettings(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if code != ExitSuccess {
			exitWithCode(code)
		}
	},
}

func init() {
	generateCmd.Flags().StringArrayVarP(&generateKeyFlags, "key", "k", nil, "API key to include (repeatable)")
	generateCmd.Flags().BoolVar(&generateStdin, "stdin", false, "Read keys from stdin, one per line")
	generateCmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "Prompt for keys without echoing them")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Save the script to FILE (a directory gets the default file name)")
	generateCmd.Flags().BoolVar(&generateCopy, "copy", false, "Copy the script to the clipboard")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Print the result as JSON")
}

type generateOptions struct {
	Source keySource
	Output string
	Copy   bool
	JSON   bool
}

// generateJSONOutput is the --json shape. Script is set only when ready.
type generateJSONOutput struct {
	Status   pipeline.Status     `json:"status"`
	Script   string              `json:"script,omitempty"`
	Message  string              `json:"message"`
	Verdicts []validator.Verdict `json:"verdicts,omitempty"`
}

// runGenerate performs one generation attempt and returns the exit code.
func runGenerate(ctx context.Context, s settings, opts generateOptions, stdout, stderr io.Writer) int {
	loc := i18n.New(s.Lang)

	candidates, err := gatherKeys(opts.Source, loc, stderr)
	if err != nil {
		printError(stderr, err)
		if errors.Is(err, keys.ErrTooManyKeys) || errors.Is(err, errNoTerminal) {
			return ExitUsage
		}
		return ExitGeneral
	}

	showProgress := !quietFlag && !opts.JSON
	tracker := progress.NewTracker(stderr)
	onStage := func(stage pipeline.Stage, message string) {
		if !showProgress {
			return
		}
		switch stage {
		case pipeline.StageValidating:
			tracker.Begin(message, len(candidates))
		case pipeline.StageSynthesizing:
			tracker.End(message)
		case pipeline.StageFailed:
			tracker.End("")
		}
	}
	onVerdict := validator.OnVerdict(func(v validator.Verdict) {
		if showProgress {
			tracker.Tick(v.Valid)
		}
	})

	orch, err := newOrchestrator(s, loc, onStage, onVerdict)
	if err != nil {
		printError(stderr, err)
		return ExitUsage
	}

	res := orch.Generate(ctx, candidates)

	if opts.JSON {
		out := generateJSONOutput{Status: res.Status, Verdicts: res.Verdicts, Message: res.Detail}
		if res.Ready() {
			out.Script, out.Message = res.Detail, res.Summary
		}
		if err := printJSON(stdout, out); err != nil {
			printError(stderr, err)
			return ExitGeneral
		}
		if res.Ready() {
			if err := deliver(res.Detail, opts, nil, stderr, loc); err != nil {
				return ExitGeneral
			}
		}
		return exitCodeFor(res.Err())
	}

	if !res.Ready() {
		printError(stderr, res.Err())
		return exitCodeFor(res.Err())
	}

	if err := deliver(res.Detail, opts, stdout, stderr, loc); err != nil {
		return ExitGeneral
	}
	printInfo(stderr, res.Summary)
	return ExitSuccess
}

// deliver sends the script to the requested sinks. stdout receives it when
// no file or clipboard was requested; a nil stdout never receives it.
func deliver(artifact string, opts generateOptions, stdout, stderr io.Writer, loc *i18n.Localizer) error {
	var sinks sink.Multi
	if opts.Output != "" {
		f := sink.NewFile(opts.Output)
		if err := f.Deliver(artifact); err != nil {
			printError(stderr, err)
			return err
		}
		printInfo(stderr, loc.T("sink.saved", map[string]any{"Path": f.Path}))
	}
	if opts.Copy {
		if err := (sink.Clipboard{}).Deliver(artifact); err != nil {
			// The script is still printed below so the run is not wasted.
			printInfo(stderr, loc.T("sink.copy_failed", map[string]any{"Message": err.Error()}))
			if stdout != nil {
				sinks = append(sinks, sink.Writer{W: stdout})
			}
		} else {
			printInfo(stderr, loc.T("sink.copied", nil))
		}
	}
	if opts.Output == "" && !opts.Copy && stdout != nil {
		sinks = append(sinks, sink.Writer{W: stdout})
	}
	if err := sinks.Deliver(artifact); err != nil {
		printError(stderr, err)
		return err
	}
	return nil
}
