package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/gemkey/internal/buildinfo"
	"github.com/tsukumogami/gemkey/internal/log"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
	langFlag    string
	backendFlag string
	timeoutFlag time.Duration

	// globalCtx is cancelled on SIGINT/SIGTERM.
	globalCtx                       = context.Background()
	globalCancel context.CancelFunc = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "gemkey",
	Short: "Validate Gemini API keys and build a key-injecting bookmarklet",
	Long: `gemkey checks one to three Gemini API keys against the Gemini API and,
when every key is accepted, prints a single-line javascript: bookmarklet
that injects those keys into the WaygroundX payload script.

Keys are never stored. They can be passed as arguments, piped on stdin,
typed at a hidden prompt, or read from GEMINI_API_KEY, GEMINI_API_KEY_2
and GEMINI_API_KEY_3.`,
	Version:       buildinfo.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only print errors and the generated script")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Print informational logs")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Print debug logs (keys are redacted)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Message language (en, pt-BR)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Key probe transport (rest, sdk)")
	rootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-key validation timeout (default 15s)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	globalCtx, globalCancel = ctx, stop
	defer stop()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitUsage)
	}
}

// initLogger installs the default logger at the level chosen by flags and
// environment.
func initLogger() {
	level := determineLogLevel()
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	log.SetDefault(log.New(handler))
}

// determineLogLevel picks the log level. Any flag wins over every
// environment variable; within each group debug beats verbose beats quiet.
func determineLogLevel() slog.Level {
	switch {
	case debugFlag:
		return slog.LevelDebug
	case verboseFlag:
		return slog.LevelInfo
	case quietFlag:
		return slog.LevelError
	}

	switch {
	case isTruthy(os.Getenv("GEMKEY_DEBUG")):
		return slog.LevelDebug
	case isTruthy(os.Getenv("GEMKEY_VERBOSE")):
		return slog.LevelInfo
	case isTruthy(os.Getenv("GEMKEY_QUIET")):
		return slog.LevelError
	}
	return slog.LevelWarn
}

// isTruthy reports whether an environment value means "on".
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
