package main

import (
	"errors"
	"os"

	"github.com/tsukumogami/gemkey/internal/pipeline"
	"github.com/tsukumogami/gemkey/internal/validator"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0

	// ExitGeneral indicates a general or unexpected error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments or usage error
	ExitUsage = 2

	// ExitNoKeys indicates no candidate keys were supplied
	ExitNoKeys = 3

	// ExitInvalidKeys indicates at least one key was rejected
	ExitInvalidKeys = 4

	// ExitNetwork indicates every failing key failed for lack of a response
	ExitNetwork = 5
)

// exitWithCode exits with the specified exit code
func exitWithCode(code int) {
	globalCancel()
	os.Exit(code)
}

// exitCodeFor maps a generation or validation result to an exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var f *pipeline.Failure
	if !errors.As(err, &f) {
		return ExitGeneral
	}
	switch f.Status {
	case pipeline.StatusNoKeys:
		return ExitNoKeys
	case pipeline.StatusInvalid:
		if f.OnlyKind(validator.KindConnectivity) {
			return ExitNetwork
		}
		return ExitInvalidKeys
	default:
		return ExitGeneral
	}
}
