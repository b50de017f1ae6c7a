package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tsukumogami/gemkey/internal/errmsg"
)

// Status output goes to stderr; stdout is reserved for the script and JSON.

// printInfo prints an informational message unless quiet mode is enabled
func printInfo(w io.Writer, a ...interface{}) {
	if !quietFlag {
		fmt.Fprintln(w, a...)
	}
}

// printJSON marshals the given value to indented JSON on w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// printError prints err to w with likely causes and suggestions.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errmsg.Format(err, &errmsg.ErrorContext{Backend: currentBackend()}))
}

// fatal prints err and exits with code.
func fatal(err error, code int) {
	printError(os.Stderr, err)
	exitWithCode(code)
}
