package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/keys"
	"github.com/tsukumogami/gemkey/internal/secrets"
)

// Swappable for tests.
var (
	stdinReader     io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	readPassword              = func() ([]byte, error) { return term.ReadPassword(int(os.Stdin.Fd())) }
)

var errNoTerminal = errors.New("--interactive requires a terminal on stdin")

// keySource describes where candidate keys come from.
type keySource struct {
	Args        []string
	Flags       []string
	Stdin       bool
	Interactive bool
}

// gatherKeys returns the candidate keys from the first source that yields
// any: arguments and --key, then stdin, then the hidden prompt, then the
// GEMINI_API_KEY* environment variables. Blank entries are dropped.
func gatherKeys(src keySource, loc *i18n.Localizer, prompt io.Writer) ([]string, error) {
	raw := append(append([]string(nil), src.Args...), src.Flags...)
	collected, err := keys.Collect(raw)
	if err != nil || len(collected) > 0 {
		return collected, err
	}

	if src.Stdin {
		collected, err = readKeysFromStdin(prompt)
		if err != nil || len(collected) > 0 {
			return collected, err
		}
	}

	if src.Interactive {
		return promptKeys(loc, prompt)
	}

	return secrets.Candidates(), nil
}

// readKeysFromStdin reads one key per line until EOF.
func readKeysFromStdin(prompt io.Writer) ([]string, error) {
	if stdinIsTerminal() {
		fmt.Fprintln(prompt, "Enter keys one per line, then press Ctrl-D:")
	}
	collected, err := keys.ReadFrom(stdinReader)
	if err != nil && !errors.Is(err, keys.ErrTooManyKeys) {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	return collected, err
}

// promptKeys asks for up to keys.MaxKeys keys with echo disabled. An empty
// answer ends the prompt.
func promptKeys(loc *i18n.Localizer, prompt io.Writer) ([]string, error) {
	if !stdinIsTerminal() {
		return nil, errNoTerminal
	}

	slots := keys.NewSlots()
	for i := 0; ; i++ {
		fmt.Fprint(prompt, loc.T("prompt.key", map[string]any{"Index": i + 1}))
		value, err := readPassword()
		fmt.Fprintln(prompt)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		if strings.TrimSpace(string(value)) == "" {
			// Leave the trailing blank slot for Candidates to drop.
			break
		}
		if err := slots.Set(i, string(value)); err != nil {
			return nil, err
		}
		if err := slots.Add(); errors.Is(err, keys.ErrSlotLimit) {
			fmt.Fprintln(prompt, loc.T("prompt.limit", map[string]any{"Max": keys.MaxKeys}))
			break
		}
	}
	return slots.Candidates(), nil
}
