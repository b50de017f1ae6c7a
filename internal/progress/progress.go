// Package progress shows what gemkey is doing while keys are validated.
//
// Output goes to stderr so stdout stays clean for the generated script.
// Animation is only used on terminals; elsewhere each message is printed
// once on its own line.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// IsTerminalFunc is the function used to check if a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// ShouldShowProgress reports whether stderr is a terminal.
func ShouldShowProgress() bool {
	return IsTerminalFunc(int(os.Stderr.Fd()))
}

// Tracker counts finished validations under a spinner, e.g.
// "Validating 3 API key(s)... [2/3]".
type Tracker struct {
	mu      sync.Mutex
	spinner *Spinner
	label   string
	total   int
	done    int
	failed  int
}

// NewTracker returns a Tracker writing to output (os.Stderr when nil).
func NewTracker(output io.Writer) *Tracker {
	return &Tracker{spinner: NewSpinner(output)}
}

// Begin starts tracking total items under label.
func (t *Tracker) Begin(label string, total int) {
	t.mu.Lock()
	t.label, t.total, t.done, t.failed = label, total, 0, 0
	msg := t.messageLocked()
	t.mu.Unlock()
	t.spinner.Start(msg)
}

// Tick records one finished item. It is safe for concurrent use.
func (t *Tracker) Tick(ok bool) {
	t.mu.Lock()
	t.done++
	if !ok {
		t.failed++
	}
	msg := t.messageLocked()
	t.mu.Unlock()
	t.spinner.SetMessage(msg)
}

// Counts returns the finished and failed item counts.
func (t *Tracker) Counts() (done, failed int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done, t.failed
}

// End stops the spinner, printing final when it is non-empty.
func (t *Tracker) End(final string) {
	if final == "" {
		t.spinner.Stop()
		return
	}
	t.spinner.StopWithMessage(final)
}

func (t *Tracker) messageLocked() string {
	if t.total <= 0 {
		return t.label
	}
	return fmt.Sprintf("%s [%d/%d]", t.label, t.done, t.total)
}
