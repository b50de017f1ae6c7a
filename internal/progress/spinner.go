package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

const (
	spinnerInterval = 100 * time.Millisecond
	lineWidth       = 80
)

// Spinner animates a single status line on a terminal. On other outputs it
// prints each distinct message once.
type Spinner struct {
	mu      sync.Mutex
	output  io.Writer
	message string
	printed string
	running bool
	isTTY   bool
	done    chan struct{}
	exited  chan struct{}
}

// NewSpinner creates a spinner writing to output (os.Stderr when nil).
func NewSpinner(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{output: output, isTTY: ShouldShowProgress()}
}

// Start shows message and, on a terminal, begins animating it. Starting a
// running spinner only replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if s.running {
		s.printPlainLocked()
		return
	}
	s.running = true
	if !s.isTTY {
		s.printPlainLocked()
		return
	}
	s.done = make(chan struct{})
	s.exited = make(chan struct{})
	go s.animate(s.done, s.exited)
}

// SetMessage replaces the message shown by a running spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if s.running {
		s.printPlainLocked()
	}
}

// Stop halts the spinner and clears its line.
func (s *Spinner) Stop() {
	s.stop("")
}

// StopWithMessage halts the spinner and prints message on its own line.
func (s *Spinner) StopWithMessage(message string) {
	s.stop(message)
}

func (s *Spinner) stop(final string) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	done, exited := s.done, s.exited
	s.mu.Unlock()

	if s.isTTY {
		close(done)
		<-exited
		fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", lineWidth))
	}
	if final != "" {
		fmt.Fprintln(s.output, final)
	}
}

// printPlainLocked writes the message once when not animating.
func (s *Spinner) printPlainLocked() {
	if s.isTTY || s.message == s.printed {
		return
	}
	s.printed = s.message
	fmt.Fprintln(s.output, s.message)
}

func (s *Spinner) animate(done <-chan struct{}, exited chan<- struct{}) {
	defer close(exited)

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		s.mu.Lock()
		line := fmt.Sprintf("\r%s %s", spinnerFrames[frame%len(spinnerFrames)], s.message)
		s.mu.Unlock()
		if len(line) < lineWidth {
			line += strings.Repeat(" ", lineWidth-len(line))
		}
		fmt.Fprint(s.output, line)

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}
