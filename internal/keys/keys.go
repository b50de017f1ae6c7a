// Package keys gathers candidate API keys from user input.
//
// Collection is pure extraction: entries are trimmed, empty entries are
// dropped and the remaining order is kept, because position decides both the
// index reported in error messages and the injection order in the artifact.
package keys

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxKeys is the number of keys a single generation attempt accepts.
const MaxKeys = 3

// ErrTooManyKeys is returned when more than MaxKeys non-empty keys are supplied.
var ErrTooManyKeys = fmt.Errorf("at most %d keys may be supplied", MaxKeys)

// Collect trims every raw entry and drops the empty ones, preserving order.
// An empty result is not an error here; rejecting zero candidates is the
// orchestrator's job.
func Collect(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if k := strings.TrimSpace(r); k != "" {
			out = append(out, k)
		}
	}
	if len(out) > MaxKeys {
		return nil, fmt.Errorf("%w: got %d", ErrTooManyKeys, len(out))
	}
	return out, nil
}

// ReadFrom reads one key per line (LF or CRLF) and collects them.
func ReadFrom(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read keys: %w", err)
	}
	return Collect(lines)
}

var (
	// ErrSlotLimit is returned by Slots.Add when MaxKeys slots exist.
	ErrSlotLimit = errors.New("key slot limit reached")

	// ErrLastSlot is returned by Slots.Remove when only one slot is left.
	ErrLastSlot = errors.New("cannot remove the last key slot")

	// ErrSlotIndex is returned for an index outside the current slots.
	ErrSlotIndex = errors.New("key slot index out of range")
)

// Slots models the editable list of key inputs: it always holds between one
// and MaxKeys entries, some of which may still be blank.
type Slots struct {
	values []string
}

// NewSlots returns a Slots with a single blank entry.
func NewSlots() *Slots {
	return &Slots{values: []string{""}}
}

// Len reports the number of slots, blank ones included.
func (s *Slots) Len() int {
	return len(s.values)
}

// Add appends a blank slot.
func (s *Slots) Add() error {
	if len(s.values) >= MaxKeys {
		return ErrSlotLimit
	}
	s.values = append(s.values, "")
	return nil
}

// Set stores value in slot i (0-based).
func (s *Slots) Set(i int, value string) error {
	if i < 0 || i >= len(s.values) {
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	s.values[i] = value
	return nil
}

// Remove deletes slot i (0-based) and its value. Later slots shift down.
func (s *Slots) Remove(i int) error {
	if i < 0 || i >= len(s.values) {
		return fmt.Errorf("%w: %d", ErrSlotIndex, i)
	}
	if len(s.values) == 1 {
		return ErrLastSlot
	}
	s.values = append(s.values[:i], s.values[i+1:]...)
	return nil
}

// Values returns a copy of the raw slot contents.
func (s *Slots) Values() []string {
	return append([]string(nil), s.values...)
}

// Candidates collects the non-blank slot values in order.
func (s *Slots) Candidates() []string {
	// Slots never exceeds MaxKeys, so Collect cannot fail here.
	out, _ := Collect(s.values)
	return out
}
