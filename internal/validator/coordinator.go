package validator

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// ErrNoCandidates is returned when ValidateAll is called without keys.
var ErrNoCandidates = errors.New("no candidate keys to validate")

// Coordinator validates a candidate set concurrently.
type Coordinator struct {
	validator KeyValidator
	onVerdict func(Verdict)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// OnVerdict registers fn to be called as each verdict completes. fn runs on
// the validating goroutine and must be safe for concurrent use.
func OnVerdict(fn func(Verdict)) CoordinatorOption {
	return func(c *Coordinator) {
		c.onVerdict = fn
	}
}

// NewCoordinator returns a Coordinator delegating each key to v.
func NewCoordinator(v KeyValidator, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{validator: v}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateAll validates every key at once and waits for all of them. A
// failing key never cancels the others, so the result reports every problem
// in one round.
func (c *Coordinator) ValidateAll(ctx context.Context, keys []string) (*Aggregate, error) {
	if len(keys) == 0 {
		return nil, ErrNoCandidates
	}

	verdicts := make([]Verdict, len(keys))

	// A plain Group: no derived context, so one failure cancels nothing.
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			v := c.validator.Validate(ctx, key)
			v.Index = i + 1
			verdicts[i] = v
			if c.onVerdict != nil {
				c.onVerdict(v)
			}
			return nil
		})
	}
	_ = g.Wait()

	return &Aggregate{
		keys:     append([]string(nil), keys...),
		verdicts: verdicts,
	}, nil
}

// Aggregate is the all-or-nothing result of one validation round.
type Aggregate struct {
	keys     []string
	verdicts []Verdict
}

// AllValid reports whether every verdict in the round is valid.
func (a *Aggregate) AllValid() bool {
	for _, v := range a.verdicts {
		if !v.Valid {
			return false
		}
	}
	return true
}

// Verified returns the keys in input order when the round is all valid and
// nil otherwise.
func (a *Aggregate) Verified() []string {
	if !a.AllValid() {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Failures returns the failing verdicts ordered by index.
func (a *Aggregate) Failures() []Verdict {
	var out []Verdict
	for _, v := range a.verdicts {
		if !v.Valid {
			out = append(out, v)
		}
	}
	return out
}

// Verdicts returns every verdict ordered by index.
func (a *Aggregate) Verdicts() []Verdict {
	return append([]Verdict(nil), a.verdicts...)
}

// Kinds returns the distinct failure kinds in order of first appearance.
func (a *Aggregate) Kinds() []Kind {
	var out []Kind
	seen := make(map[Kind]bool)
	for _, v := range a.Failures() {
		if !seen[v.Kind] {
			seen[v.Kind] = true
			out = append(out, v.Kind)
		}
	}
	return out
}
