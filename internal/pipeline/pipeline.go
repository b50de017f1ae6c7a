// Package pipeline turns candidate keys into a ready-to-use bookmarklet.
//
// One Generate call is one attempt: collect, validate every key, and only
// when all of them pass render the script. Attempts share no state.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tsukumogami/gemkey/internal/bookmarklet"
	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/keys"
	"github.com/tsukumogami/gemkey/internal/log"
	"github.com/tsukumogami/gemkey/internal/validator"
)

// Status is the terminal state of an attempt.
type Status string

const (
	StatusNoKeys     Status = "no-keys"
	StatusInvalid    Status = "invalid"
	StatusReady      Status = "ready"
	StatusUnexpected Status = "unexpected"
)

// Stage is a step of an attempt, reported to a StageFunc as it is entered.
type Stage int

const (
	StageIdle Stage = iota
	StageValidating
	StageSynthesizing
	StageReady
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageValidating:
		return "validating"
	case StageSynthesizing:
		return "synthesizing"
	case StageReady:
		return "ready"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageFunc observes stage transitions. message is the localized status
// line for the stage, possibly empty.
type StageFunc func(stage Stage, message string)

// Result is the outcome of one attempt.
type Result struct {
	Status Status `json:"status"`

	// Detail is the artifact when Status is ready, and the human-readable
	// failure report otherwise.
	Detail string `json:"detail"`

	// Summary is the localized one-line status for a ready result.
	Summary string `json:"summary,omitempty"`

	// Verdicts holds every verdict of the validation round, when one ran.
	Verdicts []validator.Verdict `json:"verdicts,omitempty"`
}

// Ready reports whether the attempt produced an artifact.
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Err returns nil for a ready result and a *Failure otherwise.
func (r Result) Err() error {
	if r.Ready() {
		return nil
	}
	f := &Failure{Status: r.Status, Detail: r.Detail}
	seen := make(map[validator.Kind]bool)
	for _, v := range r.Verdicts {
		if !v.Valid && !seen[v.Kind] {
			seen[v.Kind] = true
			f.Kinds = append(f.Kinds, v.Kind)
		}
	}
	return f
}

// Failure is a non-ready attempt as an error.
type Failure struct {
	Status Status
	Detail string

	// Kinds lists the distinct failure kinds among the keys, in key order.
	Kinds []validator.Kind
}

func (f *Failure) Error() string {
	return f.Detail
}

// OnlyKind reports whether every failing key failed with kind k.
func (f *Failure) OnlyKind(k validator.Kind) bool {
	return len(f.Kinds) == 1 && f.Kinds[0] == k
}

// Validator validates a whole candidate set.
type Validator interface {
	ValidateAll(ctx context.Context, keys []string) (*validator.Aggregate, error)
}

// Orchestrator sequences collection, validation and rendering.
type Orchestrator struct {
	validator Validator
	render    func([]string) string
	loc       *i18n.Localizer
	logger    log.Logger
	onStage   StageFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLocalizer selects the language of status messages.
func WithLocalizer(loc *i18n.Localizer) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(l log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithStageFunc registers fn to observe stage transitions.
func WithStageFunc(fn StageFunc) Option {
	return func(o *Orchestrator) {
		o.onStage = fn
	}
}

// New returns an Orchestrator validating through v.
func New(v Validator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		validator: v,
		render:    bookmarklet.Render,
		loc:       i18n.New(i18n.DefaultLang),
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate runs one attempt over candidates. It always returns a Result;
// panics and collaborator errors become StatusUnexpected.
func (o *Orchestrator) Generate(ctx context.Context, candidates []string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("generation panicked", "panic", r)
			// The stage hook may be what panicked, so it is not called again.
			res = Result{
				Status: StatusUnexpected,
				Detail: o.loc.T("status.unexpected", map[string]any{"Message": fmt.Sprint(r)}),
			}
		}
	}()

	o.stage(StageIdle, "")

	collected, err := keys.Collect(candidates)
	if errors.Is(err, keys.ErrTooManyKeys) {
		return o.fail(StatusInvalid, o.loc.T("status.too_many_keys", map[string]any{"Max": keys.MaxKeys}), nil)
	}
	if err != nil {
		return o.unexpected(err)
	}
	if len(collected) == 0 {
		return o.fail(StatusNoKeys, o.loc.T("status.no_keys", nil), nil)
	}

	o.stage(StageValidating, o.loc.T("status.validating", map[string]any{"Count": len(collected)}))
	o.logger.Debug("validating keys", "count", len(collected))

	agg, err := o.validator.ValidateAll(ctx, collected)
	if err != nil {
		return o.unexpected(err)
	}

	if !agg.AllValid() {
		failures := agg.Failures()
		lines := make([]string, len(failures))
		for i, v := range failures {
			lines[i] = o.loc.T("status.key_line", map[string]any{"Index": v.Index, "Message": v.Error})
			o.logger.Debug("key rejected", "index", v.Index, "reason", v.Reason)
		}
		return o.fail(StatusInvalid, strings.Join(lines, "\n"), agg.Verdicts())
	}

	o.stage(StageSynthesizing, o.loc.T("status.all_valid", nil))
	verified := agg.Verified()
	artifact := o.render(verified)

	summary := o.loc.T("status.ready", map[string]any{"Count": len(verified)})
	o.stage(StageReady, summary)
	return Result{
		Status:   StatusReady,
		Detail:   artifact,
		Summary:  summary,
		Verdicts: agg.Verdicts(),
	}
}

func (o *Orchestrator) unexpected(err error) Result {
	o.logger.Error("generation failed", "error", err)
	return o.fail(StatusUnexpected, o.loc.T("status.unexpected", map[string]any{"Message": err.Error()}), nil)
}

func (o *Orchestrator) fail(status Status, detail string, verdicts []validator.Verdict) Result {
	o.stage(StageFailed, detail)
	return Result{Status: status, Detail: detail, Verdicts: verdicts}
}

func (o *Orchestrator) stage(s Stage, message string) {
	if o.onStage != nil {
		o.onStage(s, message)
	}
}
