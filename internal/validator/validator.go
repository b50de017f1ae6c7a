// Package validator decides whether Gemini API keys are usable.
//
// A Validator runs local shape checks and then a single provider probe per
// key, folding every outcome into a Verdict; it never returns an error. A
// Coordinator validates a whole candidate set concurrently and reduces the
// verdicts to an all-or-nothing Aggregate.
package validator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tsukumogami/gemkey/internal/config"
	"github.com/tsukumogami/gemkey/internal/gemini"
	"github.com/tsukumogami/gemkey/internal/i18n"
	"github.com/tsukumogami/gemkey/internal/log"
)

const (
	// MinKeyLength is the shortest key accepted before probing.
	MinKeyLength = 30

	// KeyPrefix starts every Gemini API key.
	KeyPrefix = "AIza"

	// invalidKeyMarker is the provider's marker for an unknown or mangled key.
	invalidKeyMarker = "API_KEY_INVALID"
)

// KeyValidator validates a single key.
type KeyValidator interface {
	Validate(ctx context.Context, key string) Verdict
}

// Validator checks keys against a gemini.Prober.
type Validator struct {
	prober  gemini.Prober
	timeout time.Duration
	loc     *i18n.Localizer
	logger  log.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithTimeout bounds each probe. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithLocalizer selects the language of verdict messages.
func WithLocalizer(loc *i18n.Localizer) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(l log.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// New returns a Validator probing through p.
func New(p gemini.Prober, opts ...Option) *Validator {
	v := &Validator{
		prober:  p,
		timeout: config.DefaultProbeTimeout,
		loc:     i18n.New(i18n.DefaultLang),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CheckFormat runs the local checks in order and returns the first failing
// reason, or ReasonNone. It never touches the network.
func CheckFormat(key string) Reason {
	switch {
	case strings.TrimSpace(key) == "":
		return ReasonEmpty
	case utf8.RuneCountInString(key) < MinKeyLength:
		return ReasonTooShort
	case !strings.HasPrefix(key, KeyPrefix):
		return ReasonWrongPrefix
	}
	return ReasonNone
}

// Validate checks key locally and, if that passes, probes it once.
func (v *Validator) Validate(ctx context.Context, key string) (verdict Verdict) {
	logger := v.logger.With("key", log.Redact(key))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("key validation panicked", "panic", r)
			verdict = v.fail(ReasonUnexpected, "", map[string]any{"Message": fmt.Sprint(r)})
		}
	}()

	if reason := CheckFormat(key); reason != ReasonNone {
		logger.Debug("key failed local checks", "reason", reason)
		return v.fail(reason, "", nil)
	}

	probeCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.prober.Probe(probeCtx, key)
	if err != nil {
		err = gemini.RedactKey(err, key)
		logger.Debug("probe got no response", "error", err)
		return v.fromError(err)
	}
	return v.classify(resp)
}

// classify maps a provider response onto a verdict.
func (v *Validator) classify(resp *gemini.Response) Verdict {
	if resp.OK() {
		return Verdict{Valid: true, Kind: KindNone}
	}

	var reason Reason
	switch resp.StatusCode {
	case http.StatusBadRequest:
		if rejectsKey(resp) {
			reason = ReasonInvalidKey
		} else {
			reason = ReasonMalformedRequest
		}
	case http.StatusUnauthorized:
		reason = ReasonInvalidKey
	case http.StatusForbidden:
		reason = ReasonPermissionDenied
	case http.StatusNotFound:
		reason = ReasonNotFound
	case http.StatusTooManyRequests:
		reason = ReasonRateLimited
	default:
		msg := resp.Message
		if msg == "" {
			msg = v.loc.T("reason.unknown_error", nil)
		}
		return v.fail(ReasonProviderError, resp.Message, map[string]any{"Message": msg})
	}
	return v.fail(reason, resp.Message, nil)
}

// rejectsKey reports whether a 400 response names the key itself as the problem.
func rejectsKey(resp *gemini.Response) bool {
	if strings.Contains(resp.Message, invalidKeyMarker) || resp.Status == invalidKeyMarker {
		return true
	}
	for _, r := range resp.Reasons {
		if r == invalidKeyMarker {
			return true
		}
	}
	return false
}

func (v *Validator) fromError(err error) Verdict {
	var terr *gemini.TransportError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return v.fail(ReasonTimeout, "", map[string]any{"Timeout": v.timeout})
	case errors.As(err, &terr):
		return v.fail(ReasonConnection, "", nil)
	default:
		return v.fail(ReasonUnexpected, "", map[string]any{"Message": err.Error()})
	}
}

func (v *Validator) fail(reason Reason, providerMsg string, data map[string]any) Verdict {
	return Verdict{
		Valid:           false,
		Kind:            reason.Kind(),
		Reason:          reason,
		ProviderMessage: providerMsg,
		Error:           v.loc.T(reason.MessageID(), data),
	}
}
