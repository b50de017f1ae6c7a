package validator

import "fmt"

// Kind groups verdict reasons into the failure taxonomy.
type Kind int

const (
	// KindNone marks a valid key.
	KindNone Kind = iota
	// KindFormat is a local shape failure or a request the provider could not parse.
	KindFormat
	// KindAuth means the provider rejected the key.
	KindAuth
	// KindRateLimited means the provider throttled the probe.
	KindRateLimited
	// KindConnectivity means no response was obtained.
	KindConnectivity
	// KindUnexpected covers everything else.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFormat:
		return "format"
	case KindAuth:
		return "auth"
	case KindRateLimited:
		return "rate_limited"
	case KindConnectivity:
		return "connectivity"
	case KindUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	for c := KindNone; c <= KindUnexpected; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown verdict kind %q", text)
}

// Reason identifies why a key failed. Each reason has a "reason.<name>"
// message in the catalogs.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonEmpty            Reason = "empty"
	ReasonTooShort         Reason = "too_short"
	ReasonWrongPrefix      Reason = "wrong_prefix"
	ReasonInvalidKey       Reason = "invalid_key"
	ReasonMalformedRequest Reason = "malformed_request"
	ReasonPermissionDenied Reason = "permission_denied"
	ReasonNotFound         Reason = "not_found"
	ReasonRateLimited      Reason = "rate_limited"
	ReasonProviderError    Reason = "provider_error"
	ReasonConnection       Reason = "connection"
	ReasonTimeout          Reason = "timeout"
	ReasonUnexpected       Reason = "unexpected"
)

// MessageID returns the catalog ID of the reason's message.
func (r Reason) MessageID() string {
	return "reason." + string(r)
}

// Kind returns the failure kind a reason belongs to.
func (r Reason) Kind() Kind {
	switch r {
	case ReasonNone:
		return KindNone
	case ReasonEmpty, ReasonTooShort, ReasonWrongPrefix, ReasonMalformedRequest:
		return KindFormat
	case ReasonInvalidKey, ReasonPermissionDenied, ReasonNotFound:
		return KindAuth
	case ReasonRateLimited:
		return KindRateLimited
	case ReasonConnection, ReasonTimeout:
		return KindConnectivity
	default:
		return KindUnexpected
	}
}

// Verdict is the outcome of validating one key. Error is set iff Valid is false.
type Verdict struct {
	// Index is the key's 1-based position among the candidates, or 0 for a
	// key validated on its own.
	Index int `json:"index"`

	Valid  bool   `json:"valid"`
	Kind   Kind   `json:"kind"`
	Reason Reason `json:"reason,omitempty"`

	// ProviderMessage is error.message from the provider, when it sent one.
	ProviderMessage string `json:"provider_message,omitempty"`

	// Error is the human-readable failure message.
	Error string `json:"error,omitempty"`
}
