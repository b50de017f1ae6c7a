// Package gemini issues the single request used to check whether an API key
// is accepted by the Gemini generateContent endpoint.
//
// Two transports are available: RESTProber posts the raw JSON body and
// SDKProber goes through the generative-ai-go client. Both report what the
// provider answered as a Response and reserve the error return for the case
// where no answer was obtained at all.
package gemini

import (
	"context"
	"fmt"
)

const (
	// DefaultModel is the model probed when none is configured.
	DefaultModel = "gemini-2.0-flash"

	// DefaultEndpoint is the generateContent URL for DefaultModel.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/" + DefaultModel + ":generateContent"

	// ProbePrompt is the inert prompt sent with every probe.
	ProbePrompt = "test"
)

// Prober sends one probe request authenticated with key.
type Prober interface {
	Probe(ctx context.Context, key string) (*Response, error)
}

// Response is the provider's answer to a probe.
type Response struct {
	// StatusCode is the HTTP status, or its equivalent for SDK errors.
	StatusCode int

	// Message is error.message from the provider's error body, if any.
	Message string

	// Status is error.status, e.g. "INVALID_ARGUMENT".
	Status string

	// Reasons lists the ErrorInfo reasons attached to the error, such as
	// "API_KEY_INVALID".
	Reasons []string
}

// OK reports whether the probe succeeded with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// TransportError means the probe never got a response from the provider.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("no response from provider: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// EndpointFor returns the generateContent URL for model.
func EndpointFor(model string) string {
	if model == "" {
		return DefaultEndpoint
	}
	return "https://generativelanguage.googleapis.com/v1beta/models/" + model + ":generateContent"
}
