package gemini

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tsukumogami/gemkey/internal/log"
)

// generateFunc performs one generateContent call authenticated with key.
type generateFunc func(ctx context.Context, key, model string) error

// SDKProber probes keys through the generative-ai-go client.
type SDKProber struct {
	model    string
	generate generateFunc
	logger   log.Logger
}

// NewSDKProber returns a prober for model (DefaultModel when empty). opts are
// passed to every client it creates, after the key.
func NewSDKProber(model string, opts ...option.ClientOption) *SDKProber {
	if model == "" {
		model = DefaultModel
	}
	return &SDKProber{
		model:    model,
		generate: sdkGenerate(opts),
		logger:   log.Default(),
	}
}

func sdkGenerate(opts []option.ClientOption) generateFunc {
	return func(ctx context.Context, key, model string) error {
		clientOpts := append([]option.ClientOption{option.WithAPIKey(key)}, opts...)
		client, err := genai.NewClient(ctx, clientOpts...)
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		defer client.Close()

		_, err = client.GenerativeModel(model).GenerateContent(ctx, genai.Text(ProbePrompt))
		return err
	}
}

// Model returns the probed model name.
func (p *SDKProber) Model() string {
	return p.model
}

// Probe makes one GenerateContent call and translates the outcome.
func (p *SDKProber) Probe(ctx context.Context, key string) (*Response, error) {
	logger := p.logger.With("key", log.Redact(key), "model", p.model)
	logger.Debug("sending sdk probe")

	err := p.generate(ctx, key, p.model)
	var blocked *genai.BlockedError
	if err == nil || errors.As(err, &blocked) {
		// A blocked prompt still means the key was accepted.
		return &Response{StatusCode: http.StatusOK}, nil
	}
	if cause := noAnswer(ctx, err); cause != nil {
		return nil, &TransportError{Err: RedactKey(cause, key)}
	}

	resp, ok := responseFromError(err)
	if !ok {
		return nil, RedactKey(err, key)
	}
	logger.Debug("sdk probe rejected", "status", resp.StatusCode, "provider_status", resp.Status)
	return resp, nil
}

// noAnswer returns the error to report when err means the provider never
// answered, or nil when err may carry a provider response. SDK deadline and
// cancellation codes are rewrapped so they match the context errors.
func noAnswer(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	case codes.Canceled:
		return fmt.Errorf("%w: %w", context.Canceled, err)
	}
	var uerr *url.Error
	var nerr net.Error
	if errors.As(err, &uerr) || errors.As(err, &nerr) {
		return err
	}
	return nil
}

var grpcToHTTP = map[codes.Code]struct {
	status int
	name   string
}{
	codes.InvalidArgument:    {http.StatusBadRequest, "INVALID_ARGUMENT"},
	codes.FailedPrecondition: {http.StatusBadRequest, "FAILED_PRECONDITION"},
	codes.Unauthenticated:    {http.StatusUnauthorized, "UNAUTHENTICATED"},
	codes.PermissionDenied:   {http.StatusForbidden, "PERMISSION_DENIED"},
	codes.NotFound:           {http.StatusNotFound, "NOT_FOUND"},
	codes.ResourceExhausted:  {http.StatusTooManyRequests, "RESOURCE_EXHAUSTED"},
	codes.Internal:           {http.StatusInternalServerError, "INTERNAL"},
	codes.Unavailable:        {http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// responseFromError turns an API error returned by the SDK into the HTTP
// shaped Response the REST transport would have produced. ok is false for
// errors that carry no provider answer.
func responseFromError(err error) (*Response, bool) {
	ae, ok := apierror.FromError(err)
	if !ok {
		return nil, false
	}

	resp := &Response{}
	if r := ae.Reason(); r != "" {
		resp.Reasons = []string{r}
	}

	if code := ae.HTTPCode(); code > 0 {
		resp.StatusCode = code
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			resp.Message = gerr.Message
			for _, item := range gerr.Errors {
				if item.Reason != "" {
					resp.Reasons = append(resp.Reasons, item.Reason)
				}
			}
		}
		return resp, true
	}

	st := ae.GRPCStatus()
	if st == nil {
		return nil, false
	}
	switch st.Code() {
	case codes.Canceled, codes.DeadlineExceeded:
		return nil, false
	}
	resp.Message = st.Message()
	if m, ok := grpcToHTTP[st.Code()]; ok {
		resp.StatusCode = m.status
		resp.Status = m.name
	} else {
		resp.StatusCode = http.StatusInternalServerError
		resp.Status = st.Code().String()
	}
	return resp, true
}
