package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tsukumogami/gemkey/internal/log"
)

// probeBody is the minimal generateContent payload carrying ProbePrompt.
const probeBody = `{"contents":[{"parts":[{"text":"` + ProbePrompt + `"}]}]}`

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// RESTProber probes keys with a plain POST to the generateContent endpoint.
type RESTProber struct {
	endpoint string
	client   *http.Client
	logger   log.Logger
}

// NewRESTProber returns a prober posting to endpoint (DefaultEndpoint when
// empty) through client.
func NewRESTProber(endpoint string, client *http.Client) *RESTProber {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTProber{endpoint: endpoint, client: client, logger: log.Default()}
}

// Endpoint returns the URL probes are posted to, without a key.
func (p *RESTProber) Endpoint() string {
	return p.endpoint
}

// Probe sends exactly one request with key in the query string.
func (p *RESTProber) Probe(ctx context.Context, key string) (*Response, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid probe endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(probeBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build probe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger := p.logger.With("key", log.Redact(key))
	logger.Debug("sending probe", "endpoint", p.endpoint)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: RedactKey(err, key)}
	}
	defer resp.Body.Close()

	out := &Response{StatusCode: resp.StatusCode}
	if out.OK() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("probe accepted", "status", resp.StatusCode)
		return out, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		logger.Debug("failed to read error body", "error", err)
		return out, nil
	}
	parseErrorBody(body, out)
	logger.Debug("probe rejected", "status", resp.StatusCode, "provider_status", out.Status)
	return out, nil
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
		Details []struct {
			Reason string `json:"reason"`
		} `json:"details"`
	} `json:"error"`
}

// parseErrorBody fills the provider fields of out from a Google API error
// body. Unparseable bodies leave them empty.
func parseErrorBody(body []byte, out *Response) {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return
	}
	out.Message = eb.Error.Message
	out.Status = eb.Error.Status
	for _, d := range eb.Error.Details {
		if d.Reason != "" {
			out.Reasons = append(out.Reasons, d.Reason)
		}
	}
}

// scrubKey removes the key from errors that echo the request URL.
func scrubKey(err error, key string) error {
	var uerr *url.Error
	if key == "" || !errors.As(err, &uerr) {
		return err
	}
	redacted := *uerr
	redacted.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(key), log.Redact(key))
	return &redacted
}

// redactedError is an error whose text had a key masked out.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// RedactKey returns err with every occurrence of key in its text masked.
// err is returned unchanged when its text does not contain the key.
func RedactKey(err error, key string) error {
	if err == nil || key == "" {
		return err
	}
	err = scrubKey(err, key)
	msg := err.Error()
	masked := log.Redact(key)
	clean := strings.ReplaceAll(msg, url.QueryEscape(key), masked)
	clean = strings.ReplaceAll(clean, key, masked)
	if clean == msg {
		return err
	}
	return &redactedError{msg: clean, err: err}
}
