// Package httputil builds the HTTP client used for key probes.
//
// Probes carry a live API key in the query string, so the client refuses
// to follow redirects off HTTPS or onto internal addresses where the key
// could leak.
package httputil

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ClientOptions configures the probe client.
type ClientOptions struct {
	// Timeout caps a whole request. Zero leaves the deadline to the
	// caller's context, which is how per-key probe timeouts are applied.
	Timeout time.Duration

	// DialTimeout is the TCP dial timeout. Default: 10s.
	DialTimeout time.Duration

	// TLSHandshakeTimeout is the TLS handshake timeout. Default: 10s.
	TLSHandshakeTimeout time.Duration

	// ResponseHeaderTimeout is the time to wait for response headers. Default: 30s.
	ResponseHeaderTimeout time.Duration

	// MaxRedirects is the maximum redirect depth. Default: 3.
	MaxRedirects int

	// UserAgent is sent on every request when non-empty.
	UserAgent string
}

// DefaultOptions returns the options used for key probes.
func DefaultOptions() ClientOptions {
	return ClientOptions{
		DialTimeout:           10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		MaxRedirects:          3,
	}
}

// NewProbeClient creates an HTTP client for talking to the Gemini API.
//
// Compression stays disabled and redirects must stay on HTTPS and resolve
// to public addresses.
func NewProbeClient(opts ClientOptions) *http.Client {
	def := DefaultOptions()
	if opts.DialTimeout == 0 {
		opts.DialTimeout = def.DialTimeout
	}
	if opts.TLSHandshakeTimeout == 0 {
		opts.TLSHandshakeTimeout = def.TLSHandshakeTimeout
	}
	if opts.ResponseHeaderTimeout == 0 {
		opts.ResponseHeaderTimeout = def.ResponseHeaderTimeout
	}
	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = def.MaxRedirects
	}

	var rt http.RoundTripper = &http.Transport{
		Proxy:              http.ProxyFromEnvironment,
		DisableCompression: true,
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       30 * time.Second,
	}
	if opts.UserAgent != "" {
		rt = &userAgentTransport{base: rt, agent: opts.UserAgent}
	}

	return &http.Client{
		Timeout:       opts.Timeout,
		Transport:     rt,
		CheckRedirect: redirectPolicy(opts.MaxRedirects),
	}
}

type userAgentTransport struct {
	base  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.agent)
	}
	return t.base.RoundTrip(req)
}

// withoutQuery renders u without its query or fragment and with any
// password masked. Probe URLs carry the key in the query.
func withoutQuery(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.ForceQuery = false
	c.Fragment = ""
	c.RawFragment = ""
	return c.Redacted()
}

// redirectPolicy returns a CheckRedirect func enforcing HTTPS and public
// destinations with at most max hops.
func redirectPolicy(max int) func(req *http.Request, via []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if req.URL.Scheme != "https" {
			return fmt.Errorf("redirect to non-HTTPS URL is not allowed: %s", withoutQuery(req.URL))
		}
		if len(via) >= max {
			return fmt.Errorf("stopped after %d redirects", max)
		}

		host := req.URL.Hostname()
		if ip := net.ParseIP(host); ip != nil {
			return ValidateIP(ip, host)
		}

		// Check every address the name resolves to so a rebinding record
		// cannot slip an internal address past the first lookup.
		ips, err := net.LookupIP(host)
		if err != nil {
			return fmt.Errorf("failed to resolve redirect host %s: %w", host, err)
		}
		for _, ip := range ips {
			if err := ValidateIP(ip, host); err != nil {
				return err
			}
		}
		return nil
	}
}
