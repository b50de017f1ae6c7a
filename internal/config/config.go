package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// EnvGemkeyHome overrides the default gemkey home directory.
	EnvGemkeyHome = "GEMKEY_HOME"

	// EnvProbeTimeout bounds a single key validation call, e.g. "15s".
	EnvProbeTimeout = "GEMKEY_PROBE_TIMEOUT"

	// EnvEndpoint replaces the generateContent endpoint used for probes.
	EnvEndpoint = "GEMKEY_ENDPOINT"

	// EnvLang selects the message catalog ("en", "pt-BR").
	EnvLang = "GEMKEY_LANG"

	// DefaultProbeTimeout is the per-key validation deadline.
	DefaultProbeTimeout = 15 * time.Second

	// MinProbeTimeout and MaxProbeTimeout clamp user-supplied timeouts.
	MinProbeTimeout = 1 * time.Second
	MaxProbeTimeout = 2 * time.Minute
)

// GetProbeTimeout returns the per-key validation timeout from GEMKEY_PROBE_TIMEOUT.
// If not set or invalid, returns DefaultProbeTimeout.
// Accepts duration strings like "10s", "1m", "1m30s".
func GetProbeTimeout() time.Duration {
	envValue := os.Getenv(EnvProbeTimeout)
	if envValue == "" {
		return DefaultProbeTimeout
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvProbeTimeout, envValue, DefaultProbeTimeout)
		return DefaultProbeTimeout
	}
	return ClampProbeTimeout(duration)
}

// ClampProbeTimeout forces d into [MinProbeTimeout, MaxProbeTimeout].
func ClampProbeTimeout(d time.Duration) time.Duration {
	if d < MinProbeTimeout {
		fmt.Fprintf(os.Stderr, "Warning: probe timeout too low (%v), using minimum %v\n", d, MinProbeTimeout)
		return MinProbeTimeout
	}
	if d > MaxProbeTimeout {
		fmt.Fprintf(os.Stderr, "Warning: probe timeout too high (%v), using maximum %v\n", d, MaxProbeTimeout)
		return MaxProbeTimeout
	}
	return d
}

// GetEndpoint returns the probe endpoint override from GEMKEY_ENDPOINT, or
// "" when unset. Values that are not absolute http(s) URLs are ignored.
func GetEndpoint() string {
	envValue := strings.TrimSpace(os.Getenv(EnvEndpoint))
	if envValue == "" {
		return ""
	}
	u, err := url.Parse(envValue)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using the default endpoint\n",
			EnvEndpoint, envValue)
		return ""
	}
	return envValue
}

// GetLang returns the language requested through GEMKEY_LANG, or "".
func GetLang() string {
	return strings.TrimSpace(os.Getenv(EnvLang))
}

// DefaultHomeOverride replaces ~/.gemkey when GEMKEY_HOME is unset.
// Tests and development builds set it; GEMKEY_HOME still wins.
var DefaultHomeOverride string

// Config holds gemkey's filesystem layout.
type Config struct {
	HomeDir    string // $GEMKEY_HOME
	ConfigFile string // $GEMKEY_HOME/config.toml
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	home := os.Getenv(EnvGemkeyHome)
	if home == "" {
		if DefaultHomeOverride != "" {
			home = DefaultHomeOverride
		} else {
			userHome, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			home = filepath.Join(userHome, ".gemkey")
		}
	}

	return &Config{
		HomeDir:    home,
		ConfigFile: filepath.Join(home, "config.toml"),
	}, nil
}

// EnsureDirectories creates the home directory with owner-only permissions.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.HomeDir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.HomeDir, err)
	}
	return nil
}
