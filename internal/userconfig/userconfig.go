// Package userconfig provides user configuration management for gemkey.
// Configuration is stored in ~/.gemkey/config.toml and can be modified
// via the `gemkey config` command. API keys are never written here.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tsukumogami/gemkey/internal/config"
)

// Backend names accepted for the probe transport.
const (
	BackendREST = "rest"
	BackendSDK  = "sdk"
)

// Languages with a shipped message catalog.
var supportedLangs = []string{"en", "pt-BR"}

// Config represents user-configurable settings.
type Config struct {
	// Lang selects the message catalog. Default "en".
	Lang string `toml:"lang"`

	// Backend selects how keys are probed: "rest" (raw generateContent
	// call) or "sdk" (generative-ai-go client). Default "rest".
	Backend string `toml:"backend"`

	// Model is the Gemini model used by the sdk backend.
	Model string `toml:"model,omitempty"`

	// ProbeTimeout bounds each key validation, as a duration string.
	ProbeTimeout string `toml:"probe_timeout,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Lang:    "en",
		Backend: BackendREST,
	}
}

// Load reads the config file and returns the configuration.
// Returns default values if the file doesn't exist.
// Returns an error only for file parsing issues, not missing files.
func Load() (*Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadFromPath(cfg.ConfigFile)
}

func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return userCfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return c.saveToPath(cfg.ConfigFile)
}

func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Timeout parses ProbeTimeout. ok is false when the field is empty or
// unparseable, in which case callers fall back to config.GetProbeTimeout.
func (c *Config) Timeout() (d time.Duration, ok bool) {
	if c.ProbeTimeout == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.ProbeTimeout)
	if err != nil {
		return 0, false
	}
	return config.ClampProbeTimeout(d), true
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "lang":
		return c.Lang, true
	case "backend":
		return c.Backend, true
	case "model":
		return c.Model, true
	case "probe_timeout":
		return c.ProbeTimeout, true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "lang":
		lang, err := NormalizeLang(value)
		if err != nil {
			return err
		}
		c.Lang = lang
	case "backend":
		switch strings.ToLower(value) {
		case BackendREST, BackendSDK:
			c.Backend = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid value for backend: must be %q or %q", BackendREST, BackendSDK)
		}
	case "model":
		c.Model = value
	case "probe_timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid value for probe_timeout: %w", err)
			}
		}
		c.ProbeTimeout = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// NormalizeLang maps a user-supplied language tag onto a shipped catalog.
func NormalizeLang(value string) (string, error) {
	for _, l := range supportedLangs {
		if strings.EqualFold(l, value) {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid value for lang: must be one of %s", strings.Join(supportedLangs, ", "))
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"lang":          "Message language (en, pt-BR)",
		"backend":       "Key probe transport (rest, sdk)",
		"model":         "Gemini model used by the sdk backend",
		"probe_timeout": "Per-key validation timeout (e.g. 15s)",
	}
}
