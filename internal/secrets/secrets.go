// Package secrets resolves candidate Gemini API keys from the environment.
//
// Each known secret is defined in the knownKeys table (specs.go), which maps
// a canonical name to one or more environment variable aliases and to the
// slot the key occupies in the generated bookmarklet. Keys are only ever
// read; gemkey has no place where it persists them.
package secrets

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// KeyInfo describes a registered secret for external consumers.
type KeyInfo struct {
	// Name is the canonical key name (e.g., "gemini_api_key").
	Name string

	// Slot is the 1-based injection position.
	Slot int

	// EnvVars lists environment variables checked, in priority order.
	EnvVars []string

	// Desc is a human-readable description.
	Desc string
}

// Get resolves a secret by name from its environment variables.
// Returns the first non-empty (trimmed) value found, or an error if the key
// is unknown or no variable is set.
func Get(name string) (string, error) {
	spec, ok := knownKeys[name]
	if !ok {
		return "", fmt.Errorf("unknown secret key: %q", name)
	}

	if val := lookup(spec); val != "" {
		return val, nil
	}

	envList := strings.Join(spec.EnvVars, " or ")
	return "", fmt.Errorf(
		"%s not configured. Set the %s environment variable, or pass the key on the command line",
		name, envList,
	)
}

// IsSet checks whether a secret is available without returning its value.
// Returns false for unknown keys.
func IsSet(name string) bool {
	spec, ok := knownKeys[name]
	if !ok {
		return false
	}
	return lookup(spec) != ""
}

// Candidates returns the environment-supplied keys in slot order. Unset
// slots are skipped, so GEMINI_API_KEY_3 alone yields a one-element slice.
func Candidates() []string {
	infos := KnownKeys()
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Slot < infos[j].Slot })

	var out []string
	for _, info := range infos {
		if val := lookup(knownKeys[info.Name]); val != "" {
			out = append(out, val)
		}
	}
	return out
}

// KnownKeys returns metadata for all registered secrets, sorted by name.
func KnownKeys() []KeyInfo {
	keys := make([]KeyInfo, 0, len(knownKeys))
	for name, spec := range knownKeys {
		keys = append(keys, KeyInfo{
			Name:    name,
			Slot:    spec.Slot,
			EnvVars: spec.EnvVars,
			Desc:    spec.Desc,
		})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name < keys[j].Name
	})
	return keys
}

func lookup(spec KeySpec) string {
	for _, env := range spec.EnvVars {
		if val := strings.TrimSpace(os.Getenv(env)); val != "" {
			return val
		}
	}
	return ""
}
