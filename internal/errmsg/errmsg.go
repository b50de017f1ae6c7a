// Package errmsg formats errors for the terminal with likely causes and
// suggested next steps.
package errmsg

import (
	"errors"
	"net"
	"strings"

	"github.com/tsukumogami/gemkey/internal/config"
	"github.com/tsukumogami/gemkey/internal/keys"
	"github.com/tsukumogami/gemkey/internal/pipeline"
	"github.com/tsukumogami/gemkey/internal/validator"
)

// KeysURL is where Gemini API keys are created and managed.
const KeysURL = "https://aistudio.google.com/app/apikey"

// ErrorContext provides additional context for error formatting.
type ErrorContext struct {
	// Backend is the probe transport in use ("rest" or "sdk").
	Backend string
}

// advice is one "Possible causes / Suggestions" block.
type advice struct {
	causes      []string
	suggestions []string
}

var kindAdvice = map[validator.Kind]advice{
	validator.KindFormat: {
		causes: []string{
			"The key was only partially copied",
			"The value is not a Gemini API key",
		},
		suggestions: []string{
			"Copy the key again from " + KeysURL,
			"Gemini keys start with \"" + validator.KeyPrefix + "\" and are at least 30 characters long",
		},
	},
	validator.KindAuth: {
		causes: []string{
			"The key was deleted or regenerated",
			"The Generative Language API is not enabled for the key's project",
			"The key is restricted to other APIs",
		},
		suggestions: []string{
			"Create a new key at " + KeysURL,
			"Enable the Generative Language API in the Google Cloud console",
		},
	},
	validator.KindRateLimited: {
		causes: []string{
			"Too many requests were made with this key",
			"The project's free tier quota is exhausted",
		},
		suggestions: []string{
			"Wait a few minutes before retrying",
			"Use a key from a different project",
		},
	},
	validator.KindConnectivity: {
		causes: []string{
			"Network connectivity issue",
			"Firewall or proxy blocking generativelanguage.googleapis.com",
			"Slow connection hitting the probe timeout",
		},
		suggestions: []string{
			"Check your internet connection",
			"Raise the timeout with --timeout or " + config.EnvProbeTimeout,
		},
	},
	validator.KindUnexpected: {
		causes: []string{
			"Gemini service temporarily unavailable",
		},
		suggestions: []string{
			"Try again in a few minutes",
			"Run with --debug to see the provider's response",
		},
	},
}

// Format returns a formatted error message with possible causes and suggestions.
// The context parameter is optional - pass nil for generic formatting.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}

	var failure *pipeline.Failure
	if errors.As(err, &failure) {
		return formatFailure(failure, ctx)
	}

	if errors.Is(err, keys.ErrTooManyKeys) {
		return render(err.Error(), advice{
			suggestions: []string{"Pass at most 3 keys; extra keys can be used in a separate run"},
		})
	}

	errMsg := err.Error()

	var netErr net.Error
	if errors.As(err, &netErr) {
		return formatNetworkError(netErr)
	}
	if isNetworkError(errMsg) {
		return render(errMsg, kindAdvice[validator.KindConnectivity])
	}
	if isPermissionError(errMsg) {
		return render(errMsg, advice{
			causes: []string{
				"The output path is not writable",
				"The file or directory is owned by a different user",
			},
			suggestions: []string{
				"Choose a different path with --output",
				"Check permissions on the target directory",
			},
		})
	}

	return errMsg
}

func formatFailure(f *pipeline.Failure, ctx *ErrorContext) string {
	switch f.Status {
	case pipeline.StatusNoKeys:
		return render(f.Detail, advice{
			suggestions: []string{
				"Pass keys as arguments: gemkey generate <key>...",
				"Pipe keys one per line with --stdin",
				"Set GEMINI_API_KEY (and GEMINI_API_KEY_2, GEMINI_API_KEY_3)",
			},
		})
	case pipeline.StatusUnexpected:
		return render(f.Detail, kindAdvice[validator.KindUnexpected])
	}

	var merged advice
	for _, k := range f.Kinds {
		a := kindAdvice[k]
		merged.causes = append(merged.causes, a.causes...)
		merged.suggestions = append(merged.suggestions, a.suggestions...)
	}
	if ctx != nil && ctx.Backend != "" && len(f.Kinds) > 0 {
		other := "sdk"
		if ctx.Backend == "sdk" {
			other = "rest"
		}
		if f.OnlyKind(validator.KindUnexpected) || f.OnlyKind(validator.KindConnectivity) {
			merged.suggestions = append(merged.suggestions, "Try the other probe transport with --backend "+other)
		}
	}
	return render(f.Detail, merged)
}

func formatNetworkError(err net.Error) string {
	a := kindAdvice[validator.KindConnectivity]
	if err.Timeout() {
		a.causes = append([]string{"Request timed out"}, a.causes...)
	}
	return render(err.Error(), a)
}

func render(msg string, a advice) string {
	if len(a.causes) == 0 && len(a.suggestions) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)
	sb.WriteString("\n")
	if len(a.causes) > 0 {
		sb.WriteString("\nPossible causes:\n")
		for _, c := range a.causes {
			sb.WriteString("  - " + c + "\n")
		}
	}
	if len(a.suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range a.suggestions {
			sb.WriteString("  - " + s + "\n")
		}
	}
	return sb.String()
}

// isNetworkError checks if the error message indicates a network issue
func isNetworkError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "dial tcp") ||
		strings.Contains(lower, "i/o timeout")
}

// isPermissionError checks if the error message indicates a permission issue
func isPermissionError(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "access denied") ||
		strings.Contains(lower, "operation not permitted")
}
