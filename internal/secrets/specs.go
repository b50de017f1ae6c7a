package secrets

// KeySpec defines how to resolve a specific secret.
type KeySpec struct {
	// Slot is the 1-based injection position the key occupies.
	Slot int

	// EnvVars lists environment variables to check, in priority order.
	EnvVars []string

	// Desc is a human-readable description for error messages and CLI display.
	Desc string
}

// knownKeys maps secret names to their resolution specs.
// Adding a new slot is one entry here.
var knownKeys = map[string]KeySpec{
	"gemini_api_key": {
		Slot:    1,
		EnvVars: []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"},
		Desc:    "First Gemini API key",
	},
	"gemini_api_key_2": {
		Slot:    2,
		EnvVars: []string{"GEMINI_API_KEY_2"},
		Desc:    "Second Gemini API key",
	},
	"gemini_api_key_3": {
		Slot:    3,
		EnvVars: []string{"GEMINI_API_KEY_3"},
		Desc:    "Third Gemini API key",
	},
}
