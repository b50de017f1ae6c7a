package functional

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tsukumogami/gemkey/internal/bookmarklet"
)

// aCleanGemkeyEnvironment is a no-op because the Before hook already sets up
// the environment. This step exists so feature files read naturally.
func aCleanGemkeyEnvironment(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func theGeminiAPIAcceptsEveryKey(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

func theGeminiAPIAnswersFor(ctx context.Context, status int, key string) (context.Context, error) {
	state := getState(ctx)
	state.mu.Lock()
	state.statuses[expandKeys(key)] = status
	state.mu.Unlock()
	return ctx, nil
}

// theGeminiAPIIsUnreachable points gemkey at a port nothing listens on.
func theGeminiAPIIsUnreachable(ctx context.Context) (context.Context, error) {
	state := getState(ctx)
	closed := httptest.NewServer(http.NotFoundHandler())
	state.endpoint = closed.URL
	closed.Close()
	return ctx, nil
}

func theEnvironmentVariableIs(ctx context.Context, name, value string) (context.Context, error) {
	state := getState(ctx)
	state.env = append(state.env, name+"="+expandKeys(value))
	return ctx, nil
}

// iRun executes a command string, replacing "gemkey" with the test binary path.
func iRun(ctx context.Context, command string) (context.Context, error) {
	return run(ctx, command, "")
}

// iRunWithStdin is iRun with stdin fed from input. "\n" in input is a newline.
func iRunWithStdin(ctx context.Context, command, input string) (context.Context, error) {
	return run(ctx, command, strings.ReplaceAll(input, `\n`, "\n"))
}

func run(ctx context.Context, command, input string) (context.Context, error) {
	state := getState(ctx)
	if state == nil {
		return ctx, fmt.Errorf("no test state; is the Before hook running?")
	}

	args := strings.Fields(expandKeys(command))
	if len(args) > 0 && args[0] == "gemkey" {
		args[0] = state.binPath
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = state.workDir
	cmd.Stdin = strings.NewReader(expandKeys(input))

	// Keys from the developer's shell must not leak into scenarios.
	env := append(os.Environ(),
		"GEMKEY_HOME="+state.homeDir,
		"GEMKEY_ENDPOINT="+state.endpoint,
		"GEMKEY_LANG=",
		"GEMINI_API_KEY=",
		"GOOGLE_API_KEY=",
		"GEMINI_API_KEY_2=",
		"GEMINI_API_KEY_3=",
	)
	cmd.Env = append(env, state.env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		state.exitCode = 0
	case errors.As(err, &exitErr):
		state.exitCode = exitErr.ExitCode()
	default:
		return ctx, fmt.Errorf("command execution failed: %w", err)
	}
	return ctx, nil
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	text = expandKeys(text)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	text = expandKeys(text)
	if strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout not to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theOutputIsEmpty(ctx context.Context) error {
	state := getState(ctx)
	if state.stdout != "" {
		return fmt.Errorf("expected empty stdout, got:\n%s", state.stdout)
	}
	return nil
}

// scriptFor renders the expected bookmarklet for a space-separated key list.
func scriptFor(keyList string) string {
	return bookmarklet.Render(strings.Fields(expandKeys(keyList)))
}

func theOutputIsTheScriptFor(ctx context.Context, keyList string) error {
	state := getState(ctx)
	if want := scriptFor(keyList) + "\n"; state.stdout != want {
		return fmt.Errorf("unexpected script on stdout\nwant: %s\ngot:  %s\nstderr: %s", want, state.stdout, state.stderr)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	text = expandKeys(text)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theErrorOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	text = expandKeys(text)
	if strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr not to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theFileContainsTheScriptFor(ctx context.Context, path, keyList string) error {
	state := getState(ctx)
	data, err := os.ReadFile(filepath.Join(state.workDir, path))
	if err != nil {
		return fmt.Errorf("expected file %q: %w", path, err)
	}
	if string(data) != scriptFor(keyList) {
		return fmt.Errorf("file %q does not hold the expected script:\n%s", path, data)
	}
	return nil
}

func theGeminiAPIReceivedProbes(ctx context.Context, n int) error {
	state := getState(ctx)
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.probes != n {
		return fmt.Errorf("expected %d probes, got %d", n, state.probes)
	}
	return nil
}
