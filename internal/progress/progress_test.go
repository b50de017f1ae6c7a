package progress

import (
	"sync"
	"testing"
)

func TestShouldShowProgress(t *testing.T) {
	withTerminal(t, true)
	if !ShouldShowProgress() {
		t.Error("expected progress on a terminal")
	}
	withTerminal(t, false)
	if ShouldShowProgress() {
		t.Error("expected no progress off a terminal")
	}
}

func TestTrackerNonTTY(t *testing.T) {
	withTerminal(t, false)

	out := &syncBuffer{}
	tr := NewTracker(out)
	tr.Begin("Validating 2 API key(s)...", 2)
	tr.Tick(true)
	tr.Tick(false)
	tr.End("done")

	want := "Validating 2 API key(s)... [0/2]\n" +
		"Validating 2 API key(s)... [1/2]\n" +
		"Validating 2 API key(s)... [2/2]\n" +
		"done\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestTrackerConcurrentTicks(t *testing.T) {
	withTerminal(t, true)

	tr := NewTracker(&syncBuffer{})
	tr.Begin("Validating", 3)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(ok bool) {
			defer wg.Done()
			tr.Tick(ok)
		}(i != 1)
	}
	wg.Wait()
	tr.End("")

	done, failed := tr.Counts()
	if done != 3 || failed != 1 {
		t.Errorf("Counts() = %d, %d; want 3, 1", done, failed)
	}
}

func TestTrackerWithoutTotal(t *testing.T) {
	withTerminal(t, false)

	out := &syncBuffer{}
	tr := NewTracker(out)
	tr.Begin("Working", 0)
	tr.End("")

	if got := out.String(); got != "Working\n" {
		t.Errorf("output = %q, want %q", got, "Working\n")
	}
}
