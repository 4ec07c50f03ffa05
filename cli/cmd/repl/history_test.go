package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistoryMemory(t *testing.T) {
	t.Parallel()

	h := NewHistory("")

	for _, line := range []string{"1 + 1", "  ", "2 + 2", "2 + 2", "fun f x ~\nx", "1 + 1"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	want := []string{"2 + 2", "1 + 1"}
	if got := h.Entries(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Entries() = %q, want %q", got, want)
	}

	if got, err := h.At(0); err != nil || got != "2 + 2" {
		t.Errorf("At(0) = (%q, %v)", got, err)
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.At(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("At(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistoryPersistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}

	for _, line := range []string{"a", "b", "c", "a"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "b\nc\na\n" {
		t.Errorf("file = %q, want %q", data, "b\nc\na\n")
	}

	if err := h.Add("d"); err != nil {
		t.Fatal(err)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"b", "c", "a", "d"}
	if got := reloaded.Entries(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
}

func TestHistoryLoadDeduplicates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(path, []byte("x\n\ny\n  x  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"y", "x"}
	if got := h.Entries(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Entries() = %q, want %q", got, want)
	}

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}
