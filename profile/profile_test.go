package profile

import "testing"

func TestNew(t *testing.T) {
	p := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}

func TestStartDisabled(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestStartUnknownMode(t *testing.T) {
	s := New(WithMode("bogus"), WithQuiet(true)).Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper for unknown mode, got %T", s)
	}

	s.Stop()
}
