package repl

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/letlang/log"
)

func newTestModel(t *testing.T, lines ...string) model {
	t.Helper()

	return newModel(context.Background(), newTestSession(t, lines...), NewHistory(""), log.Logger{})
}

// typeText sends text to m one key at a time.
func typeText(m model, text string) model {
	for _, r := range text {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}}
		}

		m, _ = m.handleKey(msg)
	}

	return m
}

func TestModelExecuteInput(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	m.input.SetValue("fun sq x ~ x * x")
	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("Enter returned no command")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after Enter, want empty", m.input.Value())
	}

	if _, ok := m.session.Lookup("sq"); !ok {
		t.Error("definition did not persist in the session")
	}

	if got := m.history.Entries(); !slices.Equal(got, []string{"fun sq x ~ x * x"}) {
		t.Errorf("history = %q", got)
	}

	// Blank input is ignored.
	m.input.SetValue("   ")
	if _, cmd := m.executeInput(); cmd != nil {
		t.Error("blank input produced a command")
	}
}

func TestModelCommands(t *testing.T) {
	t.Parallel()

	for _, input := range []string{":help", ":env", ":bogus", ":clear"} {
		m := newTestModel(t, "fun id x ~ x")
		m.input.SetValue(input)

		m, cmd := m.executeInput()
		if cmd == nil {
			t.Errorf("%s returned no command", input)
		}

		if m.quitting {
			t.Errorf("%s quit the REPL", input)
		}
	}

	m := newTestModel(t)
	m.input.SetValue(":quit")

	m, _ = m.executeInput()
	if !m.quitting {
		t.Error(":quit did not quit")
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}

func TestModelQuitKeys(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)
	m.input.SetValue("1 +")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
	if m.quitting || m.input.Value() != "" {
		t.Fatalf("Ctrl+C on input: quitting=%v input=%q", m.quitting, m.input.Value())
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.quitting {
		t.Error("Ctrl+D on empty input did not quit")
	}
}

func TestModelHistoryNavigation(t *testing.T) {
	t.Parallel()

	m := newTestModel(t)

	for _, line := range []string{"1", "2"} {
		m.input.SetValue(line)
		m, _ = m.executeInput()
	}

	m = m.historyPrev()
	if m.input.Value() != "2" {
		t.Errorf("first Up = %q, want 2", m.input.Value())
	}

	m = m.historyPrev()
	m = m.historyPrev()

	if m.input.Value() != "1" {
		t.Errorf("Up past oldest = %q, want 1", m.input.Value())
	}

	if !strings.Contains(stripANSI(m.View()), "1/2") {
		t.Errorf("View() = %q, want history position", m.View())
	}

	m = m.historyNext()
	m = m.historyNext()

	if m.input.Value() != "" || m.historyIdx != 2 {
		t.Errorf("Down past newest = (%q, %d), want empty input", m.input.Value(), m.historyIdx)
	}
}

func TestModelCompletion(t *testing.T) {
	t.Parallel()

	m := typeText(newTestModel(t, "fun square x ~ x * x"), "apply squ")

	if len(m.matches) == 0 {
		t.Fatal("no completion matches for \"squ\"")
	}

	if m.matches[0].Str != "square" {
		t.Errorf("best match = %q, want square", m.matches[0].Str)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})

	if !strings.HasPrefix(m.input.Value(), "apply square") {
		t.Errorf("input after Tab = %q", m.input.Value())
	}

	m = typeText(m, " ")

	view := stripANSI(m.View())
	if !strings.Contains(view, "apply square x") {
		t.Errorf("View() = %q, want signature hint", view)
	}
}

func TestModelEscRestoresInput(t *testing.T) {
	t.Parallel()

	m := typeText(newTestModel(t, "fun sum x ~ x", "fun sub x ~ x"), "s")

	if len(m.matches) < 2 {
		t.Skipf("need several candidates, have %d", len(m.matches))
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if !m.tabActive {
		t.Fatal("Tab did not start cycling")
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.tabActive || m.input.Value() != "s" {
		t.Errorf("after Esc: tabActive=%v input=%q", m.tabActive, m.input.Value())
	}
}
