package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{}
}

func step(t *testing.T, m tea.Model, msg tea.Msg) confirmModel {
	t.Helper()
	next, _ := m.Update(msg)
	cm, ok := next.(confirmModel)
	if !ok {
		t.Fatalf("model changed type: %T", next)
	}
	return cm
}

func TestConfirmAccelerators(t *testing.T) {
	m := step(t, newConfirmModel("Remove 3 targets?"), key("y"))
	if !m.done || !m.confirmed {
		t.Errorf("y should confirm, got %+v", m)
	}

	m = step(t, newConfirmModel("Remove 3 targets?"), key("n"))
	if !m.done || m.confirmed {
		t.Errorf("n should decline, got %+v", m)
	}

	m = step(t, newConfirmModel("Remove 3 targets?"), key("esc"))
	if !m.done || m.confirmed {
		t.Errorf("esc should decline, got %+v", m)
	}
}

func TestConfirmFocusDefaultsToNo(t *testing.T) {
	m := step(t, newConfirmModel("Remove 3 targets?"), key("enter"))
	if !m.done || m.confirmed {
		t.Errorf("enter on default focus must decline, got %+v", m)
	}
}

func TestConfirmFocusToggle(t *testing.T) {
	m := newConfirmModel("Remove 3 targets?")
	m = step(t, m, key("tab"))
	if !m.focusYes {
		t.Fatal("tab should move focus to Yes")
	}
	m = step(t, m, key("enter"))
	if !m.confirmed {
		t.Error("enter on Yes should confirm")
	}

	// Toggling twice lands back on No.
	m = newConfirmModel("Remove 3 targets?")
	m = step(t, m, key("left"))
	m = step(t, m, key("left"))
	m = step(t, m, key("enter"))
	if m.confirmed {
		t.Error("double toggle should decline")
	}
}

func TestConfirmIgnoresOtherMessages(t *testing.T) {
	m := newConfirmModel("Remove 3 targets?")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if cm := next.(confirmModel); cm.done {
		t.Error("non-key messages must not resolve the dialog")
	}
}

func TestPromptSecretInput(t *testing.T) {
	m := newPromptModel("Database secret")
	for _, r := range "s3cret!" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(promptModel)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(promptModel)
	if !m.done || m.input.Value() != "s3cret!" {
		t.Errorf("got done=%v value=%q", m.done, m.input.Value())
	}

	// The view masks input.
	masked := newPromptModel("Database secret")
	for _, r := range "abc" {
		next, _ := masked.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		masked = next.(promptModel)
	}
	if view := masked.View(); strings.Contains(view, "abc") {
		t.Error("secret appears unmasked in the view")
	}
}

func TestPromptCancel(t *testing.T) {
	m := newPromptModel("Database secret")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(promptModel)
	if !m.cancelled {
		t.Error("esc should cancel the prompt")
	}
}
