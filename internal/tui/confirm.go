package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel is a yes/no dialog for destructive actions.
//
// Navigation: left/right/tab move focus between Yes and No. Enter activates
// the focused button. y/n/esc are shortcut accelerators. Focus defaults to
// No, the safe choice.
type confirmModel struct {
	message   string
	focusYes  bool
	done      bool
	confirmed bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

// Init implements tea.Model.
func (m confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.done = true
		m.confirmed = true
		return m, tea.Quit
	case "n", "N", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab", "shift+tab":
		m.focusYes = !m.focusYes
		return m, nil
	case "enter":
		m.done = true
		m.confirmed = m.focusYes
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	yes := buttonStyle.Render("Yes")
	no := buttonFocusedStyle.Render("No")
	if m.focusYes {
		yes = buttonFocusedStyle.Render("Yes")
		no = buttonStyle.Render("No")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yes, "  ", no)
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Center, m.message, "", buttons)) + "\n"
}

// Confirm shows a yes/no dialog and reports the user's choice.
func Confirm(message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation dialog: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("confirmation dialog aborted")
	}
	return m.confirmed, nil
}
