package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	pkgtypes "github.com/vietdv277/lambda-cli/pkg/types"
)

// ConfirmModel is a yes/no prompt. The default answer is No.
type ConfirmModel struct {
	message   string
	confirmed bool
	done      bool
}

// NewConfirmModel creates a prompt for message
func NewConfirmModel(message string) ConfirmModel {
	return ConfirmModel{message: message}
}

// Init implements tea.Model
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
		m.done = true
		return m, tea.Quit
	case tea.KeyRunes:
		switch strings.ToLower(string(key.Runes)) {
		case "y":
			m.confirmed = true
			m.done = true
			return m, tea.Quit
		case "n":
			m.done = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model
func (m ConfirmModel) View() string {
	if m.done {
		answer := "No"
		if m.confirmed {
			answer = "Yes"
		}
		return fmt.Sprintf("%s %s\n", m.message, MutedStyle.Render(answer))
	}
	return fmt.Sprintf("%s %s ", m.message, HintStyle.Render("[y/N]"))
}

// Confirmed reports whether the operator accepted
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Confirm asks the operator on the terminal. Without a terminal on stdin the
// answer is No. It satisfies types.ConfirmFunc.
func Confirm(message string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		Log.Warnf("%s (no terminal, assuming no)", message)
		return pkgtypes.NeverConfirm(message)
	}

	p := tea.NewProgram(NewConfirmModel(message), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running prompt: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
