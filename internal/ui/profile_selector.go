package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vietdv277/lambda-cli/pkg/provider"
	pkgtypes "github.com/vietdv277/lambda-cli/pkg/types"
)

const (
	profileListHeight = 10
	pickerWidth       = 60
)

// ErrSelectionCancelled is returned when the picker is dismissed. It wraps
// provider.ErrAborted.
var ErrSelectionCancelled = fmt.Errorf("selection cancelled: %w", provider.ErrAborted)

// ProfileModel is a filterable list of AWS profiles
type ProfileModel struct {
	profiles []pkgtypes.AWSProfile
	filtered []pkgtypes.AWSProfile
	cursor   int
	offset   int
	search   string
	selected *pkgtypes.AWSProfile
	quitting bool
	current  string
}

// NewProfileModel creates a picker; current is highlighted when present
func NewProfileModel(profiles []pkgtypes.AWSProfile, current string) ProfileModel {
	return ProfileModel{
		profiles: profiles,
		filtered: profiles,
		current:  current,
	}
}

// Init implements tea.Model
func (m ProfileModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		if len(m.filtered) > 0 {
			m.selected = &m.filtered[m.cursor]
			m.quitting = true
			return m, tea.Quit
		}

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}

	case tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			if m.cursor >= m.offset+profileListHeight {
				m.offset = m.cursor - profileListHeight + 1
			}
		}

	case tea.KeyBackspace:
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
			m.filter()
		}

	case tea.KeyRunes:
		m.search += string(key.Runes)
		m.filter()
	}

	return m, nil
}

func (m *ProfileModel) filter() {
	if m.search == "" {
		m.filtered = m.profiles
	} else {
		query := strings.ToLower(m.search)
		m.filtered = nil
		for _, p := range m.profiles {
			if strings.Contains(strings.ToLower(p.Name), query) ||
				strings.Contains(strings.ToLower(p.Region), query) {
				m.filtered = append(m.filtered, p)
			}
		}
	}
	m.cursor = 0
	m.offset = 0
}

// Selected returns the chosen profile, nil if none
func (m ProfileModel) Selected() *pkgtypes.AWSProfile {
	return m.selected
}

// View implements tea.Model
func (m ProfileModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	line := func(content string) {
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString(content)
		sb.WriteString(BorderStyle.Render(Vertical))
		sb.WriteString("\n")
	}
	rule := func(left, right string) {
		sb.WriteString(BorderStyle.Render(left + strings.Repeat(Horizontal, pickerWidth) + right))
		sb.WriteString("\n")
	}

	rule(TopLeft, TopRight)
	line(HeaderStyle.Render(padRight(" Select AWS Profile", pickerWidth)))
	rule(LeftT, RightT)
	line(ValueStyle.Render(padRight(" > "+m.search, pickerWidth)))

	end := min(m.offset+profileListHeight, len(m.filtered))
	for i := m.offset; i < end; i++ {
		p := m.filtered[i]
		prefix := "   "
		switch {
		case i == m.cursor:
			prefix = " > "
		case p.Name == m.current:
			prefix = " ● "
		}
		row := prefix + padRight(p.Name, 30) + "  " + padRight(orDash(p.Region), pickerWidth-35)
		if i == m.cursor {
			line(AccentStyle.Render(row))
		} else {
			line(MutedStyle.Render(row))
		}
	}
	for i := end - m.offset; i < profileListHeight; i++ {
		line(strings.Repeat(" ", pickerWidth))
	}

	rule(BottomLeft, BottomRight)

	count := fmt.Sprintf("  %d/%d profiles", len(m.filtered), len(m.profiles))
	hints := "[Enter:select] [Esc:cancel]"
	pad := pickerWidth + 2 - runewidth.StringWidth(count) - runewidth.StringWidth(hints)
	sb.WriteString(count)
	if pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	sb.WriteString(HintStyle.Render(hints))
	sb.WriteString("\n")

	return sb.String()
}

// SelectProfile runs the interactive picker
func SelectProfile(profiles []pkgtypes.AWSProfile, current string) (*pkgtypes.AWSProfile, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles available")
	}

	p := tea.NewProgram(NewProfileModel(profiles, current), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("error running selector: %w", err)
	}

	selected := final.(ProfileModel).Selected()
	if selected == nil {
		return nil, ErrSelectionCancelled
	}
	return selected, nil
}
