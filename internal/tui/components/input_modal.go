package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docketwatch/internal/search"
	"github.com/mmcdole/docketwatch/internal/tui/styles"
)

const maxSuggestions = 5

// InputModal is a text input modal that suggests known values as the user
// types. Tab accepts the highlighted suggestion.
type InputModal struct {
	visible bool
	title   string
	input   textinput.Model

	options     []string
	suggestions []string
	selected    int
}

// NewInputModal creates a new input modal
func NewInputModal() InputModal {
	ti := textinput.New()
	ti.Placeholder = "Company id or name..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title and the values to suggest from
func (m *InputModal) Show(title string, options []string) {
	m.visible = true
	m.title = title
	m.options = options
	m.suggestions = nil
	m.selected = 0
	m.input.SetValue("")
	m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return strings.TrimSpace(m.input.Value())
}

// Suggestions returns the values currently offered
func (m InputModal) Suggestions() []string {
	return m.suggestions
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		case "tab":
			if len(m.suggestions) > 0 {
				m.input.SetValue(m.suggestions[m.selected])
				m.input.CursorEnd()
				m.refreshSuggestions()
			}
			return m, nil, false
		case "up", "ctrl+p":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil, false
		case "down", "ctrl+n":
			if m.selected < len(m.suggestions)-1 {
				m.selected++
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refreshSuggestions()
	return m, cmd, false
}

func (m *InputModal) refreshSuggestions() {
	m.suggestions = search.SuggestCompanies(m.input.Value(), m.options, maxSuggestions)
	// An exact match needs no suggestion
	if len(m.suggestions) == 1 && strings.EqualFold(m.suggestions[0], m.Value()) {
		m.suggestions = nil
	}
	if m.selected >= len(m.suggestions) {
		m.selected = 0
	}
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const modalWidth = 46

	bg := lipgloss.NewStyle().Width(modalWidth).Background(styles.SlateDark)

	lines := []string{
		styles.ModalTitleStyle.Width(modalWidth).Background(styles.SlateDark).Render(m.title),
		bg.Render(""),
		bg.Render(m.input.View()),
	}

	if len(m.suggestions) > 0 {
		lines = append(lines, bg.Render(""))
		for i, s := range m.suggestions {
			text := "  " + styles.Truncate(s, modalWidth-2)
			if i == m.selected {
				lines = append(lines, styles.SelectedItemStyle.Width(modalWidth).Render(text))
			} else {
				lines = append(lines, bg.Foreground(styles.LightGray).Render(text))
			}
		}
	}

	lines = append(lines, bg.Render(""), bg.Render(styles.DimStyle.Render("enter scan · tab complete · esc cancel")))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
