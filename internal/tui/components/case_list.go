package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/docketwatch/internal/domain"
	"github.com/mmcdole/docketwatch/internal/search"
	"github.com/mmcdole/docketwatch/internal/tui/styles"
)

// rowsPerCase is how many lines one case occupies in the list
const rowsPerCase = 3

// CaseList is a scrollable, filterable list of cases
type CaseList struct {
	index   *search.CaseIndex
	visible []search.CaseMatch

	cursor int
	offset int
	width  int
	height int

	filtering   bool
	filterInput textinput.Model
}

// NewCaseList creates an empty case list
func NewCaseList() CaseList {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styles.FilterPromptStyle
	ti.Placeholder = "filter cases"
	ti.PlaceholderStyle = styles.DimStyle
	ti.CharLimit = 80

	l := CaseList{filterInput: ti}
	l.SetCases(nil)
	return l
}

// SetCases replaces the list contents, keeping the active filter
func (l *CaseList) SetCases(cases []domain.Lawsuit) {
	l.index = search.NewCaseIndex(cases)
	l.applyFilter()
}

// SetSize sizes the list
func (l *CaseList) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.filterInput.Width = max(10, width-4)
	l.clampOffset()
}

// Len returns the number of cases in the list, before filtering
func (l CaseList) Len() int {
	return l.index.Len()
}

// Visible returns the cases passing the filter, in display order
func (l CaseList) Visible() []search.CaseMatch {
	return l.visible
}

// Selected returns the case under the cursor
func (l CaseList) Selected() (domain.Lawsuit, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return domain.Lawsuit{}, false
	}
	return l.visible[l.cursor].Case, true
}

// Cursor returns the cursor position within the visible cases
func (l CaseList) Cursor() int {
	return l.cursor
}

// MoveUp moves the cursor up by n
func (l *CaseList) MoveUp(n int) {
	l.cursor = max(0, l.cursor-n)
	l.clampOffset()
}

// MoveDown moves the cursor down by n
func (l *CaseList) MoveDown(n int) {
	l.cursor = max(0, min(len(l.visible)-1, l.cursor+n))
	l.clampOffset()
}

// GoTop moves to the first case
func (l *CaseList) GoTop() {
	l.cursor = 0
	l.clampOffset()
}

// GoBottom moves to the last case
func (l *CaseList) GoBottom() {
	l.cursor = max(0, len(l.visible)-1)
	l.clampOffset()
}

// IsFiltering reports whether the filter input has focus
func (l CaseList) IsFiltering() bool {
	return l.filtering
}

// FilterQuery returns the current filter text
func (l CaseList) FilterQuery() string {
	return l.filterInput.Value()
}

// StartFilter focuses the filter input
func (l *CaseList) StartFilter() tea.Cmd {
	l.filtering = true
	return l.filterInput.Focus()
}

// ClearFilter removes the filter and shows every case
func (l *CaseList) ClearFilter() {
	l.filtering = false
	l.filterInput.Blur()
	l.filterInput.SetValue("")
	l.applyFilter()
}

// Update feeds keys to the filter input while filtering. Enter keeps the
// filter and returns focus to the list; esc clears it.
func (l CaseList) Update(msg tea.Msg) (CaseList, tea.Cmd) {
	if !l.filtering {
		return l, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			l.ClearFilter()
			return l, nil
		case "enter":
			l.filtering = false
			l.filterInput.Blur()
			return l, nil
		}
	}
	var cmd tea.Cmd
	l.filterInput, cmd = l.filterInput.Update(msg)
	l.applyFilter()
	return l, cmd
}

func (l *CaseList) applyFilter() {
	l.visible = l.index.Filter(l.filterInput.Value())
	if l.cursor >= len(l.visible) {
		l.cursor = max(0, len(l.visible)-1)
	}
	l.clampOffset()
}

// pageSize is how many cases fit on screen
func (l CaseList) pageSize() int {
	rows := l.height
	if l.filtering || l.filterInput.Value() != "" {
		rows--
	}
	return max(1, rows/rowsPerCase)
}

func (l *CaseList) clampOffset() {
	page := l.pageSize()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+page {
		l.offset = l.cursor - page + 1
	}
	l.offset = max(0, l.offset)
}

// View renders the list
func (l CaseList) View() string {
	var b strings.Builder

	if l.filtering || l.filterInput.Value() != "" {
		b.WriteString(l.filterInput.View())
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d/%d", len(l.visible), l.index.Len())))
		b.WriteString("\n")
	}

	if len(l.visible) == 0 {
		if l.index.Len() == 0 {
			b.WriteString(styles.DimStyle.Render("No cases found."))
		} else {
			b.WriteString(styles.DimStyle.Render("No cases match the filter."))
		}
		return b.String()
	}

	end := min(len(l.visible), l.offset+l.pageSize())
	rows := make([]string, 0, end-l.offset)
	for i := l.offset; i < end; i++ {
		rows = append(rows, l.renderCase(l.visible[i].Case, i == l.cursor))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return b.String()
}

func (l CaseList) renderCase(c domain.Lawsuit, selected bool) string {
	width := max(20, l.width)

	marker := "  "
	if selected {
		marker = styles.AccentStyle.Render("▌ ")
	}

	head := styles.PriorityBadge(c.Priority) + " " +
		styles.TitleStyle.Render(styles.Truncate(c.CaseName, width-12))

	var meta []string
	meta = append(meta, c.CompanyName)
	if c.DocketNumber != "" {
		meta = append(meta, "Docket "+c.DocketNumber)
	}
	meta = append(meta, "Filed "+c.FormattedDateFiled())
	if c.Court != "" {
		meta = append(meta, c.Court)
	}

	var extra []string
	if len(c.Keywords) > 0 {
		extra = append(extra, strings.Join(c.Keywords, ", "))
	}
	if c.Cause != "" {
		extra = append(extra, c.Cause)
	}

	lines := []string{
		marker + head,
		"  " + styles.SubtitleStyle.Render(styles.Truncate(strings.Join(meta, " · "), width-4)),
		"  " + styles.DimStyle.Render(styles.Truncate(strings.Join(extra, " · "), width-4)),
	}

	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}
