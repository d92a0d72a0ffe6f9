package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labelgen/internal/labels"
	"labelgen/internal/store"
)

var historyColumnWidths = []int{6, 14, 12, 10, 10, 12, 10, 20}

// HistoryPageModel is the read-only label history table.
type HistoryPageModel struct {
	width  int
	height int
	table  table.Model

	records  []store.Record
	filtered []store.Record
	total    int

	filterInput   textinput.Model
	filterFocused bool

	styles Styles
}

// NewHistoryPageModel creates an empty history page.
func NewHistoryPageModel(styles Styles) HistoryPageModel {
	columns := make([]table.Column, len(labels.HistoryHeaders))
	for i, h := range labels.HistoryHeaders {
		columns[i] = table.Column{Title: h, Width: historyColumnWidths[i]}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Theme.Border).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(styles.Theme.Primary)
	t.SetStyles(ts)

	fi := textinput.New()
	fi.Placeholder = "Filter by serial or attribute..."
	fi.CharLimit = 50
	fi.Width = 40

	return HistoryPageModel{
		table:       t,
		filterInput: fi,
		styles:      styles,
	}
}

// SetRecords replaces the displayed rows.
func (m *HistoryPageModel) SetRecords(records []store.Record) {
	m.records = records
	m.applyFilter()
	m.table.GotoTop()
}

// SetTotal sets the label count shown in the title.
func (m *HistoryPageModel) SetTotal(n int) {
	m.total = n
}

// Records returns the rows currently shown (after filtering).
func (m HistoryPageModel) Records() []store.Record {
	return m.filtered
}

// FilterFocused reports whether the filter input has focus.
func (m HistoryPageModel) FilterFocused() bool {
	return m.filterFocused
}

// Update handles messages.
func (m HistoryPageModel) Update(msg tea.Msg) (HistoryPageModel, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "/":
			if !m.filterFocused {
				m.filterFocused = true
				return m, m.filterInput.Focus()
			}
		case "enter", "esc":
			if m.filterFocused {
				m.filterFocused = false
				m.filterInput.Blur()
				m.applyFilter()
				return m, nil
			}
		}
	}

	if m.filterFocused {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *HistoryPageModel) applyFilter() {
	text := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))

	m.filtered = make([]store.Record, 0, len(m.records))
	for _, r := range m.records {
		if text != "" && !matchesFilter(r, text) {
			continue
		}
		m.filtered = append(m.filtered, r)
	}

	rows := make([]table.Row, len(m.filtered))
	for i, r := range m.filtered {
		rows[i] = table.Row(labels.HistoryRow(r))
	}
	m.table.SetRows(rows)
}

func matchesFilter(r store.Record, text string) bool {
	for _, v := range []string{r.SerialNumber, r.Wood, r.Length, r.Weight, r.Bracelet, r.Wrap} {
		if strings.Contains(strings.ToLower(v), text) {
			return true
		}
	}
	return false
}

// View renders the page.
func (m HistoryPageModel) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(" Label History "))
	sb.WriteString("  ")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d labels", m.total)))
	sb.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Border).
		Padding(0, 1)
	if m.filterFocused {
		filterStyle = filterStyle.BorderForeground(m.styles.Theme.Primary)
	}
	sb.WriteString(filterStyle.Render(m.filterInput.View()))
	sb.WriteString("\n")

	if len(m.records) == 0 {
		sb.WriteString(m.styles.Content.Render(m.styles.Muted.Render("No labels generated yet.")))
	} else {
		sb.WriteString(m.styles.Content.Render(m.table.View()))
	}

	if len(m.filtered) != len(m.records) {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("Showing %d of %d labels", len(m.filtered), len(m.records))))
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render("[/] Filter  [↑/↓] Scroll  [Esc] Back"))
	return sb.String()
}

// SetSize updates the size.
func (m *HistoryPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	if w > 4 {
		m.table.SetWidth(w - 4)
	}
	if h > 10 {
		m.table.SetHeight(h - 10)
	}
}
