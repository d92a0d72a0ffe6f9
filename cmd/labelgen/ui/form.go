package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labelgen/internal/labels"
	"labelgen/internal/logging"
)

// Form field indexes, in display order.
const (
	FieldWood = iota
	FieldLength
	FieldWeight
	FieldBracelet
	FieldWrap
	FieldQuantity
	fieldCount
)

var fieldTitles = [fieldCount]string{
	"Wood:",
	"Length:",
	"Weight:",
	"Bracelet:",
	"Wrap:",
	"Bulk Quantity (optional):",
}

// Mode is the screen currently shown.
type Mode int

const (
	ModeForm Mode = iota
	ModeDialog
	ModeHistory
)

// Dialog titles
const (
	TitleLabelGenerated = "Label Generated"
	TitleBulkGenerated  = "Bulk Labels Generated"
	TitleInputError     = "Input Error"
	TitleError          = "Error"
)

// Model is the label form. It is the context every action handler runs in:
// it carries the App (and through it the store) plus the current field values.
type Model struct {
	ctx context.Context
	app *labels.App

	inputs [fieldCount]textinput.Model
	focus  int

	mode        Mode
	dialogTitle string
	dialogBody  string
	dialogError bool

	history  HistoryPageModel
	renderer *LabelRenderer

	keys   KeyMap
	help   help.Model
	styles Styles

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithStyles overrides the detected styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithLabelRenderer overrides the label preview renderer.
func WithLabelRenderer(r *LabelRenderer) Option {
	return func(m *Model) { m.renderer = r }
}

// NewModel builds the form. ctx is used for every store call.
func NewModel(ctx context.Context, app *labels.App, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		app:    app,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.renderer == nil {
		style := "light"
		if m.styles.Theme.IsDark {
			style = "dark"
		}
		m.renderer = NewLabelRenderer(style, 48)
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 64
		ti.Width = 30
		ti.PromptStyle = m.styles.Muted
		m.inputs[i] = ti
	}
	m.inputs[FieldQuantity].CharLimit = 6
	m.inputs[FieldQuantity].Placeholder = "e.g. 10"
	m.inputs[FieldWood].Focus()
	m.inputs[FieldWood].PromptStyle = m.styles.Prompt

	m.history = NewHistoryPageModel(m.styles)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Mode returns the active screen.
func (m Model) Mode() Mode { return m.mode }

// Focus returns the focused field index.
func (m Model) Focus() int { return m.focus }

// Dialog returns the title and body of the open dialog.
func (m Model) Dialog() (title, body string) { return m.dialogTitle, m.dialogBody }

// History returns the history page.
func (m Model) History() HistoryPageModel { return m.history }

// SetValue sets a field's text.
func (m *Model) SetValue(field int, value string) {
	m.inputs[field].SetValue(value)
}

// Value returns a field's text.
func (m Model) Value(field int) string {
	return m.inputs[field].Value()
}

// Fields returns the five label attributes as typed.
func (m Model) Fields() labels.Fields {
	return labels.Fields{
		Wood:     m.inputs[FieldWood].Value(),
		Length:   m.inputs[FieldLength].Value(),
		Weight:   m.inputs[FieldWeight].Value(),
		Bracelet: m.inputs[FieldBracelet].Value(),
		Wrap:     m.inputs[FieldWrap].Value(),
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.history.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeDialog:
			if key.Matches(msg, m.keys.Dismiss) {
				m.mode = ModeForm
				m.dialogTitle, m.dialogBody, m.dialogError = "", "", false
			}
			return m, nil
		case ModeHistory:
			if key.Matches(msg, m.keys.Back) && !m.history.FilterFocused() {
				m.mode = ModeForm
				return m, nil
			}
			var cmd tea.Cmd
			m.history, cmd = m.history.Update(msg)
			return m, cmd
		}
		return m.updateForm(msg)
	}

	if m.mode == ModeHistory {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next), msg.String() == "enter":
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Single):
		m.generateSingle()
		return m, nil
	case key.Matches(msg, m.keys.Bulk):
		m.generateBulk()
		return m, nil
	case key.Matches(msg, m.keys.History):
		m.viewHistory()
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.inputs[m.focus].PromptStyle = m.styles.Muted
	m.focus = i
	m.inputs[i].PromptStyle = m.styles.Prompt
	return m.inputs[i].Focus()
}

func (m *Model) generateSingle() {
	rec, err := m.app.GenerateSingle(m.ctx, m.Fields())
	if err != nil {
		m.showError(err)
		return
	}
	m.inputs[FieldQuantity].SetValue("")
	m.showDialog(TitleLabelGenerated, m.renderer.Render(m.app.Company(), rec, m.app.Summary(rec)), false)
}

func (m *Model) generateBulk() {
	n, err := labels.ParseQuantity(m.inputs[FieldQuantity].Value())
	if err != nil {
		m.showError(err)
		return
	}
	records, err := m.app.GenerateBulk(m.ctx, m.Fields(), n)
	if err != nil {
		m.showError(err)
		return
	}
	m.inputs[FieldQuantity].SetValue("")
	m.showDialog(TitleBulkGenerated, labels.BulkMessage(len(records)), false)
}

func (m *Model) viewHistory() {
	records, err := m.app.History(m.ctx)
	if err != nil {
		m.showError(err)
		return
	}
	total, err := m.app.Count(m.ctx)
	if err != nil {
		m.showError(err)
		return
	}
	m.history.SetRecords(records)
	m.history.SetTotal(total)
	m.mode = ModeHistory
	logging.Form("History opened (%d labels)", total)
}

func (m *Model) showError(err error) {
	var verr *labels.ValidationError
	if errors.As(err, &verr) {
		m.showDialog(TitleInputError, verr.Reason, true)
		return
	}
	logging.Get(logging.CategoryForm).Error("Action failed: %v", err)
	m.showDialog(TitleError, err.Error(), true)
}

func (m *Model) showDialog(title, body string, isErr bool) {
	m.mode = ModeDialog
	m.dialogTitle = title
	m.dialogBody = body
	m.dialogError = isErr
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.mode {
	case ModeHistory:
		return m.history.View()
	case ModeDialog:
		return m.place(m.renderDialog())
	}
	return m.renderForm()
}

func (m Model) renderForm() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render(" Label Generator "))
	sb.WriteString("\n\n")

	for i := range m.inputs {
		labelStyle := m.styles.Label
		if i == m.focus {
			labelStyle = m.styles.FocusedLabel
		}
		sb.WriteString(labelStyle.Render(fieldTitles[i]))
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.RenderDivider(56))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return m.styles.Content.Render(sb.String())
}

func (m Model) renderDialog() string {
	titleStyle := m.styles.Success
	boxStyle := m.styles.Dialog
	if m.dialogError {
		titleStyle = m.styles.Error
		boxStyle = m.styles.ErrorDialog
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.dialogTitle),
		"",
		m.dialogBody,
		"",
		m.styles.Muted.Render("[Enter] OK"),
	)
	return boxStyle.Render(body)
}

func (m Model) place(s string) string {
	if m.width == 0 || m.height == 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
