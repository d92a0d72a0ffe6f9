package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labelgen/internal/labels"
	"labelgen/internal/store"
)

func newTestForm(t *testing.T) (Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "labels.db"), store.DefaultDriver)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	app := labels.New(st, "Semper Five LLC.")
	m := NewModel(context.Background(), app,
		WithStyles(NewStyles(LightTheme())),
		WithLabelRenderer(&LabelRenderer{}),
	)
	return m, st
}

func fill(m Model) Model {
	m.SetValue(FieldWood, "Oak")
	m.SetValue(FieldLength, "7in")
	m.SetValue(FieldWeight, "10g")
	m.SetValue(FieldBracelet, "Cord")
	m.SetValue(FieldWrap, "Double")
	return m
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	out, ok := updated.(Model)
	require.True(t, ok)
	return out
}

func count(t *testing.T, st *store.Store) int {
	t.Helper()
	n, err := st.Count(context.Background())
	require.NoError(t, err)
	return n
}

func TestForm_FocusNavigation(t *testing.T) {
	m, _ := newTestForm(t)
	assert.Equal(t, FieldWood, m.Focus())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FieldLength, m.Focus())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, FieldWeight, m.Focus())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, FieldWood, m.Focus())

	// Wrap around backwards
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, FieldQuantity, m.Focus())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, FieldWood, m.Focus())
}

func TestForm_TypingGoesToFocusedField(t *testing.T) {
	m, _ := newTestForm(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Walnut")})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("8in")})

	assert.Equal(t, "Walnut", m.Value(FieldWood))
	assert.Equal(t, "8in", m.Value(FieldLength))
	assert.Equal(t, "Walnut", m.Fields().Wood)
}

func TestForm_GenerateSingle(t *testing.T) {
	m, st := newTestForm(t)
	m = fill(m)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, ModeDialog, m.Mode())

	title, body := m.Dialog()
	assert.Equal(t, TitleLabelGenerated, title)
	assert.Contains(t, body, "Semper Five LLC.")
	assert.Contains(t, body, "S/N: PS000001")
	assert.Contains(t, body, "Wrap: Double")
	assert.Equal(t, 1, count(t, st))

	// Dialog blocks the form until dismissed
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, 1, count(t, st))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeForm, m.Mode())
	assert.Equal(t, "Oak", m.Value(FieldWood), "attributes are kept for the next label")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	_, body = m.Dialog()
	assert.Contains(t, body, "S/N: PS000002")
}

func TestForm_GenerateSingle_MissingField(t *testing.T) {
	m, st := newTestForm(t)
	m = fill(m)
	m.SetValue(FieldWeight, "")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, ModeDialog, m.Mode())

	title, body := m.Dialog()
	assert.Equal(t, TitleInputError, title)
	assert.Equal(t, labels.MsgMissingFields, body)
	assert.Zero(t, count(t, st))
}

func TestForm_GenerateBulk(t *testing.T) {
	m, st := newTestForm(t)
	m = fill(m)
	m.SetValue(FieldQuantity, "5")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	require.Equal(t, ModeDialog, m.Mode())

	title, body := m.Dialog()
	assert.Equal(t, TitleBulkGenerated, title)
	assert.Equal(t, "5 labels successfully generated!", body)
	assert.Equal(t, 5, count(t, st))
	assert.Equal(t, "", m.Value(FieldQuantity))
}

func TestForm_GenerateBulk_InvalidQuantity(t *testing.T) {
	for _, q := range []string{"", "0", "-3", "ten"} {
		t.Run(q, func(t *testing.T) {
			m, st := newTestForm(t)
			m = fill(m)
			m.SetValue(FieldQuantity, q)

			m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
			title, body := m.Dialog()
			assert.Equal(t, TitleInputError, title)
			assert.Equal(t, labels.MsgInvalidQuantity, body)
			assert.Zero(t, count(t, st))
		})
	}
}

func TestForm_GenerateBulk_PastLastSerial(t *testing.T) {
	m, st := newTestForm(t)
	_, err := st.Insert(context.Background(), store.Record{
		SerialNumber: "PS999998", Wood: "Oak", Length: "7in", Weight: "10g", Bracelet: "Cord", Wrap: "Double",
	})
	require.NoError(t, err)

	m = fill(m)
	m.SetValue(FieldQuantity, "5")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})

	title, body := m.Dialog()
	assert.Equal(t, TitleInputError, title)
	assert.Equal(t, fmt.Sprintf(labels.MsgQuantityTooLarge, 1), body)
	assert.Equal(t, 1, count(t, st))
}

func TestForm_ViewHistory(t *testing.T) {
	m, _ := newTestForm(t)
	m = fill(m)
	m.SetValue(FieldQuantity, "3")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlB})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, ModeHistory, m.Mode())

	records := m.History().Records()
	require.Len(t, records, 3)
	assert.Equal(t, "PS000001", records[0].SerialNumber)
	assert.Equal(t, "PS000003", records[2].SerialNumber)

	view := m.View()
	assert.Contains(t, view, "Label History")
	assert.Contains(t, view, "3 labels")
	assert.Contains(t, view, "PS000002")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeForm, m.Mode())
}

func TestForm_HistoryFilter(t *testing.T) {
	m, _ := newTestForm(t)
	m = fill(m)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.SetValue(FieldWood, "Maple")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.History().FilterFocused())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("maple")})

	records := m.History().Records()
	require.Len(t, records, 1)
	assert.Equal(t, "PS000002", records[0].SerialNumber)

	// Esc leaves the filter first, then the page
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeHistory, m.Mode())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeForm, m.Mode())
}

func TestForm_Quit(t *testing.T) {
	m, _ := newTestForm(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestForm_View(t *testing.T) {
	m, _ := newTestForm(t)
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Label Generator")
	for _, title := range fieldTitles {
		assert.Contains(t, view, strings.TrimSuffix(title, ":"))
	}
	assert.Contains(t, view, "ctrl+s")
}
