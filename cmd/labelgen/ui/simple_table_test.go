package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"labelgen/internal/store"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Test Table", []string{"Col1", "Col2"})
	table.AddRow("Row1Col1", "Row1Col2")

	view := table.View(NewStyles(LightTheme()))
	t.Logf("View:\n%q", view)

	assert.Contains(t, view, "Test Table")
	assert.Contains(t, view, "Row1Col1")
	assert.Contains(t, view, "Row1Col2")
}

func TestNewHistoryTable(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	table := NewHistoryTable([]store.Record{
		{ID: 1, SerialNumber: "PS000001", Wood: "Oak", Length: "7in", Weight: "10g", Bracelet: "Cord", Wrap: "Single", CreatedAt: created},
		{ID: 2, SerialNumber: "PS000002", Wood: "Ash", Length: "8in", Weight: "12g", Bracelet: "Chain", Wrap: "Double", CreatedAt: created},
	})

	view := table.View(NewStyles(LightTheme()))
	assert.Contains(t, view, "Serial Number")
	assert.Contains(t, view, "Date Created")
	assert.Contains(t, view, "PS000002")
	assert.Contains(t, view, "Chain")

	assert.Equal(t, 2, strings.Count(view, "PS00000"))
}

func TestNewHistoryTable_Empty(t *testing.T) {
	view := NewHistoryTable(nil).View(NewStyles(LightTheme()))
	assert.Contains(t, view, "No labels generated yet.")
}
