package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"labelgen/internal/store"
)

// LabelRenderer renders a generated label for the confirmation dialog.
type LabelRenderer struct {
	renderer *glamour.TermRenderer
}

// NewLabelRenderer builds a glamour renderer with the named standard style
// ("dark", "light", "notty", ...). If glamour cannot be set up the renderer
// falls back to plain text.
func NewLabelRenderer(style string, width int) *LabelRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return &LabelRenderer{}
	}
	return &LabelRenderer{renderer: r}
}

// markdownEscaper backslash-escapes the punctuation markdown gives meaning
// to, so typed values render exactly as stored.
var markdownEscaper = func() *strings.Replacer {
	const punct = "\\`*_{}[]()#+-.!|<>~&"
	pairs := make([]string, 0, 2*len(punct))
	for _, c := range punct {
		pairs = append(pairs, string(c), "\\"+string(c))
	}
	return strings.NewReplacer(pairs...)
}()

// EscapeMarkdown returns s with markdown punctuation escaped.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// LabelMarkdown is the label as markdown. Every value is escaped.
func LabelMarkdown(company string, r store.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", EscapeMarkdown(company))
	fmt.Fprintf(&sb, "- **S/N:** `%s`\n", r.SerialNumber)
	fmt.Fprintf(&sb, "- **Wood:** %s\n", EscapeMarkdown(r.Wood))
	fmt.Fprintf(&sb, "- **Length:** %s\n", EscapeMarkdown(r.Length))
	fmt.Fprintf(&sb, "- **Weight:** %s\n", EscapeMarkdown(r.Weight))
	fmt.Fprintf(&sb, "- **Bracelet:** %s\n", EscapeMarkdown(r.Bracelet))
	fmt.Fprintf(&sb, "- **Wrap:** %s\n", EscapeMarkdown(r.Wrap))
	return sb.String()
}

// Render returns the styled label, or plain if rendering fails.
func (l *LabelRenderer) Render(company string, r store.Record, plain string) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			// If glamour panics, return plain text
			result = plain
		}
	}()

	if l == nil || l.renderer == nil {
		return plain
	}
	out, err := l.renderer.Render(LabelMarkdown(company, r))
	if err != nil {
		return plain
	}
	return strings.Trim(out, "\n")
}
