package tui

import (
	"strings"

	"vermlog/worklog"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	disabled lipgloss.Style
	err      lipgloss.Style
	ok       lipgloss.Style
	warning  lipgloss.Style
	preview  lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1),
		label:    lipgloss.NewStyle().Width(14),
		focused:  lipgloss.NewStyle().Width(14).Bold(true).Foreground(lipgloss.Color("205")),
		disabled: lipgloss.NewStyle().Width(14).Faint(true),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("196")).PaddingLeft(14),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		preview:  lipgloss.NewStyle().Bold(true),
		help:     lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("vermlog · new entry"))
	b.WriteString("\n")

	for idx, field := range formFields {
		if idx == idxStart {
			b.WriteString(m.modeLine())
		}
		label := m.styles.label
		switch {
		case !m.active(idx):
			label = m.styles.disabled
		case idx == m.focus:
			label = m.styles.focused
		}
		b.WriteString(label.Render(field.label))
		if m.active(idx) {
			b.WriteString(m.inputs[idx].View())
		} else {
			b.WriteString(m.styles.disabled.UnsetWidth().Render(m.inputs[idx].Value()))
		}
		b.WriteString("\n")
		if message, ok := m.errors[field.name]; ok {
			b.WriteString(m.styles.err.Render(message))
			b.WriteString("\n")
		}
	}

	preview := m.Preview()
	if preview == "" {
		preview = "-"
	}
	b.WriteString("\n")
	b.WriteString(m.styles.label.Render("Vorschau"))
	b.WriteString(m.styles.preview.Render(preview))
	b.WriteString("\n")

	if m.status != "" {
		style := m.styles.ok
		if m.failed {
			style = m.styles.err.UnsetPaddingLeft()
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	if m.warning != "" {
		b.WriteString(m.styles.warning.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render("tab/↓ next · ctrl+t start/end ↔ day fraction · ctrl+l last site · enter/ctrl+s save · esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) modeLine() string {
	mode := "Start/end"
	if m.mode == worklog.ModeFraction {
		mode = "Day fraction"
	}
	line := m.styles.label.Render("Mode") + mode + "\n"
	if message, ok := m.errors[worklog.FieldMode]; ok {
		line += m.styles.err.Render(message) + "\n"
	}
	return line
}
