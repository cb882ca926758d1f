package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/galx/internal/tasks"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	status lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t),
		status: NewBold(t).Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// line renders a progress entry in the color of its level.
func (p *Palette) line(e tasks.Entry) string {
	switch e.Level {
	case tasks.LevelError:
		return p.err.Render(e.Text)
	case tasks.LevelWarn:
		return p.warn.Render(e.Text)
	default:
		return e.Text
	}
}
