package terminal

import "github.com/charmbracelet/lipgloss"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Toggle returns the other theme.
func Toggle(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Styles struct {
	Frame  lipgloss.Style
	Brand  lipgloss.Style
	Handle lipgloss.Style
	Status lipgloss.Style
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Output lipgloss.Style
	System lipgloss.Style
	Typed  lipgloss.Style
	Muted  lipgloss.Style
}

// StylesFor builds the palette for a theme name. Unknown names get light.
func StylesFor(theme string) Styles {
	if theme == ThemeDark {
		lime := lipgloss.Color("#84CC16")
		blue := lipgloss.Color("#3B82F6")
		white := lipgloss.Color("#FFFFFF")
		return Styles{
			Frame:  lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Foreground(lime),
			Brand:  lipgloss.NewStyle().Bold(true).Foreground(white),
			Handle: lipgloss.NewStyle().Foreground(white),
			Status: lipgloss.NewStyle().Foreground(lime),
			Prompt: lipgloss.NewStyle().Foreground(blue).MarginRight(1),
			Input:  lipgloss.NewStyle().Bold(true).Foreground(lime),
			Output: lipgloss.NewStyle().Foreground(white),
			System: lipgloss.NewStyle().Foreground(blue),
			Typed:  lipgloss.NewStyle().Bold(true).Foreground(lime),
			Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4D7C0F")),
		}
	}
	black := lipgloss.Color("#000000")
	return Styles{
		Frame:  lipgloss.NewStyle().Background(lipgloss.Color("#FFFFFF")).Foreground(lipgloss.Color("#1D4ED8")),
		Brand:  lipgloss.NewStyle().Bold(true).Foreground(black),
		Handle: lipgloss.NewStyle().Foreground(black),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		Prompt: lipgloss.NewStyle().Foreground(black).MarginRight(1),
		Input:  lipgloss.NewStyle().Bold(true).Foreground(black),
		Output: lipgloss.NewStyle().Foreground(lipgloss.Color("#374151")),
		System: lipgloss.NewStyle().Foreground(black),
		Typed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC2626")),
		Muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

func (st Styles) line(l Line) string {
	switch l.Kind {
	case LineInput:
		return st.Input.Render(l.Content)
	case LineSystem:
		return st.System.Render(l.Content)
	}
	return st.Output.Render(l.Content)
}
