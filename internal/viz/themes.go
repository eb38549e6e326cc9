package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Rope    lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

// Available themes
var (
	ThemeDusk = Theme{
		Name:    "dusk",
		Rope:    lipgloss.Color("#1e90ff"), // dodgerblue
		Accent:  lipgloss.Color("#ff1493"), // deeppink
		Warning: lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Border:  lipgloss.Color("#444466"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Rope:    lipgloss.Color("#00ff00"), // green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Border:  lipgloss.Color("#00cc00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Rope:    lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Warning: lipgloss.Color("#ffaa00"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Border:  lipgloss.Color("#444444"),
	}

	// Default theme
	CurrentTheme = ThemeDusk

	// All available themes
	Themes = []Theme{
		ThemeDusk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDusk
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeDusk
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
