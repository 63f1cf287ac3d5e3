package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette of hex colors.
type Theme struct {
	Name                string
	Background          string
	Text                string
	SelectionBackground string
	SelectionText       string
	InputBackground     string
	Border              string
}

// Built-in themes. Gruvbox is the default.
var themes = map[string]Theme{
	"gruvbox": {
		Name:                "gruvbox",
		Background:          "#282828",
		Text:                "#ebdbb2",
		SelectionBackground: "#d79921",
		SelectionText:       "#282828",
		InputBackground:     "#3c3836",
		Border:              "#504945",
	},
	"8bit": {
		Name:                "8bit",
		Background:          "#000000",
		Text:                "#00ff00",
		SelectionBackground: "#00aa00",
		SelectionText:       "#000000",
		InputBackground:     "#001100",
		Border:              "#00ff00",
	},
	"catppuccin": {
		Name:                "catppuccin",
		Background:          "#1e1e2e",
		Text:                "#cdd6f4",
		SelectionBackground: "#89b4fa",
		SelectionText:       "#1e1e2e",
		InputBackground:     "#313244",
		Border:              "#89b4fa",
	},
	"modern": {
		Name:                "modern",
		Background:          "#f5f5f5",
		Text:                "#2d2d2d",
		SelectionBackground: "#4a90e2",
		SelectionText:       "#ffffff",
		InputBackground:     "#c9a88a",
		Border:              "#d0d0d0",
	},
}

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "gruvbox"

// ThemeNames returns the built-in theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupTheme returns the theme called name (case-insensitive). An empty
// name yields the default theme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	t, ok := themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	return t, nil
}

// Styles holds the lipgloss styles of the launcher view.
type Styles struct {
	Prompt    lipgloss.Style
	Input     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	Item              lipgloss.Style
	Selected          lipgloss.Style
	Highlight         lipgloss.Style
	SelectedHighlight lipgloss.Style
	Secondary         lipgloss.Style

	Border lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ThemeStyles derives the view styles from a theme.
func ThemeStyles(t Theme) Styles {
	text := lipgloss.Color(t.Text)
	selBg := lipgloss.Color(t.SelectionBackground)
	selFg := lipgloss.Color(t.SelectionText)
	border := lipgloss.Color(t.Border)

	return Styles{
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(selBg),
		Input:     lipgloss.NewStyle().Foreground(text).Background(lipgloss.Color(t.InputBackground)),
		Tab:       lipgloss.NewStyle().Foreground(border).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(selFg).Background(selBg).Padding(0, 1),

		Item:              lipgloss.NewStyle().Foreground(text),
		Selected:          lipgloss.NewStyle().Foreground(selFg).Background(selBg),
		Highlight:         lipgloss.NewStyle().Bold(true).Underline(true).Foreground(selBg),
		SelectedHighlight: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(selFg).Background(selBg),
		Secondary:         lipgloss.NewStyle().Foreground(border),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Status: lipgloss.NewStyle().Foreground(border),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934")),
	}
}

// NoColorStyles returns unstyled components. Selection is still visible
// through the cursor marker in the view.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Prompt:            plain,
		Input:             plain,
		Tab:               plain.Padding(0, 1),
		ActiveTab:         plain.Padding(0, 1).Bold(true),
		Item:              plain,
		Selected:          plain,
		Highlight:         plain,
		SelectedHighlight: plain,
		Secondary:         plain,
		Border:            plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		Status:            plain,
		Error:             plain,
	}
}

// GetStyles returns the styles for theme, or unstyled ones when noColor is
// set. An unknown theme falls back to the default.
func GetStyles(theme string, noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	t, err := LookupTheme(theme)
	if err != nil {
		t = themes[DefaultTheme]
	}
	return ThemeStyles(t)
}
