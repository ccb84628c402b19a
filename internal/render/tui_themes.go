package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	// User and Assistant color the speaker labels
	User      lipgloss.Color
	Assistant lipgloss.Color
	Accent    lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

// DefaultTUIThemeName is used when the configured theme is unknown
const DefaultTUIThemeName = "tokyonight"

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night - dark with blue accents",
		Border:      "#414868",
		User:        "#7aa2f7",
		Assistant:   "#9ece6a",
		Accent:      "#bb9af7",
		Success:     "#9ece6a",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha - warm pastels",
		Border:      "#45475a",
		User:        "#89b4fa",
		Assistant:   "#a6e3a1",
		Accent:      "#cba6f7",
		Success:     "#a6e3a1",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
	},
	"nord": {
		Name:        "nord",
		Description: "Nord - cool arctic tones",
		Border:      "#4c566a",
		User:        "#88c0d0",
		Assistant:   "#a3be8c",
		Accent:      "#b48ead",
		Success:     "#a3be8c",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
	},
	"groq": {
		Name:        "groq",
		Description: "Groq - orange on charcoal",
		Border:      "#3a3a3a",
		User:        "#f55036",
		Assistant:   "#e8e8e8",
		Accent:      "#ff8a65",
		Success:     "#7bd88f",
		Warning:     "#fcd34d",
		Error:       "#ef4444",
		Text:        "#f5f5f5",
		TextDim:     "#8a8a8a",
	},
}

// TUIThemeByName returns a theme by name
func TUIThemeByName(name string) (TUITheme, bool) {
	t, ok := tuiThemes[name]
	return t, ok
}

// TUIThemeOrDefault returns the named theme, or the default when unknown
func TUIThemeOrDefault(name string) TUITheme {
	if t, ok := tuiThemes[name]; ok {
		return t
	}
	return tuiThemes[DefaultTUIThemeName]
}

// TUIThemeNames returns the available theme names, sorted
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
