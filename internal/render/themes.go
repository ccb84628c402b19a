package render

// Markdown style names accepted in config
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemePink       = "pink"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamourNames maps config style names to glamour's standard style names
var glamourNames = map[string]string{
	ThemeDark:       "dark",
	ThemeLight:      "light",
	ThemeTokyoNight: "tokyo-night",
	ThemeDracula:    "dracula",
	ThemePink:       "pink",
	ThemeNoTTY:      "notty",
	ThemeASCII:      "ascii",
}

// GlamourStyle returns the glamour style for a config name.
// Unknown names are passed through as a path to a JSON style file.
func GlamourStyle(name string) string {
	if s, ok := glamourNames[name]; ok {
		return s
	}
	return name
}

// IsBuiltinStyle reports whether style names a built-in markdown style
func IsBuiltinStyle(style string) bool {
	_, ok := glamourNames[style]
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns the built-in markdown styles
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemePink, Description: "Pink accents"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
