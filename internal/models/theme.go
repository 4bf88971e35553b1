package models

import "strings"

// Theme keys understood by clients. Unknown keys fall back to DefaultTheme.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSepia  = "sepia"
	ThemeOcean  = "ocean"
	ThemeForest = "forest"

	DefaultTheme = ThemeLight
)

var Themes = []string{ThemeLight, ThemeDark, ThemeSepia, ThemeOcean, ThemeForest}

// NormalizeTheme maps a stored preference onto the theme table.
func NormalizeTheme(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, t := range Themes {
		if t == key {
			return t
		}
	}
	return DefaultTheme
}
