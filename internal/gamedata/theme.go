package gamedata

import "github.com/gdamore/tcell/v2"

// Theme holds the terminal colours for the combat screen, as hex strings.
type Theme struct {
	Text      string `json:"text"`
	Muted     string `json:"muted"`
	Vitality  string `json:"vitality"`
	Action    string `json:"action"`
	Enemy     string `json:"enemy"`
	Damage    string `json:"damage"`
	Indirect  string `json:"indirect"`
	Received  string `json:"received"`
	Highlight string `json:"highlight"`
}

// LoadTheme loads the colour theme from the embedded theme.json.
func LoadTheme() (Theme, error) {
	return Load[Theme]("theme.json")
}

// MustLoadTheme loads the colour theme, panicking on error.
func MustLoadTheme() Theme {
	return MustLoad[Theme]("theme.json")
}

// Color converts one of the theme's hex strings to a tcell.Color.
// Invalid or empty values fall back to white.
func (t Theme) Color(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}
