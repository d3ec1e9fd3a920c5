package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a palette for the album view. Status badges reuse the palette:
// each badge name maps to one of the named colors below.
type Theme struct {
	Name string

	Background    string // terminal fill, status bar
	Surface       string // header
	SelectionBg   string // selected album row
	SelectionText string
	Border        string // table header rule

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Info    string // loading, notes about cached data
	Warning string // logo, notices, cached badge
	Danger  string // failures, offline marker
	Fresh   string // albums straight from the server
	Offline string // no_internet badge
	Odd     string // unknown_problem badge
}

// StatusColor returns the badge color for a status name from statusName,
// or "" for names it does not know.
func (t Theme) StatusColor(status string) string {
	switch status {
	case "loading":
		return t.Info
	case "cached_data":
		return t.Warning
	case "no_internet":
		return t.Offline
	case "client_problem", "server_problem":
		return t.Danger
	case "unknown_problem":
		return t.Odd
	case "fresh":
		return t.Fresh
	default:
		return ""
	}
}

// Styles contains the lipgloss styles the album view renders with.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style

	theme Theme
}

// Styles builds the styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header:      fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Footer:      fg(t.Muted).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:        fg(t.Warning).Bold(true),
		theme:       t,
	}
}

// StatusStyle returns the badge style for a status name. Unknown names get
// the muted color.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.theme.StatusColor(status)
	if color == "" {
		color = s.theme.Muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.theme.Background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy with bgColor set on every style, so text
// drawn inside a colored bar does not punch holes in it.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		Name:       "Nightfox",
		Background: "#131a24", Surface: "#192330", Border: "#39506d",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Info: "#63cdcf", Warning: "#dbc074", Danger: "#c94f6d",
		Fresh: "#81b29a", Offline: "#f4a261", Odd: "#9d79d6",
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		Name:       "Kanagawa",
		Background: "#16161D", Surface: "#1F1F28", Border: "#54546D",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Info: "#7FB4CA", Warning: "#E6C384", Danger: "#E46876",
		Fresh: "#98BB6C", Offline: "#FFA066", Odd: "#957FB8",
	},
	// Tailwind slate and sky
	"Slate": {
		Name:       "Slate",
		Background: "#020617", Surface: "#0f172a", Border: "#334155",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Info: "#06b6d4", Warning: "#f59e0b", Danger: "#dc2626",
		Fresh: "#16a34a", Offline: "#f97316", Odd: "#a855f7",
	},
}

// GetTheme returns a theme by name, Nightfox when the name is unknown.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[themeOrder[0]]
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns the available themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}
