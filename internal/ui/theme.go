package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the loading screen palette.
type Theme struct {
	Name string

	Background string
	Surface    string
	Border     string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Screen    lipgloss.Style
	Panel     lipgloss.Style
	Title     lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Footer    lipgloss.Style
	LogLevels map[string]lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	danger := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true)
	warning := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted))
	return Styles{
		Screen: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)).
			Foreground(lipgloss.Color(t.Text)),

		Panel: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(1, 3),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:   muted,
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Warning: warning,
		Danger:  danger,

		Footer: muted.Padding(0, 1),

		LogLevels: map[string]lipgloss.Style{
			"error":  danger,
			"dpanic": danger,
			"panic":  danger,
			"fatal":  danger,
			"warn":   warning,
			"debug":  muted,
		},
	}
}

// LogLevel returns the style for a log level, falling back to plain text.
func (s Styles) LogLevel(level string) lipgloss.Style {
	if style, ok := s.LogLevels[level]; ok {
		return style
	}
	return s.Text
}

var themes = map[string]Theme{
	"Dusk":     duskTheme(),
	"Daylight": daylightTheme(),
}

var themeOrder = []string{"Dusk", "Daylight"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return duskTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func duskTheme() Theme {
	// Tailwind CSS Slate/Sky palette
	return Theme{
		Name: "Dusk",

		Background: "#020617", // slate-950
		Surface:    "#0f172a", // slate-900
		Border:     "#334155", // slate-700

		Text:    "#f1f5f9", // slate-100
		Muted:   "#94a3b8", // slate-400
		Accent:  "#38bdf8", // sky-400
		Success: "#22c55e", // green-500
		Warning: "#f59e0b", // amber-500
		Danger:  "#ef4444", // red-500
	}
}

func daylightTheme() Theme {
	return Theme{
		Name: "Daylight",

		Background: "#f8fafc", // slate-50
		Surface:    "#ffffff",
		Border:     "#cbd5e1", // slate-300

		Text:    "#0f172a", // slate-900
		Muted:   "#64748b", // slate-500
		Accent:  "#0284c7", // sky-600
		Success: "#15803d", // green-700
		Warning: "#b45309", // amber-700
		Danger:  "#b91c1c", // red-700
	}
}
