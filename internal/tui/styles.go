package tui

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("4"))
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("8"))
	coordStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2)
)

// quadrantStyle renders in the quadrant's fixed color. Forced entries get
// the bold variant, defaults the plain one.
func quadrantStyle(hex string, forced bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	if forced {
		return s.Bold(true)
	}
	return s
}
