package picker

import "github.com/charmbracelet/lipgloss"

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	currentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	emptyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Align(lipgloss.Center)

	dropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

func boxStyle(focused, open bool) lipgloss.Style {
	border := lipgloss.Color("240")
	if focused {
		border = lipgloss.Color("39")
	}
	if open {
		border = lipgloss.Color("42")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}
