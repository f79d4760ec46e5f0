package dashboard

import "github.com/charmbracelet/lipgloss"

// stepStyles holds the shared style set for both renderers.
type stepStyles struct {
	Title    lipgloss.Style
	Group    lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warn     lipgloss.Style
	Muted    lipgloss.Style
	Box      lipgloss.Style
}

func defaultStepStyles() *stepStyles {
	return &stepStyles{
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color("#0077B6")).Bold(true),
		Group:    lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#0077B6")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F56")).Bold(true),
		Warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBD2E")).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1),
	}
}

var styles = defaultStepStyles()
