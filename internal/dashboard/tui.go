package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RunDashboard launches the interactive step dashboard. Returns the suite
// exit code once every step has finished and the user quits.
func RunDashboard(ctx context.Context, title string, specs []StepSpec) (int, error) {
	program := tea.NewProgram(newModel(ctx, title, specs), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return 1, err
	}
	return finalModel.(model).exitCode(), nil
}

type model struct {
	ctx         context.Context
	title       string
	steps       []*Step
	updates     <-chan StepUpdate
	selected    int
	viewport    viewport.Model
	ready       bool
	done        bool
	width       int
	height      int
	listWidth   int
	detailWidth int
}

func newModel(ctx context.Context, title string, specs []StepSpec) model {
	vp := viewport.New(0, 0)
	vp.SetContent("Select a step to view output")
	steps, updates := StartSteps(ctx, specs)
	return model{ctx: ctx, title: title, steps: steps, updates: updates, viewport: vp}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.listenUpdates(), tea.Tick(time.Second/8, func(time.Time) tea.Msg { return tickMsg{} }))
}

type tickMsg struct{}
type stepUpdateMsg StepUpdate
type doneMsg struct{}

func (m model) listenUpdates() tea.Cmd {
	return func() tea.Msg {
		update, ok := <-m.updates
		if !ok {
			return doneMsg{}
		}
		return stepUpdateMsg(update)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.done {
				return m, tea.Quit
			}
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
		case "down", "j":
			if m.selected < len(m.steps)-1 {
				m.selected++
				m.refreshViewport()
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 2
		m.height = msg.Height
		m.listWidth = m.calculateListWidth()
		if m.listWidth > m.width/2 {
			m.listWidth = m.width / 2
		}
		m.detailWidth = m.width - m.listWidth - 1
		m.viewport.Width = m.detailWidth - 4
		m.viewport.Height = msg.Height - 10
		m.ready = true
		m.refreshViewport()
	case tickMsg:
		return m, tea.Tick(time.Second/8, func(time.Time) tea.Msg { return tickMsg{} })
	case stepUpdateMsg:
		up := StepUpdate(msg)
		if up.Index < len(m.steps) {
			step := m.steps[up.Index]
			if !up.StartedAt.IsZero() && step.StartedAt.IsZero() {
				step.StartedAt = up.StartedAt
			}
			if up.Line != "" {
				step.appendLine(up.Line)
				if m.selected == up.Index {
					m.refreshViewport()
				}
			}
			step.Status = up.Status
			if up.Status == StepSuccess || up.Status == StepFailed {
				step.ExitCode = up.ExitCode
				step.FinishedAt = up.FinishedAt
			}
			// Follow the active step so its output is visible as it runs.
			if up.Status == StepRunning && m.selected != up.Index {
				m.selected = up.Index
				m.refreshViewport()
			}
		}
		if m.allDone() {
			m.done = true
		}
		return m, m.listenUpdates()
	case doneMsg:
		m.done = m.allDone()
		return m, nil
	}
	return m, nil
}

func (m *model) calculateListWidth() int {
	maxWidth := 22
	for _, step := range m.steps {
		if w := len(step.Spec.Group) + 3; w > maxWidth {
			maxWidth = w
		}
		if w := len(step.Spec.Name) + 14; w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth + 4
}

func (m *model) refreshViewport() {
	if m.selected < 0 || m.selected >= len(m.steps) {
		return
	}
	m.viewport.SetContent(strings.Join(m.steps[m.selected].GetOutput(), "\n"))
	m.viewport.GotoBottom()
}

func (m model) View() string {
	if !m.ready {
		return "Loading dashboard..."
	}

	title := "\n" + styles.Title.Width(m.width).Height(1).Render(m.title)

	contentHeight := m.height - 8
	if contentHeight < 5 {
		contentHeight = 5
	}

	listPanel := styles.Box.
		Width(m.listWidth).
		Render(padLines(renderList(m.steps, m.selected, m.listWidth), contentHeight))

	var detailContent string
	if m.selected >= 0 && m.selected < len(m.steps) {
		step := m.steps[m.selected]
		header := styles.Group.Render(stepLabel(step.Spec))
		detailContent = header + "\n\n" + m.viewport.View()
	} else {
		detailContent = "Select a step to view output"
	}
	detailPanel := styles.Box.
		Width(m.detailWidth).
		Render(padLines(detailContent, contentHeight))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, detailPanel)
	help := styles.Muted.Render("↑/↓ navigate • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}

func padLines(content string, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func renderList(steps []*Step, selected int, width int) string {
	var lines []string
	groupOrder := make([]string, 0)
	grouped := make(map[string][]int)
	for i, step := range steps {
		if _, ok := grouped[step.Spec.Group]; !ok {
			groupOrder = append(groupOrder, step.Spec.Group)
		}
		grouped[step.Spec.Group] = append(grouped[step.Spec.Group], i)
	}
	lineWidth := width - 6
	if lineWidth < 20 {
		lineWidth = 20
	}
	for _, g := range groupOrder {
		lines = append(lines, styles.Group.Render("▸ "+g))
		for _, idx := range grouped[g] {
			step := steps[idx]
			duration := ""
			if step.Status != StepPending && step.Status != StepSkipped {
				duration = " " + formatDuration(step.Duration())
			}
			if idx == selected {
				content := fmt.Sprintf("▶ %s %s%s", statusIcon(step), step.Spec.Name, duration)
				lines = append(lines, styles.Selected.Width(lineWidth).Render(content))
			} else {
				lines = append(lines, fmt.Sprintf("  %s %s%s", statusIcon(step), step.Spec.Name, styles.Muted.Render(duration)))
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func statusIcon(step *Step) string {
	switch step.Status {
	case StepPending:
		return styles.Muted.Render("◌")
	case StepRunning:
		idx := int(time.Since(step.StartedAt)/(120*time.Millisecond)) % len(spinnerFrames)
		return styles.Warn.Render(spinnerFrames[idx])
	case StepSuccess:
		return styles.Success.Render("✓")
	case StepFailed:
		return styles.Error.Render("✗")
	case StepSkipped:
		return styles.Muted.Render("-")
	default:
		return "?"
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Round(100*time.Millisecond).Seconds())
}

func (m model) allDone() bool {
	for _, step := range m.steps {
		if step.Status == StepPending || step.Status == StepRunning {
			return false
		}
	}
	return true
}

func (m model) exitCode() int {
	for _, step := range m.steps {
		if step.Status == StepFailed {
			return 1
		}
	}
	return 0
}
