package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gauntlet/internal/harness"
)

// SuiteInfo seeds one line of the progress view.
type SuiteInfo struct {
	Name  string
	Title string
}

type runModel struct {
	title   string
	events  <-chan harness.Event
	spinner spinner.Model
	prog    progress.Model
	items   []suiteItem
	index   map[string]int
	current string
	width   int
	total   int
	count   int
	done    bool
}

type suiteItem struct {
	title   string
	status  string
	failed  int
	skipped int
}

type eventMsg harness.Event
type doneMsg struct{}

// NewRunModel returns a Bubble Tea model that renders run progress as one
// line per suite plus the fixture currently under evaluation.
func NewRunModel(title string, suites []SuiteInfo, events <-chan harness.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make([]suiteItem, 0, len(suites))
	index := make(map[string]int, len(suites))
	for i, s := range suites {
		items = append(items, suiteItem{title: s.Title, status: "queued"})
		index[s.Name] = i
	}
	return &runModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *runModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(harness.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		m.current = ""
		m.settleRunning()
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progModel, cmd := m.prog.Update(msg)
		m.prog = progModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *runModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.total > 0 {
		header = fmt.Sprintf("%s (%d/%d)", header, m.count, m.total)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		name := truncate(item.title, nameWidth)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		line := fmt.Sprintf("  %s %s%s", statusStyled, name, suiteTally(item))
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.current != "" {
		b.WriteString("\n  ")
		b.WriteString(truncate(m.current, m.width-4))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *runModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *runModel) applyEvent(ev harness.Event) tea.Cmd {
	if ev.Total > 0 {
		m.total = ev.Total
	}
	switch ev.Kind {
	case harness.EventSuiteStart:
		// Новый баннер закрывает предыдущий сьют.
		m.settleRunning()
		if idx, ok := m.index[ev.Suite]; ok {
			m.items[idx].status = "running"
		}
	case harness.EventFixtureStart:
		m.current = ev.Fixture
	case harness.EventFixtureDone:
		idx, ok := m.index[ev.Suite]
		if !ok {
			return nil
		}
		m.count++
		switch ev.Status {
		case harness.StatusFailed:
			m.items[idx].failed++
		case harness.StatusSkipped:
			m.items[idx].skipped++
		}
		if m.total > 0 {
			return m.prog.SetPercent(float64(m.count) / float64(m.total))
		}
	}
	return nil
}

// settleRunning проставляет итоговый статус сьютам, по которым прогон уже
// прошёл: события конца сьюта нет, его закрывает следующий баннер.
func (m *runModel) settleRunning() {
	for i := range m.items {
		if m.items[i].status != "running" {
			continue
		}
		if m.items[i].failed > 0 {
			m.items[i].status = "failed"
		} else {
			m.items[i].status = "ok"
		}
	}
}

func suiteTally(item suiteItem) string {
	var parts []string
	if item.failed > 0 {
		tag := fmt.Sprintf("%d failed", item.failed)
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(tag))
	}
	if item.skipped > 0 {
		tag := fmt.Sprintf("%d skipped", item.skipped)
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(tag))
	}
	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, " ")
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "ok":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "failed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
