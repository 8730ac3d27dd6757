// Package ui renders live progress of a directory parse in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"norg/internal/driver"
)

const labelWidth = 10

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// fileRow is one line of the file list.
type fileRow struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed float64 // мс, когда status == done
}

func (r fileRow) final() bool {
	return r.status == driver.StatusDone || r.status == driver.StatusError
}

// weight is the row's share of the overall bar, 0..1.
func (r fileRow) weight() float64 {
	if r.final() {
		return 1
	}
	if r.status == driver.StatusQueued {
		return 0
	}
	switch r.stage {
	case driver.StageLoad:
		return 0.1
	case driver.StageCache:
		return 0.3
	case driver.StageResolve:
		return 0.6
	}
	return 0
}

type progressModel struct {
	title    string
	events   <-chan driver.Event
	spinner  spinner.Model
	bar      progress.Model
	rows     []fileRow
	byPath   map[string]int
	finished int
	failed   int
	width    int
	done     bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel returns a Bubble Tea model that renders ParseDir progress
// for files until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		rows:   make([]fileRow, len(files)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(busyStyle))
	m.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(m.width-4))
	for i, path := range files {
		m.rows[i] = fileRow{path: path, stage: driver.StageLoad, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitEvent())
}

// waitEvent читает следующее событие; закрытый канал означает конец разбора.
func (m *progressModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.waitEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// разбор продолжится, но вывод прогресса можно прервать
		if k := msg.String(); k == "ctrl+c" || k == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// applyEvent обновляет строку файла; финальный статус считается один раз.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[i]
	wasFinal := row.final()
	row.stage, row.status = ev.Stage, ev.Status
	if ev.Status == driver.StatusDone {
		row.elapsed = float64(ev.Elapsed.Microseconds()) / 1000
	}
	if !wasFinal && row.final() {
		m.finished++
		if row.status == driver.StatusError {
			m.failed++
		}
	}

	var sum float64
	for _, r := range m.rows {
		sum += r.weight()
	}
	return m.bar.SetPercent(sum / float64(len(m.rows)))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.rows))
	if m.failed > 0 {
		header += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	nameWidth := max(m.width-labelWidth-14, 20)
	lines := make([]string, 0, len(m.rows)+4)
	lines = append(lines, headerStyle.Render(header), "")
	for _, r := range m.rows {
		label := statusLabel(r.stage, r.status)
		line := fmt.Sprintf("  %s %s", styleFor(r.status).Render(fmt.Sprintf("%*s", labelWidth, label)),
			runewidth.FillRight(truncate(r.path, nameWidth), nameWidth))
		if r.status == driver.StatusDone {
			line += fmt.Sprintf(" %7.2fms", r.elapsed)
		}
		lines = append(lines, line)
	}
	bar := m.bar.View()
	if m.done {
		bar = m.bar.ViewAs(1)
	}
	lines = append(lines, "", bar)
	return strings.Join(lines, "\n") + "\n"
}

// statusLabel: рабочее состояние подписывается стадией.
func statusLabel(stage driver.Stage, status driver.Status) string {
	if status != driver.StatusWorking {
		return string(status)
	}
	switch stage {
	case driver.StageLoad:
		return "loading"
	case driver.StageCache:
		return "cache"
	case driver.StageResolve:
		return "resolving"
	}
	return string(stage)
}

func styleFor(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return failStyle
	case driver.StatusWorking:
		return busyStyle
	}
	return idleStyle
}

// truncate обрезает по ширине в ячейках терминала, а не в байтах.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	tail := "..."
	if width <= len(tail) {
		tail = ""
	}
	return runewidth.Truncate(s, width, tail)
}
