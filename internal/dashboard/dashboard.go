// Package dashboard implements the optional live TUI for output=dump and
// output=debug modes: a scrolling trace-event viewport plus a side panel
// rendering the Memory Map Registry's current dump, as an alternative
// console front-end to plain nprint/dprint output (spec.md §4.7).
// Grounded on the bubbletea/bubbles/lipgloss stack SPEC_FULL.md's
// dependency table assigns to this package (carried in the teacher's
// go.mod but never wired to any UI in its own tree); the
// viewport-plus-styled-border layout follows bubbles' own viewport
// example, the idiomatic shape for a scrolling log pane in this stack.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/coreemu/coreemu/internal/orchestrator"
	"github.com/coreemu/coreemu/internal/trace"
)

var (
	borderStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

// EventMsg wraps a trace.Event as a bubbletea message; Update appends
// each one it receives to the trace pane. Nothing in the orchestrator
// sends these by itself.
type EventMsg *trace.Event

// Model is the dashboard's bubbletea model.
type Model struct {
	events   viewport.Model
	mmap     viewport.Model
	e        *orchestrator.Emulator
	lines    []string
	width    int
	height   int
	quitting bool
}

// New builds a dashboard model bound to e. Feed it trace events by
// calling Program.Send(dashboard.EventMsg(ev)) from wherever events are
// produced (typically a hook callback writing to a buffered channel a
// separate goroutine drains into Send, since hook callbacks themselves
// run on the engine's calling thread and must not block).
func New(e *orchestrator.Emulator) Model {
	events := viewport.New(80, 20)
	mmapView := viewport.New(40, 20)
	return Model{events: events, mmap: mmapView, e: e}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.events.Width = m.width * 2 / 3
		m.events.Height = m.height - 4
		m.mmap.Width = m.width - m.events.Width - 4
		m.mmap.Height = m.height - 4
		m.mmap.SetContent(m.e.MemMap().Dump())
	case EventMsg:
		m.lines = append(m.lines, formatEvent(msg))
		if len(m.lines) > 1000 {
			m.lines = m.lines[len(m.lines)-1000:]
		}
		m.events.SetContent(strings.Join(m.lines, "\n"))
		m.events.GotoBottom()
		m.mmap.SetContent(m.e.MemMap().Dump())
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	left := borderStyle.Render(titleStyle.Render("trace") + "\n" + m.events.View())
	right := borderStyle.Render(titleStyle.Render("memory map") + "\n" + m.mmap.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func formatEvent(ev *trace.Event) string {
	return fmt.Sprintf("%s %#010x %-10s %s", ev.PrimaryTag(), ev.PC, ev.Name, ev.Detail)
}

// Run starts the dashboard's bubbletea program and blocks until the user
// quits (q / ctrl+c). Callers typically run this on its own goroutine
// while the emulator runs on the host's main goroutine.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
