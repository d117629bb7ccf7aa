// Package tui renders a live progress view of an in-flight integration: a
// bubbletea/lipgloss Model showing step/Newton statistics advancing toward
// a target time.
package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/beuler/internal/dae"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Model drives one integration a few steps at a time on each tick, so the
// view can render intermediate progress without blocking on the whole run.
type Model struct {
	driver     *dae.Driver
	name       string
	targetT    float64
	chunk      float64
	reached    float64
	failed     bool
	failReason float64
}

// NewModel wraps an already-constructed driver for live display.
func NewModel(name string, driver *dae.Driver, targetT float64) Model {
	return Model{
		driver:  driver,
		name:    name,
		targetT: targetT,
		chunk:   targetT / 100,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		if m.failed || m.reached >= m.targetT {
			return m, tea.Quit
		}
		next := m.reached + m.chunk
		if next > m.targetT {
			next = m.targetT
		}
		r := m.driver.Integrate(next)
		if r < 0 {
			m.failed = true
			m.failReason = r
			return m, tea.Quit
		}
		m.reached = r
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	s := headerStyle.Render(fmt.Sprintf("beuler — %s", m.name)) + "\n"
	s += labelStyle.Render("time") + valueStyle.Render(fmt.Sprintf("%.4g / %.4g", m.reached, m.targetT)) + "\n"
	s += labelStyle.Render("steps") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Stats.StepsAccepted)) + "\n"
	s += labelStyle.Render("newton its") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Stats.NewtonIterations)) + "\n"
	s += labelStyle.Render("conv failures") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Stats.ConvergenceFailures)) + "\n"
	s += labelStyle.Render("trunc failures") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Stats.TruncationFailures)) + "\n"
	if m.failed {
		s += "\n" + valueStyle.Render(fmt.Sprintf("integration failed (code %.0f)", m.failReason)) + "\n"
	}
	s += helpStyle.Render("q to quit")
	return s
}
