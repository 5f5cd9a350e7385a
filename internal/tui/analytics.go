package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecamli/monk/internal/analytics"
	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/store"
)

type analyticsModel struct {
	st     *store.Store
	width  int
	height int

	overview analytics.Overview
	settings store.Settings
	loaded   bool

	chart barchart.Model
}

type analyticsDataMsg struct {
	overview analytics.Overview
	settings store.Settings
}

func newAnalyticsModel(st *store.Store) analyticsModel {
	return analyticsModel{
		st:    st,
		chart: barchart.New(60, 10),
	}
}

func (m *analyticsModel) setSize(w, h int) {
	m.width = w
	m.height = h
	if m.loaded {
		m.buildChart()
	}
}

func (m analyticsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.st.ListTasks(false)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		hists, err := m.st.Histories()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		settings, err := m.st.Settings()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return analyticsDataMsg{
			overview: analytics.Compute(tasks, hists, dates.Today()),
			settings: settings,
		}
	}
}

func (m analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsDataMsg:
		m.overview = msg.overview
		m.settings = msg.settings
		m.loaded = true
		m.buildChart()
	}
	return m, nil
}

func (m *analyticsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, dc := range m.overview.Activity {
		// Day-of-month labels keep the 30-day axis readable.
		label := dc.Day[len(dc.Day)-2:]

		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if dc.Count == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: dc.Day, Value: float64(dc.Count), Style: style},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m analyticsModel) view() string {
	w := m.width - 4

	if !m.loaded {
		return panelStyle.Render(mutedStyle.Render("Loading analytics..."))
	}

	cards := m.renderCards()
	chartTitle := titleStyle.Render("Last 30 days")
	chartView := m.chart.View()
	table := m.renderConsistencyTable(w)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			cards, "", chartTitle, chartView, "", table,
		),
	)
}

func (m analyticsModel) renderCards() string {
	card := func(label, value string, style lipgloss.Style) string {
		return panelStyle.Padding(0, 2).Render(
			mutedStyle.Render(label) + "\n" + style.Bold(true).Render(value),
		)
	}

	today := 0
	if n := len(m.overview.Activity); n > 0 {
		today = m.overview.Activity[n-1].Count
	}
	goalStyle := mutedStyle
	if today >= m.settings.DailyGoalSessions {
		goalStyle = successStyle
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Sessions", fmt.Sprintf("%d", m.overview.TotalSessions), highlightStyle),
		card("Focused", formatFocusTime(m.overview.TotalMinutes), successStyle),
		card("Active tasks", fmt.Sprintf("%d", m.overview.ActiveTasks), normalItemStyle),
		card("Best streak", fmt.Sprintf("🔥 %d", m.overview.BestStreak), warningStyle),
		card("Today", fmt.Sprintf("%d/%d", today, m.settings.DailyGoalSessions), goalStyle),
	)
}

func (m analyticsModel) renderConsistencyTable(w int) string {
	if len(m.overview.PerTask) == 0 {
		return mutedStyle.Render("  No active tasks")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-24s %12s %8s %10s", "Task", "Sessions", "Rate", "Streak")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 58))))

	for _, ts := range m.overview.PerTask {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(ts.Task.Color)).Render("●")
		name := ts.Task.Icon + " " + ts.Task.Name
		if len(name) > 22 {
			name = name[:22]
		}
		rows = append(rows, fmt.Sprintf("  %s %-22s %7d/%-4d %7.0f%% %6d/%d",
			dot, name, ts.Completed, ts.Expected, ts.Rate*100, ts.Streak.Current, ts.Streak.Best,
		))
	}

	return strings.Join(rows, "\n")
}
