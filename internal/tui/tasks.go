package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecamli/monk/internal/analytics"
	"github.com/ecamli/monk/internal/dates"
	"github.com/ecamli/monk/internal/session"
	"github.com/ecamli/monk/internal/store"
)

// tasksModel renders the task grid: one panel per task showing the session
// slots for the day each task is currently paged to.
type tasksModel struct {
	st      *store.Store
	machine *session.Machine

	width  int
	height int

	tasks    []store.Task
	hists    map[string]store.History
	settings store.Settings

	cursor     int
	viewDay    string
	showStreak bool

	formActive bool
	form       *huh.Form
	editingID  string // non-empty while the form edits an existing task

	fName     *string
	fColor    *string
	fIcon     *string
	fStart    *string
	fEnd      *string
	fSessions *string
	fMinutes  *string
}

func newTasksModel(st *store.Store, machine *session.Machine) tasksModel {
	return tasksModel{
		st:      st,
		machine: machine,
		hists:   map[string]store.History{},
		viewDay: dates.Today(),
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
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
		return tasksDataMsg{tasks: tasks, hists: hists, settings: settings}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		m.hists = msg.hists
		m.settings = msg.settings
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Left):
			m.viewDay = shiftDay(m.viewDay, -1)
		case key.Matches(msg, keys.Right):
			m.viewDay = shiftDay(m.viewDay, 1)
		case key.Matches(msg, keys.Streak):
			m.showStreak = !m.showStreak
		case key.Matches(msg, keys.New):
			m = m.showForm(nil)
			return m, m.form.Init()
		case key.Matches(msg, keys.Edit):
			task := m.selected()
			if task == nil {
				return m, nil
			}
			if m.machine.Locked(m.settings, task.ID) {
				return m, func() tea.Msg {
					return statusMsg{text: "Monk mode: finish the running session first", isError: true}
				}
			}
			m = m.showForm(task)
			return m, m.form.Init()
		case key.Matches(msg, keys.Archive):
			return m, m.archiveSelected()
		case key.Matches(msg, keys.Start):
			return m, m.startSelected()
		case key.Matches(msg, keys.Back):
			m.showStreak = false
		}
	}

	return m, nil
}

func (m tasksModel) selected() *store.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func (m tasksModel) archiveSelected() tea.Cmd {
	task := m.selected()
	if task == nil {
		return nil
	}
	if m.machine.Locked(m.settings, task.ID) {
		return func() tea.Msg {
			return statusMsg{text: "Monk mode: finish the running session first", isError: true}
		}
	}
	if err := m.st.ArchiveTask(task.ID); err != nil {
		return func() tea.Msg {
			return statusMsg{text: err.Error(), isError: true}
		}
	}
	return m.refresh()
}

func (m tasksModel) startSelected() tea.Cmd {
	task := m.selected()
	if task == nil {
		return nil
	}
	if m.machine.Locked(m.settings, task.ID) {
		return func() tea.Msg {
			return statusMsg{text: "Monk mode: finish the running session first", isError: true}
		}
	}

	// First idle slot on the day this task is paged to.
	hist := m.hists[task.ID]
	day := m.viewDay
	index := -1
	for i := 1; i <= task.SessionsPerDay; i++ {
		if analytics.DeriveState(task.ID, hist, day, i, m.machine.Active()) == analytics.SlotIdle {
			index = i
			break
		}
	}
	if index == -1 {
		return func() tea.Msg {
			return statusMsg{text: "All sessions complete for this day"}
		}
	}

	id := task.ID
	return func() tea.Msg {
		timer, err := m.machine.Start(id, day, index)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return timerStartedMsg{timer: timer}
	}
}

// --- Add / edit task form ---

// showForm opens the task form; a nil existing task means create.
func (m tasksModel) showForm(existing *store.Task) tasksModel {
	name := ""
	color := store.Palette[0]
	icon := store.Icons[0]
	start := dates.Today()
	end := shiftDay(start, 9)
	sessions := "4"
	minutes := "25"

	m.editingID = ""
	if existing != nil {
		m.editingID = existing.ID
		name = existing.Name
		color = existing.Color
		icon = existing.Icon
		start = existing.StartDate
		end = existing.EndDate
		sessions = strconv.Itoa(existing.SessionsPerDay)
		minutes = strconv.Itoa(existing.MinutesPerSession)
	}

	m.fName = &name
	m.fColor = &color
	m.fIcon = &icon
	m.fStart = &start
	m.fEnd = &end
	m.fSessions = &sessions
	m.fMinutes = &minutes

	colorOpts := make([]huh.Option[string], len(store.Palette))
	colorNames := []string{"Cyan", "Violet", "Lime", "Crimson", "Azure"}
	for i, c := range store.Palette {
		colorOpts[i] = huh.NewOption(colorNames[i], c)
	}
	iconOpts := make([]huh.Option[string], len(store.Icons))
	for i, ic := range store.Icons {
		iconOpts[i] = huh.NewOption(ic, ic)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Deep work").
				Value(m.fName).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Accent").
				Options(colorOpts...).
				Value(m.fColor),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOpts...).
				Value(m.fIcon),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Start date").
				Description("YYYY-MM-DD").
				Value(m.fStart).
				Validate(validateDay),
			huh.NewInput().
				Title("End date").
				Description("YYYY-MM-DD").
				Value(m.fEnd).
				Validate(validateDay),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Sessions per day").
				Value(m.fSessions).
				Validate(validatePositive),
			huh.NewInput().
				Title("Minutes per session").
				Value(m.fMinutes).
				Validate(validatePositive),
		),
	).WithShowHelp(false)

	m.formActive = true
	return m
}

func validateDay(s string) error {
	if _, err := dates.Parse(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if err := m.submitForm(); err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: err.Error(), isError: true}
			}
		}
		return m, m.refresh()
	}
	if m.form.State == huh.StateAborted {
		m.formActive = false
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m tasksModel) submitForm() error {
	sessions, _ := strconv.Atoi(strings.TrimSpace(*m.fSessions))
	minutes, _ := strconv.Atoi(strings.TrimSpace(*m.fMinutes))
	task := store.Task{
		ID:                m.editingID,
		Name:              strings.TrimSpace(*m.fName),
		Color:             *m.fColor,
		Icon:              *m.fIcon,
		StartDate:         strings.TrimSpace(*m.fStart),
		EndDate:           strings.TrimSpace(*m.fEnd),
		SessionsPerDay:    sessions,
		MinutesPerSession: minutes,
	}
	if m.editingID != "" {
		return m.st.UpdateTask(task)
	}
	_, err := m.st.CreateTask(task)
	return err
}

// --- Rendering ---

func (m tasksModel) view() string {
	if m.formActive && m.form != nil {
		title := "New Task"
		if m.editingID != "" {
			title = "Edit Task"
		}
		return panelStyle.Width(min(m.width-4, 64)).Render(
			titleStyle.Render(title) + "\n\n" + m.form.View(),
		)
	}

	if len(m.tasks) == 0 {
		return panelStyle.Render(
			mutedStyle.Render("No tasks yet. Press ") +
				highlightStyle.Render("n") +
				mutedStyle.Render(" to create one."),
		)
	}

	var b strings.Builder
	b.WriteString(m.renderDayHeader())
	b.WriteString("\n")

	for i, task := range m.tasks {
		b.WriteString(m.renderTask(task, i == m.cursor))
		b.WriteString("\n")
	}

	if m.showStreak {
		if task := m.selected(); task != nil {
			b.WriteString("\n")
			b.WriteString(m.renderStreakPanel(*task))
		}
	}

	return b.String()
}

func (m tasksModel) renderDayHeader() string {
	label := m.viewDay
	if m.viewDay == dates.Today() {
		label = "Today · " + m.viewDay
	}
	return headerStyle.Render(
		titleStyle.Render(label) +
			mutedStyle.Render("  ←/→ change day"),
	)
}

func (m tasksModel) renderTask(task store.Task, selected bool) string {
	hist := m.hists[task.ID]
	locked := m.machine.Locked(m.settings, task.ID)

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(task.Color))
	completed, expected := analytics.TaskProgress(task, hist)
	streak := analytics.TaskStreak(task, hist, dates.Today())

	header := accent.Render(task.Icon+" "+task.Name) +
		mutedStyle.Render(fmt.Sprintf("  %d/%d sessions", completed, expected))
	if streak.Current > 0 {
		header += warningStyle.Render(fmt.Sprintf("  🔥%d", streak.Current))
	}
	if locked {
		header += errorStyle.Render("  ⛩ locked")
	}

	var body string
	switch {
	case m.viewDay < task.StartDate:
		body = mutedStyle.Render("Starts on " + task.StartDate)
	case m.viewDay > task.EndDate:
		body = mutedStyle.Render("Ended on " + task.EndDate)
	default:
		body = m.renderSlots(task, hist)
	}

	content := header + "\n" + body

	style := panelStyle
	if locked {
		style = lockedPanelStyle
	} else if selected {
		style = activePanelStyle
	}
	return style.Width(min(m.width-4, 72)).Render(content)
}

func (m tasksModel) renderSlots(task store.Task, hist store.History) string {
	boxes := make([]string, 0, task.SessionsPerDay)
	for i := 1; i <= task.SessionsPerDay; i++ {
		state := analytics.DeriveState(task.ID, hist, m.viewDay, i, m.machine.Active())
		switch state {
		case analytics.SlotCompleted:
			boxes = append(boxes, successStyle.Render("[✓]"))
		case analytics.SlotRunning:
			boxes = append(boxes, timerStyle.Render(fmt.Sprintf("[%s]", formatCountdown(m.machine.Remaining(time.Now())))))
		default:
			boxes = append(boxes, mutedStyle.Render(fmt.Sprintf("[%d]", i)))
		}
	}
	return strings.Join(boxes, " ")
}

// renderStreakPanel shows the streak numbers plus a 4-week activity map for
// the selected task, most recent day last.
func (m tasksModel) renderStreakPanel(task store.Task) string {
	hist := m.hists[task.ID]
	today := dates.Today()
	streak := analytics.TaskStreak(task, hist, today)

	var b strings.Builder
	b.WriteString(titleStyle.Render(task.Icon + " " + task.Name + " · streaks"))
	b.WriteString("\n\n")
	b.WriteString(warningStyle.Render(fmt.Sprintf("Current %d", streak.Current)))
	b.WriteString(mutedStyle.Render("   "))
	b.WriteString(highlightStyle.Render(fmt.Sprintf("Best %d", streak.Best)))
	b.WriteString("\n\n")

	// 28 cells, oldest first, 7 per row.
	cells := make([]string, 0, 28)
	for i := 27; i >= 0; i-- {
		day := shiftDay(today, -i)
		cells = append(cells, m.activityCell(task, hist, day))
	}
	for row := 0; row < 4; row++ {
		b.WriteString(strings.Join(cells[row*7:(row+1)*7], " "))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(1, 2).
		Render(b.String())
}

func (m tasksModel) activityCell(task store.Task, hist store.History, day string) string {
	if day < task.StartDate || day > task.EndDate {
		return mutedStyle.Render("·")
	}
	count := len(hist[day])
	switch {
	case count == 0:
		return mutedStyle.Render("░")
	case count < task.SessionsPerDay:
		return successStyle.Render("▓")
	default:
		return successStyle.Render("█")
	}
}
