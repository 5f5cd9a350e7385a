package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ecamli/monk/internal/auth"
	"github.com/ecamli/monk/internal/store"
)

type settingsModel struct {
	st       *store.Store
	provider auth.Provider
	width    int
	height   int

	settings store.Settings
	identity auth.Identity

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	monkMode      *bool
	sound         *bool
	notifications *bool
	accent        *string
	dailyGoal     *string
}

func newSettingsModel(st *store.Store, provider auth.Provider) settingsModel {
	mm, snd, ntf := false, true, true
	ac, dg := "", ""
	return settingsModel{
		st:            st,
		provider:      provider,
		identity:      auth.GuestIdentity(),
		monkMode:      &mm,
		sound:         &snd,
		notifications: &ntf,
		accent:        &ac,
		dailyGoal:     &dg,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.Settings
	identity auth.Identity
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.st.Settings()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		identity, err := s.st.Identity()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return settingsDataMsg{settings: settings, identity: identity}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.identity = msg.identity
		return s, nil

	case identityMsg:
		s.identity = msg.identity
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		case key.Matches(msg, keys.Login):
			return s, s.login()
		case key.Matches(msg, keys.Logout):
			return s, s.logout()
		}
	}
	return s, nil
}

func (s settingsModel) login() tea.Cmd {
	return func() tea.Msg {
		identity, err := s.provider.Login(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sign-in failed: %v", err), isError: true}
		}
		if err := s.st.SaveIdentity(identity); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return identityMsg{identity: identity}
	}
}

func (s settingsModel) logout() tea.Cmd {
	return func() tea.Msg {
		if err := s.provider.Logout(context.Background()); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		if err := s.st.ClearIdentity(); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return identityMsg{identity: auth.GuestIdentity()}
	}
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.monkMode = s.settings.MonkMode
	*s.sound = s.settings.SoundEnabled
	*s.notifications = s.settings.NotificationsEnabled
	*s.accent = s.settings.ThemeAccent
	*s.dailyGoal = strconv.Itoa(s.settings.DailyGoalSessions)

	accentOpts := make([]huh.Option[string], len(store.Palette))
	accentNames := []string{"Cyan", "Violet", "Lime", "Crimson", "Azure"}
	for i, c := range store.Palette {
		accentOpts[i] = huh.NewOption(accentNames[i], c)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Monk mode").
				Description("Lock other tasks while a session runs").
				Value(s.monkMode),
			huh.NewConfirm().Title("Sound").Value(s.sound),
			huh.NewConfirm().Title("Notifications").Value(s.notifications),
		).Title("Focus"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Theme accent").
				Options(accentOpts...).
				Value(s.accent),
			huh.NewInput().Title("Daily goal (sessions)").
				Value(s.dailyGoal).
				Validate(validatePositive),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	goal, err := strconv.Atoi(strings.TrimSpace(*s.dailyGoal))
	if err != nil || goal <= 0 {
		goal = s.settings.DailyGoalSessions
	}
	next := store.Settings{
		MonkMode:             *s.monkMode,
		SoundEnabled:         *s.sound,
		NotificationsEnabled: *s.notifications,
		ThemeAccent:          *s.accent,
		DailyGoalSessions:    goal,
	}
	s.st.SaveSettings(next)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	onOff := func(v bool) string {
		if v {
			return successStyle.Render("on")
		}
		return mutedStyle.Render("off")
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(24).Render(label), value)
	}
	rows = append(rows, row("Monk mode", onOff(s.settings.MonkMode)))
	rows = append(rows, row("Sound", onOff(s.settings.SoundEnabled)))
	rows = append(rows, row("Notifications", onOff(s.settings.NotificationsEnabled)))
	accentDot := lipgloss.NewStyle().Foreground(lipgloss.Color(s.settings.ThemeAccent)).Render("●")
	rows = append(rows, row("Theme accent", accentDot+" "+highlightStyle.Render(s.settings.ThemeAccent)))
	rows = append(rows, row("Daily goal", highlightStyle.Render(fmt.Sprintf("%d sessions", s.settings.DailyGoalSessions))))

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Account"))
	rows = append(rows, "")
	if s.identity.Guest {
		rows = append(rows, row("Signed in as", mutedStyle.Render("Guest Monk")))
		rows = append(rows, row("", mutedStyle.Render("press i to sign in")))
	} else {
		rows = append(rows, row("Signed in as", highlightStyle.Render(s.identity.Name)))
		if s.identity.Email != "" {
			rows = append(rows, row("Email", mutedStyle.Render(s.identity.Email)))
		}
		rows = append(rows, row("", mutedStyle.Render("press o to sign out")))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
