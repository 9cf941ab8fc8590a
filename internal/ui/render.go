package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/router"
	"github.com/oshokin/brie-blaster/internal/version"
)

const title = "BRIE BLASTER CONTROL SYSTEM"

// View implements tea.Model.
func (m Model) View() string {
	var body string

	switch m.view.Screen {
	case router.ScreenAntenna:
		body = m.renderAntenna()
	case router.ScreenLogin:
		body = m.renderLogin()
	case router.ScreenWarn:
		body = m.renderWarn()
	case router.ScreenPanel:
		body = m.renderPanel()
	case router.ScreenSystemDestroyed, router.ScreenEarthDestroyed:
		body = m.renderNarrative()
	default:
		body = m.styles.Dim.Render("ESTABLISHING UPLINK...")
	}

	return m.styles.Frame.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Title.Render(title),
		body,
		"",
		m.renderFooter(),
	))
}

func (m Model) renderAntenna() string {
	text := m.paragraphs(
		[]string{
			"YOU ARE ENTERING A DANGEROUS AREA. BE CAREFUL.",
			"TWEAKING THE SYSTEM MAY LEAD TO SERIOUS CONSEQUENCES.",
			"DO NOT PROCEED UNLESS YOU ARE AUTHORIZED TO DO SO.",
		},
		[]string{
			"YOU ARE HANDLING SENSITIVE HIGH VOLTAGE ELECTRONICS.",
			"1. ALWAYS CHECK IF THE ANTENNA IS CORRECTLY CONNECTED.",
			"2. ALWAYS CHECK IF THE ANTENNA IS CORRECTLY ASSEMBLED.",
			"3. MAKE SURE THE ANTENNA IS PLUGGED INTO THE USB PORT.",
		},
		[]string{
			"INSERTING NO ANTENNA OR A BROKEN ONE WILL CERTAINLY",
			"SHORT CIRCUIT THE ELECTRONICS AND DESTROY THIS COMPUTER.",
		},
		[]string{"YOU WILL NOT BE REFUNDED FOR ANY DAMAGES CAUSED BY YOUR ACTIONS."},
	)

	return lipgloss.JoinVertical(lipgloss.Left, text, "", m.button(antennaLabel(m.view.Antenna), m.view.Antenna))
}

func antennaLabel(g GateView) string {
	switch {
	case g.Started && g.Remaining > 0:
		return fmt.Sprintf("YES I REALLY READ THIS ALL (%ds)", wholeSeconds(g.Remaining))
	case g.Started:
		return "YES I REALLY READ THIS ALL ✓"
	default:
		return "I HAVE CONNECTED THE ANTENNA SAFELY ✓"
	}
}

func (m Model) renderWarn() string {
	ceilings := m.view.Panel.Ceilings

	text := m.paragraphs(
		[]string{
			"YOU ARE ENTERING A DANGEROUS AREA. BE CAREFUL.",
			"TWEAKING THE SYSTEM MAY LEAD TO SERIOUS CONSEQUENCES.",
			"DO NOT PROCEED UNLESS YOU ARE AUTHORIZED TO DO SO.",
		},
		[]string{
			"FOLLOW THESE RULES STRICTLY:",
			"1. NEVER EXCEED THE MAXIMUM ALLOWED CHEESE TEMPERATURE OF " + formatNumber(ceilings.MaxCoreHeat) + "K.",
			"2. NEVER HEAT UP THE CHAMBER BEFORE INSERTING THE CHEESE.",
			"3. NEVER EXCEED THE MAXIMUM ALLOWED CHAMBER PRESSURE OF " + formatNumber(ceilings.MaxDetonationPressure) + " GPa.",
			"4. NEVER EXCEED THE MAXIMUM ALLOWED CHEESE VELOCITY OF 10000 m/s.",
		},
		[]string{
			"SETTING THE PARAMETERS TOO HIGH MAY LEAD TO AN EXPLOSION OF THE WEAPON. OR WORSE.",
			"YOU WILL NOT BE REFUNDED FOR ANY DAMAGES CAUSED BY YOUR ACTIONS.",
		},
		[]string{"YOU HAVE BEEN WARNED."},
	)

	return lipgloss.JoinVertical(lipgloss.Left, text, "", m.button(safetyLabel(m.view.Safety), m.view.Safety))
}

func safetyLabel(g GateView) string {
	if g.Started && g.Remaining > 0 {
		return fmt.Sprintf("I HAVE READ AND UNDERSTOOD THE SAFETY WARNINGS (%ds)", wholeSeconds(g.Remaining))
	}

	return "I HAVE READ AND UNDERSTOOD THE SAFETY WARNINGS ✓"
}

func (m Model) renderLogin() string {
	login := m.view.Login
	rows := []string{m.styles.Warning.Render("[ACCESS_CREDENTIALS]"), ""}

	rows = append(rows, m.renderFields(m.login, login.Errors)...)

	switch {
	case login.Pending:
		rows = append(rows, "", m.styles.Warning.Render("AUTHENTICATING..."))
	case login.Status == auth.Granted:
		rows = append(rows, "", m.styles.OK.Render(login.Banner))
	case login.Banner != "":
		rows = append(rows, "", m.styles.Danger.Render(login.Banner))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPanel() string {
	view := m.view.Panel
	snapshot := view.Snapshot

	statusStyle := m.styles.Text

	switch snapshot.Stage {
	case panel.StageSettled:
		statusStyle = m.styles.OK
	case panel.StageWarming, panel.StageActing:
		statusStyle = m.styles.Warning
	case panel.StageArmed:
		statusStyle = m.styles.Danger
	case panel.StageIdle:
	}

	reading := "CORE READING: " + formatNumber(snapshot.CurrentReading) + " K"
	if snapshot.TargetReading != nil {
		reading += " -> " + formatNumber(*snapshot.TargetReading) + " K"
	}

	rows := []string{
		statusStyle.Render("STATUS: " + snapshot.Status),
		m.styles.Text.Render(reading),
		"",
	}

	rows = append(rows, m.renderFields(m.panel, view.Errors)...)
	rows = append(rows,
		"",
		m.styles.Dim.Render(fmt.Sprintf(
			"CORE HEAT %s-%s K, PRESSURE %s-%s GPa",
			formatNumber(view.Rules.CoreHeat.Min),
			formatNumber(view.Rules.CoreHeat.Max),
			formatNumber(view.Rules.DetonationPressure.Min),
			formatNumber(view.Rules.DetonationPressure.Max),
		)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderNarrative() string {
	frame := m.view.Narrative
	lines := make([]string, 0, len(frame.Lines)+1)

	for _, line := range frame.Lines {
		lines = append(lines, m.styles.Danger.Render(line))
	}

	if !frame.Done {
		lines = append(lines, m.styles.Danger.Render(frame.Current+"█"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFields(set fieldSet, errs map[string]string) []string {
	rows := make([]string, 0, len(set.fields))

	for i, f := range set.fields {
		label := m.styles.Label
		if i == set.focus {
			label = m.styles.FocusedLabel
		}

		row := label.Render(f.label) + f.input.View()
		if msg, ok := errs[f.name]; ok {
			row += "  " + m.styles.Danger.Render(msg)
		}

		rows = append(rows, row)
	}

	return rows
}

func (m Model) renderFooter() string {
	var help string

	switch m.view.Screen {
	case router.ScreenAntenna, router.ScreenWarn:
		help = "enter: press"
	case router.ScreenLogin, router.ScreenPanel:
		help = "tab/shift+tab: move, enter: submit"
	case router.ScreenSystemDestroyed, router.ScreenEarthDestroyed:
		help = "q: exit"
	}

	parts := []string{"v" + version.Short()}
	if help != "" {
		parts = append(parts, help)
	}

	parts = append(parts, "ctrl+c: quit")

	return m.styles.Dim.Render(strings.Join(parts, " | "))
}

func (m Model) button(label string, g GateView) string {
	if g.Accepted || (g.Started && g.Remaining <= 0) {
		return m.styles.ButtonActive.Render(label)
	}

	return m.styles.Button.Render(label)
}

func (m Model) paragraphs(blocks ...[]string) string {
	rendered := make([]string, 0, len(blocks))
	for _, block := range blocks {
		rendered = append(rendered, m.styles.Text.Render(strings.Join(block, "\n")))
	}

	return strings.Join(rendered, "\n\n")
}

// wholeSeconds rounds up, so the countdown never shows 0 while still waiting.
func wholeSeconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
