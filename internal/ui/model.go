package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/form"
	"github.com/oshokin/brie-blaster/internal/router"
)

// Model is the bubbletea model of the kiosk.
type Model struct {
	controller Controller
	view       View
	styles     styles
	login      fieldSet
	panel      fieldSet
	width      int
}

// NewModel creates a model that reports operator input to controller.
func NewModel(controller Controller) Model {
	m := Model{
		controller: controller,
		styles:     newStyles(),
		login:      newLoginFields(),
		panel:      newPanelFields(),
	}

	m.login.focusAt(0)
	m.panel.focusAt(0)

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Current returns the last view received from the kiosk.
func (m Model) Current() View {
	return m.view
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		return m.applyView(View(msg))
	case tea.WindowSizeMsg:
		m.width = msg.Width

		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.forward(msg)
}

func (m Model) applyView(view View) (tea.Model, tea.Cmd) {
	entered := view.Screen != m.view.Screen
	m.view = view

	if !entered {
		return m, nil
	}

	switch view.Screen {
	case router.ScreenLogin:
		m.login.reset(nil)

		return m, m.login.focusAt(0)
	case router.ScreenPanel:
		m.panel.reset(panelDefaults(view.Panel.Rules))

		return m, m.panel.focusAt(0)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.view.Screen {
	case router.ScreenAntenna:
		if isPress(msg) {
			return m, call(m.controller.PressAntenna)
		}
	case router.ScreenWarn:
		if isPress(msg) {
			return m, call(m.controller.PressSafety)
		}
	case router.ScreenLogin:
		if msg.Type == tea.KeyEnter {
			if m.view.Login.Pending {
				return m, nil
			}

			return m, m.submitLogin()
		}

		if cmd, ok := m.login.navigate(msg); ok {
			return m, cmd
		}

		return m, m.login.update(msg)
	case router.ScreenPanel:
		if msg.Type == tea.KeyEnter {
			return m, m.submitPanel()
		}

		if cmd, ok := m.panel.navigate(msg); ok {
			return m, cmd
		}

		return m, m.panel.update(msg)
	case router.ScreenSystemDestroyed, router.ScreenEarthDestroyed:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			return m, tea.Quit
		}
	}

	return m, nil
}

// forward passes non-key messages (cursor blink) to the visible form.
func (m Model) forward(msg tea.Msg) tea.Cmd {
	switch m.view.Screen {
	case router.ScreenLogin:
		return m.login.update(msg)
	case router.ScreenPanel:
		return m.panel.update(msg)
	default:
		return nil
	}
}

func (m Model) submitLogin() tea.Cmd {
	in := auth.Input{
		Password: m.login.value(auth.FieldPassword),
		X:        m.login.value(form.FieldX),
		Y:        m.login.value(form.FieldY),
		Z:        m.login.value(form.FieldZ),
	}

	controller := m.controller

	return func() tea.Msg {
		controller.SubmitLogin(in)

		return nil
	}
}

func (m Model) submitPanel() tea.Cmd {
	in := m.panel.values()
	controller := m.controller

	return func() tea.Msg {
		controller.SubmitPanel(in)

		return nil
	}
}

func isPress(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter || msg.Type == tea.KeySpace
}

// call runs fn off the render goroutine.
func call(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()

		return nil
	}
}
