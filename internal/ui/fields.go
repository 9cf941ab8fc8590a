package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oshokin/brie-blaster/internal/auth"
	"github.com/oshokin/brie-blaster/internal/domain/panel"
	"github.com/oshokin/brie-blaster/internal/form"
)

const fieldCharLimit = 32

type field struct {
	name  string
	label string
	input textinput.Model
}

func newField(name, label, placeholder string) field {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = placeholder
	in.CharLimit = fieldCharLimit
	in.Width = 24

	return field{name: name, label: label, input: in}
}

// fieldSet is a vertical list of inputs with a single focused entry.
type fieldSet struct {
	fields []field
	focus  int
}

func newLoginFields() fieldSet {
	password := newField(auth.FieldPassword, "PASSWORD", "••••••••")
	password.input.EchoMode = textinput.EchoPassword
	password.input.EchoCharacter = '•'

	return fieldSet{fields: []field{
		password,
		newField(form.FieldX, "X", "0.0"),
		newField(form.FieldY, "Y", "0.0"),
		newField(form.FieldZ, "Z", "0.0"),
	}}
}

func newPanelFields() fieldSet {
	return fieldSet{fields: []field{
		newField(form.FieldX, "X_COORDINATE", "0"),
		newField(form.FieldY, "Y_COORDINATE", "0"),
		newField(form.FieldZ, "Z_COORDINATE", "0"),
		newField(form.FieldCoreHeat, "CORE HEAT TEMPERATURE (K)", "1000"),
		newField(form.FieldDetonationPressure, "DETONATION PRESSURE (GPa)", "1.0"),
	}}
}

// panelDefaults puts every slider at its lower bound and aims at the origin.
func panelDefaults(rules form.Rules) form.Input {
	return form.FromParameters(panel.ParameterSet{
		CoreHeat:           rules.CoreHeat.Min,
		DetonationPressure: rules.DetonationPressure.Min,
	})
}

// focusAt moves the focus, wrapping around both ends.
func (s *fieldSet) focusAt(index int) tea.Cmd {
	count := len(s.fields)
	if count == 0 {
		return nil
	}

	s.focus = ((index % count) + count) % count

	var cmd tea.Cmd

	for i := range s.fields {
		if i == s.focus {
			cmd = s.fields[i].input.Focus()

			continue
		}

		s.fields[i].input.Blur()
	}

	return cmd
}

// navigate handles focus keys and reports whether msg was one.
func (s *fieldSet) navigate(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		return s.focusAt(s.focus + 1), true
	case tea.KeyShiftTab, tea.KeyUp:
		return s.focusAt(s.focus - 1), true
	default:
		return nil, false
	}
}

func (s *fieldSet) update(msg tea.Msg) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}

	var cmd tea.Cmd

	s.fields[s.focus].input, cmd = s.fields[s.focus].input.Update(msg)

	return cmd
}

func (s *fieldSet) focused() string {
	if len(s.fields) == 0 {
		return ""
	}

	return s.fields[s.focus].name
}

func (s *fieldSet) value(name string) string {
	for _, f := range s.fields {
		if f.name == name {
			return f.input.Value()
		}
	}

	return ""
}

// reset replaces every value; fields missing from values are cleared.
func (s *fieldSet) reset(values map[string]string) {
	for i := range s.fields {
		s.fields[i].input.SetValue(values[s.fields[i].name])
	}
}

func (s *fieldSet) values() form.Input {
	in := make(form.Input, len(s.fields))
	for _, f := range s.fields {
		in[f.name] = f.input.Value()
	}

	return in
}
