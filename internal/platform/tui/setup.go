package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-airhockey/internal/core"
	"github.com/vovakirdan/tui-airhockey/internal/match"
)

// Bounds of the value picker.
const (
	minSetupValue = 1
	maxSetupValue = 99
)

// suggestedValues are the picker's starting values for modes other than
// the configured default.
var suggestedValues = map[match.Mode]uint32{
	match.HighScore:   7,
	match.BestOfScore: 5,
	match.Time:        3,
}

var (
	setupTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	setupPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	setupHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// SetupModel asks for the match mode and then for the mode's value.
// Endless has no value and completes as soon as it is picked.
type SetupModel struct {
	title       string
	defaults    match.Settings
	cursor      int
	value       uint32
	pickingMode bool
	width       int
	height      int
	keyMapper   *KeyMapper

	selection *match.Settings
	quitting  bool
	back      bool
}

// NewSetupModel creates a setup screen starting on the default settings.
func NewSetupModel(title string, defaults match.Settings, width, height int) SetupModel {
	m := SetupModel{
		title:       title,
		defaults:    defaults,
		pickingMode: true,
		width:       width,
		height:      height,
		keyMapper:   NewKeyMapper(),
	}
	for i, mode := range match.Modes {
		if mode == defaults.Mode() {
			m.cursor = i
		}
	}
	return m
}

// Init initializes the model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.pickingMode {
			return m.handleModeKey(msg)
		}
		return m.handleValueKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SetupModel) handleModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(match.Modes)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		mode := match.Modes[m.cursor]
		if mode == match.Endless {
			s := match.EndlessSettings()
			m.selection = &s
			return m, tea.Quit
		}
		m.pickingMode = false
		m.value = m.startValue(mode)
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SetupModel) handleValueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp, MenuActionRight:
		m.value = min(m.value+1, maxSetupValue)
	case MenuActionDown, MenuActionLeft:
		m.value = max(m.value-1, minSetupValue)
	case MenuActionSelect:
		s, err := match.NewSettings(match.Modes[m.cursor], m.value)
		if err != nil {
			return m, nil
		}
		m.selection = &s
		return m, tea.Quit
	case MenuActionBack:
		m.pickingMode = true
	}
	return m, nil
}

func (m SetupModel) startValue(mode match.Mode) uint32 {
	v := suggestedValues[mode]
	if mode == m.defaults.Mode() {
		v = m.defaults.Value()
	}
	return min(max(v, minSetupValue), maxSetupValue)
}

// View renders the current step.
func (m SetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(setupTitleStyle.Render(m.title), m.width))
	b.WriteString("\n\n")

	if m.pickingMode {
		b.WriteString(centerText("Select match mode:", m.width))
		b.WriteString("\n\n")
		for i, mode := range match.Modes {
			line := "  " + mode.String()
			if i == m.cursor {
				line = setupPickStyle.Render("> " + mode.String())
			}
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(centerText(setupHintStyle.Render("Enter: Select  |  Esc: Back  |  Q: Quit"), m.width))
		return b.String()
	}

	mode := match.Modes[m.cursor]
	b.WriteString(centerText(mode.String(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(setupPickStyle.Render("< "+ValueLabel(mode, m.value)+" >"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(setupHintStyle.Render("Left/Right: Adjust  |  Enter: Start  |  Esc: Modes"), m.width))
	return b.String()
}

// ValueLabel renders a mode value with its labels, e.g. "score: 5 points".
func ValueLabel(mode match.Mode, value uint32) string {
	name, err := mode.InfoName()
	if err != nil {
		return mode.String()
	}
	unit, err := mode.InfoUnitName()
	if err != nil {
		return mode.String()
	}
	return fmt.Sprintf("%s: %d %s", name, value, unit)
}

// Selected returns the chosen settings, or nil if still choosing.
func (m SetupModel) Selected() *match.Settings {
	return m.selection
}

// IsQuitting returns true if user wants to quit.
func (m SetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SetupModel) WantsBack() bool {
	return m.back
}

// RunSetup runs the match setup screen and returns the chosen settings.
// A nil result means the user backed out or quit.
func RunSetup(title string, defaults match.Settings, cfg core.RuntimeConfig) (*match.Settings, error) {
	model := NewSetupModel(title, defaults, cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(SetupModel)
	if !ok || m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}
	return m.Selected(), nil
}
