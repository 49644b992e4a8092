package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lifetag/tagscan/internal/model"
)

// viewMsg replaces the displayed view.
type viewMsg struct {
	state model.ViewState
}

// alertMsg opens an alert. ack is closed when the user dismisses it.
type alertMsg struct {
	message string
	ack     chan struct{}
}

// Model is the Bubble Tea model of a scan session.
type Model struct {
	state   model.ViewState
	alert   *alertMsg
	spinner spinner.Model
	rescan  func()
	styles  styles
}

// NewModel creates a model. rescan is called when the user asks for a
// new scan from the result view.
func NewModel(rescan func()) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if rescan == nil {
		rescan = func() {}
	}
	return Model{
		state:   model.ViewState{ScanningVisible: true},
		spinner: sp,
		rescan:  rescan,
		styles:  defaultStyles(),
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.state = msg.state
		return m, nil

	case alertMsg:
		m.alert = &msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.alert != nil {
		close(m.alert.ack)
		m.alert = nil
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "r", "enter":
		if m.state.ResultVisible {
			m.rescan()
		}
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render("LifeTag Scanner"))
	sb.WriteString("\n\n")

	if m.alert != nil {
		sb.WriteString(m.styles.alert.Render(m.alert.message))
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.help.Render("press any key to continue"))
		sb.WriteString("\n")
		return sb.String()
	}

	if m.state.ScanningVisible {
		m.writeScanning(&sb)
	}
	if m.state.ResultVisible {
		m.writeResult(&sb)
	}
	return sb.String()
}

func (m Model) writeScanning(sb *strings.Builder) {
	status := m.state.Status
	if status.Phase == model.StatusError {
		sb.WriteString(m.styles.err.Render(status.Text))
		sb.WriteString("\n\n")
		sb.WriteString(m.styles.help.Render("q quit"))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(m.styles.status.Render(status.Text))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.help.Render("q quit"))
	sb.WriteString("\n")
}

func (m Model) writeResult(sb *strings.Builder) {
	for _, field := range m.state.Fields {
		sb.WriteString(m.styles.label.Render(field.Label))
		if field.Missing {
			sb.WriteString(m.styles.absent.Render(field.Value))
		} else {
			sb.WriteString(m.styles.value.Render(field.Value))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if m.state.Call.Visible {
		sb.WriteString(m.styles.call.Render("Call Emergency Contact: " + m.state.Call.Href))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.styles.help.Render("r rescan • q quit"))
	sb.WriteString("\n")
}
