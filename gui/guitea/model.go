// Package guitea is a bubbletea terminal inspector for the sampler engine,
// grounded directly on the teacher's tui.Model: the same Init/Update/View
// shape, the same "listen on a channel, re-issue the listening Cmd"
// pattern for inbound notifications, re-themed onto a 4x4 pad grid instead
// of an 8x8 Launchpad view.
package guitea

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mcksamplerd/engine"
	"mcksamplerd/gui/guichan"
	"mcksamplerd/theme"
	"mcksamplerd/widgets"
)

// Model is the bubbletea model for the sampler inspector.
type Model struct {
	Transport *guichan.Transport
	Theme     *theme.Theme

	quitting bool
	report   engine.TransportReport
	pads     [16]padView
	lastMsg  string
}

type padView struct {
	available bool
	name      string
	flash     bool
}

// ReportMsg wraps a transport.state notification delivered over the
// transport's Out() channel.
type ReportMsg engine.TransportReport

// SnapshotMsg wraps a data.get reply describing the current pad bank, used
// to populate the grid's availability/name display.
type SnapshotMsg struct {
	Pads [16]struct {
		Available bool
		Name      string
	}
}

// NewModel returns a fresh Model bound to transport and th.
func NewModel(transport *guichan.Transport, th *theme.Theme) Model {
	return Model{Transport: transport, Theme: th}
}

// ListenForReports waits for the next engine notification on transport's
// Out() channel and wraps it as a tea.Msg.
func ListenForReports(transport *guichan.Transport) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-transport.Out()
		if !ok {
			return nil
		}
		switch msg.MsgType {
		case "state":
			if rep, ok := msg.Payload.(engine.TransportReport); ok {
				return ReportMsg(rep)
			}
		}
		return nil
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForReports(m.Transport)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "p":
			m.Transport.Post(engine.GuiMessage{Section: "transport", MsgType: "command",
				Payload: engine.TransportCommandPayload{Command: "play"}})
		case "s":
			m.Transport.Post(engine.GuiMessage{Section: "transport", MsgType: "command",
				Payload: engine.TransportCommandPayload{Command: "stop"}})

		default:
			if idx, ok := padKeyIndex(msg.String()); ok {
				m.pads[idx].flash = true
				m.Transport.Post(engine.GuiMessage{Section: "pads", MsgType: "trigger",
					Payload: engine.PadTriggerPayload{Index: idx, Strength: 1.0}})
			}
		}

	case ReportMsg:
		m.report = engine.TransportReport(msg)
		for i := range m.pads {
			m.pads[i].flash = false
		}
		return m, ListenForReports(m.Transport)

	case SnapshotMsg:
		for i, p := range msg.Pads {
			m.pads[i].available = p.Available
			m.pads[i].name = p.Name
		}
	}

	return m, nil
}

// padKeyIndex maps the number row and qwer/asdf/zxcv rows to pad indices
// 0..15, a terminal-friendly stand-in for a real 4x4 Launchpad grid.
func padKeyIndex(key string) (int, bool) {
	rows := []string{"1234", "qwer", "asdf", "zxcv"}
	for r, row := range rows {
		for c := 0; c < len(row); c++ {
			if key == string(row[c]) {
				return r*4 + c, true
			}
		}
	}
	return -1, false
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if m.report.State.Running {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("mcksamplerd  %s  step:%02d", playState, m.report.Step))

	var rows []string
	for row := 3; row >= 0; row-- {
		var colors [][3]uint8
		for col := 0; col < 4; col++ {
			i := row*4 + col
			var c theme.RGB
			switch {
			case m.pads[i].flash:
				c = m.Theme.RGB(theme.RoleActive)
			case m.pads[i].available:
				c = m.Theme.RGB(theme.RoleFG)
			default:
				c = m.Theme.RGB(theme.RoleSurface)
			}
			colors = append(colors, [3]uint8(c))
		}
		rows = append(rows, widgets.RenderPadRow(colors))
	}
	gridView := strings.Join(rows, "\n")

	help := dimStyle.Render("1-4/qwer/asdf/zxcv: trigger  p: play  s: stop  q: quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(gridView)
	out.WriteString("\n\n")
	out.WriteString(help)
	return out.String()
}
