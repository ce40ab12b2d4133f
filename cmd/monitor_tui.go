// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/eggwerks/eggprinter/pkg/diagnostics"
	"github.com/eggwerks/eggprinter/pkg/eggwire"
	"github.com/eggwerks/eggprinter/pkg/hostsession"
)

// jogStep is how far one arrow-key press moves the pen, in canvas units.
const jogStep = 5

// monitorLogEntry mirrors errorLogEntry's shape (see tui.go) for the
// operation log this TUI keeps instead of a packet decode log. It
// implements list.Item so the log renders through bubbles/list the same
// way control_tui.go's deviceList renders a device.
type monitorLogEntry struct {
	timestamp time.Time
	message   string
	isError   bool
}

func (e monitorLogEntry) Title() string {
	prefix := ""
	if e.isError {
		prefix = "! "
	}
	return fmt.Sprintf("%s[%s] %s", prefix, e.timestamp.Format("15:04:05"), e.message)
}

func (e monitorLogEntry) Description() string {
	if e.isError {
		return "failed"
	}
	return "ok"
}

func (e monitorLogEntry) FilterValue() string { return e.message }

// monitorModel is the Bubble Tea model for `eggprinter monitor`: a live
// session-statistics view plus arrow-key jogging, grounded on tui.go's
// model/tick/style shape and control_tui.go's "send a command, let a
// tea.Cmd report the result asynchronously" pattern. Unlike control_tui.go
// this session allows only one outstanding request at a time, so sends
// are serialized through the busy flag rather than a background reader
// goroutine decoding a continuous byte stream.
type monitorModel struct {
	sess     *hostsession.Session
	connInfo string

	begun bool
	pen   eggwire.PenState
	x, y  int16

	busy    bool
	log     []monitorLogEntry
	logList list.Model

	width, height int
	quitting      bool
	fatalErr      error
}

type monitorTickMsg time.Time

// monitorOpResultMsg reports the outcome of one command sent to the
// firmware. label names the key that triggered it, for the log.
type monitorOpResultMsg struct {
	label string
	err   error
}

// newLogList builds the log panel the same way control_tui.go builds its
// device list: a non-filtering list.Model with the default
// delegate, sized to fit under the status boxes.
func newLogList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	l := list.New(nil, delegate, 60, 10)
	l.Title = "Log"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

func initialMonitorModel(sess *hostsession.Session, connInfo string) monitorModel {
	return monitorModel{
		sess:     sess,
		connInfo: connInfo,
		pen:      eggwire.PenUp,
		logList:  newLogList(),
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(monitorTickCmd(), tea.EnterAltScreen)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

// sendCmd wraps a blocking Session call in a tea.Cmd, the same
// fire-and-await-a-message shape control_tui.go uses for reconnection
// and discovery requests, just synchronous instead of channel-driven
// since only one request may ever be in flight.
func sendCmd(label string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return monitorOpResultMsg{label: label, err: fn()}
	}
}

func (m *monitorModel) addLog(message string, isError bool) {
	m.log = append(m.log, monitorLogEntry{timestamp: time.Now(), message: message, isError: isError})
	const maxLogEntries = 50
	if len(m.log) > maxLogEntries {
		m.log = m.log[len(m.log)-maxLogEntries:]
	}

	items := make([]list.Item, len(m.log))
	for i, entry := range m.log {
		items[i] = entry
	}
	m.logList.SetItems(items)
	m.logList.Select(len(items) - 1)
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listWidth := m.width - 4
		if listWidth < 20 {
			listWidth = 20
		}
		m.logList.SetSize(listWidth, 10)
		return m, nil

	case monitorTickMsg:
		return m, monitorTickCmd()

	case monitorOpResultMsg:
		m.busy = false
		if msg.err != nil {
			m.addLog(fmt.Sprintf("%s: FAILED: %v", msg.label, msg.err), true)
		} else {
			m.addLog(fmt.Sprintf("%s: ok", msg.label), false)
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "b":
			m.busy = true
			m.begun = true
			return m, sendCmd("begin", m.sess.SendBegin)

		case "e":
			m.busy = true
			m.begun = false
			return m, sendCmd("end", m.sess.SendEnd)

		case " ":
			next := eggwire.PenDown
			if m.pen == eggwire.PenDown {
				next = eggwire.PenUp
			}
			m.busy = true
			m.pen = next
			return m, sendCmd("pen", func() error {
				_, err := m.sess.SendPen(next)
				return err
			})

		case "up", "down", "left", "right":
			dx, dy := int16(0), int16(0)
			switch msg.String() {
			case "up":
				dy = -jogStep
			case "down":
				dy = jogStep
			case "left":
				dx = -jogStep
			case "right":
				dx = jogStep
			}
			target := eggwire.Point{X: m.x + dx, Y: m.y + dy}
			m.busy = true
			m.x, m.y = target.X, target.Y
			return m, sendCmd("move", func() error {
				_, err := m.sess.SendMove([]eggwire.Point{target})
				return err
			})
		}
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("EGGPRINTER - MONITOR"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("Connection: %s | Press 'q' to quit", m.connInfo)))
	s.WriteString("\n\n")

	penName := "up"
	if m.pen == eggwire.PenDown {
		penName = "down"
	}
	steppers := "disabled"
	if m.begun {
		steppers = "enabled"
	}
	busy := ""
	if m.busy {
		busy = " (sending...)"
	}

	status := fmt.Sprintf("%s %s   %s %s   %s (%d, %d)%s",
		labelStyle.Render("Steppers:"), valueStyle.Render(steppers),
		labelStyle.Render("Pen:"), valueStyle.Render(penName),
		labelStyle.Render("Position:"), m.x, m.y, busy)
	s.WriteString(boxStyle.Render(status))
	s.WriteString("\n\n")

	s.WriteString(labelStyle.Render("Keys: "))
	s.WriteString(headerStyle.Render("b=begin  e=end  space=toggle pen  arrows=jog  q=quit"))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Render(diagnostics.Report(m.sess.Stats.Snapshot())))
	s.WriteString("\n\n")

	s.WriteString(m.logList.View())

	return s.String()
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive TUI for jogging the printer and watching session statistics",
	Long: `Open a connection and hand it to an interactive terminal UI: arrow keys
jog the pen by ` + fmt.Sprintf("%d", jogStep) + ` units, space toggles the pen, 'b'/'e' send
Begin/End, and the panel below updates live with the same counters
diagnostics.Report produces for ping.

Only one request is ever outstanding, matching the wire protocol's
invariant; keys pressed while a send is in flight are ignored rather than
queued.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}

	sess, err := hostsession.Open(conn, hostsession.Options{Model: printerModel})
	if err != nil {
		conn.Close()
		return fmt.Errorf("open failed: %w", err)
	}
	defer sess.Close()

	m := initialMonitorModel(sess, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
