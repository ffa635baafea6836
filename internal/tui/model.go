package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/BrewBlox/brewblox-mdns/internal/discovery"
)

// Messages for async discovery events
type scanStartedMsg struct {
	session *discovery.Session
	cancel  context.CancelFunc
}
type recordMsg struct {
	rec discovery.ServiceRecord
}
type scanDoneMsg struct{}
type scanErrMsg struct {
	err error
}

// keyMap defines key bindings for the discovery screen
type keyMap struct {
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Rescan, k.Quit}}
}

// Model is the live discovery screen: a spinner while the browse
// window is open, with records appearing as they resolve.
type Model struct {
	discoverer *discovery.Discoverer
	filter     discovery.Filter

	session *discovery.Session
	cancel  context.CancelFunc

	records  []discovery.ServiceRecord
	scanning bool
	started  time.Time
	err      error

	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// New creates the discovery screen model. The filter's timeout bounds
// each scan.
func New(d *discovery.Discoverer, filter discovery.Filter) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := keyMap{
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return Model{
		discoverer: d,
		filter:     filter,
		spinner:    s,
		help:       help.New(),
		keys:       keys,
	}
}

// Run shows the screen and blocks until the user quits.
// The records found so far are returned.
func Run(d *discovery.Discoverer, filter discovery.Filter) ([]discovery.ServiceRecord, error) {
	final, err := tea.NewProgram(New(d, filter)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(Model)
	return m.records, m.err
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startScan())
}

// startScan opens a fresh session bounded by the filter timeout
func (m Model) startScan() tea.Cmd {
	return func() tea.Msg {
		timeout := m.filter.Timeout
		if timeout <= 0 {
			timeout = discovery.DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)

		sess, err := m.discoverer.Session(ctx, m.filter)
		if err != nil {
			cancel()
			return scanErrMsg{err: err}
		}
		return scanStartedMsg{session: sess, cancel: cancel}
	}
}

// waitForRecord blocks on the session stream for the next result
func waitForRecord(sess *discovery.Session) tea.Cmd {
	return func() tea.Msg {
		rec, ok := <-sess.Records()
		if !ok {
			return scanDoneMsg{}
		}
		return recordMsg{rec: rec}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stop()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Rescan):
			if m.scanning {
				return m, nil
			}
			m.records = nil
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.startScan())
		}

	case scanStartedMsg:
		m.session = msg.session
		m.cancel = msg.cancel
		m.scanning = true
		m.started = time.Now()
		return m, waitForRecord(msg.session)

	case recordMsg:
		m.records = append(m.records, msg.rec)
		return m, waitForRecord(m.session)

	case scanDoneMsg:
		m.stop()
		m.scanning = false
		return m, nil

	case scanErrMsg:
		m.err = msg.err
		m.scanning = false
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// stop releases the running session, if any
func (m *Model) stop() {
	if m.session != nil {
		m.session.Close()
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.session = nil
	m.cancel = nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("BrewBlox Spark discovery"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	for _, rec := range m.records {
		line := fmt.Sprintf("%s  %s",
			IDStyle.Render(rec.ID),
			AddrStyle.Render(fmt.Sprintf("%s:%d", rec.Host, rec.Port)),
		)
		b.WriteString(RecordStyle.Render(line))
		b.WriteString("\n")
	}

	switch {
	case m.scanning:
		status := fmt.Sprintf("%s Scanning... %d found (%.0fs)",
			m.spinner.View(), len(m.records), time.Since(m.started).Seconds())
		b.WriteString(StatusStyle.Render(status))
	case m.err == nil:
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Scan complete: %d controller(s) found", len(m.records))))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}
