package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JeffreyRichter/pixtester/operations"
	"github.com/JeffreyRichter/pixtester/session"
	"github.com/JeffreyRichter/pixtester/transport"
)

// Model represents the main application state
type Model struct {
	session *session.Session
	ctl     *operations.Controller
	logger  *slog.Logger

	// Operations started from this front end that have not reported back yet.
	inFlight int
	draining bool

	// Configuration form
	inputs []textinput.Model
	focus  int

	// Most recent HTTP exchange, shown in the Request and Response panels
	lastExchange *transport.HTTPTransaction

	// Viewports
	logViewport      viewport.Model
	requestViewport  viewport.Model
	responseViewport viewport.Model

	// Modal submodel
	modal ModalModel

	spinner spinner.Model
	help    help.Model
	keys    KeyMap

	// UI state
	activePanel PanelType
	theme       *Theme

	// Window dimensions
	windowWidth  int
	windowHeight int
}

func newModel(s *session.Session, ctl *operations.Controller, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := Model{
		session:      s,
		ctl:          ctl,
		logger:       logger,
		inputs:       newInputs(s.Config()),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:         help.New(),
		keys:         defaultKeyMap(),
		activePanel:  PanelLog,
		theme:        NewTheme(),
		windowWidth:  minWindowWidth,
		windowHeight: minWindowHeight,
	}
	m.spinner.Style = m.theme.StatusRunning
	m.modal.SetKeys(&m.keys)
	m.setFocus(fieldTransactionID)
	m.initOrResizeViewports()
	m.syncLogViewportContent()
	return m
}

func newInputs(cfg session.Configuration) []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 256
		inputs[i] = in
	}
	inputs[fieldBaseURL].Placeholder = "http://localhost:3000"
	inputs[fieldBaseURL].SetValue(cfg.BaseURL)
	inputs[fieldTransactionID].Placeholder = "transaction id"
	inputs[fieldTransactionID].SetValue(cfg.TransactionID)
	inputs[fieldAmount].Placeholder = "35.00"
	inputs[fieldAmount].SetValue(cfg.PaidAmount)
	inputs[fieldAuthToken].Placeholder = "(optional) bearer token for the statistics route"
	inputs[fieldAuthToken].EchoMode = textinput.EchoPassword
	inputs[fieldAuthToken].SetValue(cfg.AuthToken)
	return inputs
}

// Init starts listening for session changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSessionUpdate(m.session), textinput.Blink)
}

// setWindowSize enforces minimums and updates model dimensions.
func (m *Model) setWindowSize(w, h int) {
	if w < minWindowWidth {
		w = minWindowWidth
	}
	if h < minWindowHeight {
		h = minWindowHeight
	}
	m.windowWidth, m.windowHeight = w, h
	m.help.Width = w
	for i := range m.inputs {
		m.inputs[i].Width = max(10, w-labelWidth-2)
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		m.initOrResizeViewports()
		m.syncLogViewportContent()
		m.syncExchangeViewportContent()
	case tea.KeyMsg:
		if m.modal.Visible() { // delegate to modal
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		return m.updateNormal(msg)
	case sessionUpdatedMsg:
		m.syncLogViewportContent()
		return m, waitForSessionUpdate(m.session)
	case operationDoneMsg:
		return m.handleOperationDone(msg)
	case modalDecisionMsg:
		m.modal.Hide()
		switch msg.choice {
		case quitNow:
			return m, tea.Quit
		case quitWait:
			m.draining = true
			m.session.Appendf("⏳ Waiting for %d operation(s) to finish before quitting...", m.inFlight)
			return m, drain(m.ctl)
		}
		return m, nil
	case drainedMsg:
		return m, tea.Quit
	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil // let the tick loop lapse until the next operation starts
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		// cursor blink and other input-internal messages
		var cmd tea.Cmd
		if m.focus < fieldCount {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// updateNormal handles key presses when no modal is shown
func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.draining || m.inFlight == 0 {
			return m, tea.Quit
		}
		m.modal.Show(m.inFlight)
		return m, nil
	case key.Matches(msg, m.keys.Probe):
		return m.startOperation(session.ConnectivityProbe)
	case key.Matches(msg, m.keys.Dispatch):
		return m.startOperation(session.WebhookDispatch)
	case key.Matches(msg, m.keys.ListPend):
		return m.startOperation(session.PendingList)
	case key.Matches(msg, m.keys.ClearLog):
		m.session.Clear()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.setFocus((m.focus + 1) % (fieldCount + 1))
	case key.Matches(msg, m.keys.PrevField):
		return m, m.setFocus((m.focus + fieldCount) % (fieldCount + 1))
	case key.Matches(msg, m.keys.PanelLog):
		m.activePanel = PanelLog
		return m, nil
	case key.Matches(msg, m.keys.PanelReq):
		m.activePanel = PanelRequest
		return m, nil
	case key.Matches(msg, m.keys.PanelResp):
		m.activePanel = PanelResponse
		return m, nil
	case key.Matches(msg, m.keys.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.initOrResizeViewports()
		return m, nil
	}

	if m.focus < fieldCount {
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.session.SetConfig(m.configFromInputs())
		return m, cmd
	}

	// The panel has focus: keys scroll it.
	var cmd tea.Cmd
	switch m.activePanel {
	case PanelLog:
		m.logViewport, cmd = m.logViewport.Update(msg)
	case PanelRequest:
		m.requestViewport, cmd = m.requestViewport.Update(msg)
	case PanelResponse:
		m.responseViewport, cmd = m.responseViewport.Update(msg)
	}
	return m, cmd
}

// setFocus moves keyboard focus to field i, or to the panel when i == focusPanel.
func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m Model) configFromInputs() session.Configuration {
	return session.Configuration{
		BaseURL:       m.inputs[fieldBaseURL].Value(),
		TransactionID: m.inputs[fieldTransactionID].Value(),
		PaidAmount:    m.inputs[fieldAmount].Value(),
		AuthToken:     m.inputs[fieldAuthToken].Value(),
	}
}

// startOperation hands kind to the controller; the front end never waits on it.
func (m Model) startOperation(kind session.Kind) (Model, tea.Cmd) {
	if m.draining {
		return m, nil
	}
	task, err := m.ctl.Start(kind)
	if err != nil { // already running; the controller has told the operator
		m.logger.LogAttrs(context.Background(), slog.LevelDebug, "operation refused", slog.String("op", kind.String()), slog.String("error", err.Error()))
		return m, nil
	}
	m.inFlight++
	cmds := []tea.Cmd{waitForTask(task)}
	if m.inFlight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}
