package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JeffreyRichter/pixtester/operations"
	"github.com/JeffreyRichter/pixtester/session"
)

// waitForSessionUpdate blocks (off the UI goroutine) until the session changes. Update re-arms it
// after every delivery.
func waitForSessionUpdate(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Updates()
		return sessionUpdatedMsg{}
	}
}

func waitForTask(t *operations.Task) tea.Cmd {
	return func() tea.Msg { return operationDoneMsg{result: t.Wait()} }
}

func drain(ctl *operations.Controller) tea.Cmd {
	return func() tea.Msg {
		ctl.Drain()
		return drainedMsg{}
	}
}

func (m Model) handleOperationDone(msg operationDoneMsg) (Model, tea.Cmd) {
	m.inFlight = max(0, m.inFlight-1)
	if n := len(msg.result.Exchanges); n > 0 {
		m.lastExchange = msg.result.Exchanges[n-1]
		m.syncExchangeViewportContent()
	}
	return m, nil
}
