package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ModalModel encapsulates the quit confirmation shown while operations are in flight.
type ModalModel struct {
	visible  bool
	inFlight int
	keys     *KeyMap
}

func (m ModalModel) Visible() bool      { return m.visible }
func (m *ModalModel) Show(inFlight int) { m.inFlight = inFlight; m.visible = true }
func (m *ModalModel) Hide()             { m.visible = false }
func (m ModalModel) InFlight() int      { return m.inFlight }
func (m *ModalModel) SetKeys(k *KeyMap) { m.keys = k }

// Update handles key messages when visible. Returns modalDecisionMsg.
func (m ModalModel) Update(msg tea.Msg) (ModalModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || m.keys == nil || !m.visible {
		return m, nil
	}
	decide := func(c quitChoice) tea.Cmd { return func() tea.Msg { return modalDecisionMsg{choice: c} } }
	switch {
	case key.Matches(km, m.keys.Wait):
		return m, decide(quitWait)
	case key.Matches(km, m.keys.QuitNow), key.Matches(km, m.keys.Quit):
		return m, decide(quitNow)
	case key.Matches(km, m.keys.Cancel):
		return m, decide(quitCancel)
	}
	return m, nil
}
