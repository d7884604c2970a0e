package main

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap centralizes all key bindings. Operation keys use ctrl chords so they work while a
// text field has focus.
type KeyMap struct {
	Quit       key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	Probe      key.Binding
	Dispatch   key.Binding
	ListPend   key.Binding
	ClearLog   key.Binding
	PanelLog   key.Binding
	PanelReq   key.Binding
	PanelResp  key.Binding
	Wait       key.Binding
	QuitNow    key.Binding
	Cancel     key.Binding
	ToggleHelp key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Probe:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "test connection")),
		Dispatch:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send webhook")),
		ListPend:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "list pending")),
		ClearLog:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear log")),
		PanelLog:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "log")),
		PanelReq:   key.NewBinding(key.WithKeys("f2"), key.WithHelp("f2", "request")),
		PanelResp:  key.NewBinding(key.WithKeys("f3"), key.WithHelp("f3", "response")),
		Wait:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "wait")),
		QuitNow:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit now")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ToggleHelp: key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "more keys")),
	}
}

// ShortHelp and FullHelp make KeyMap a help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Probe, k.Dispatch, k.ListPend, k.ClearLog, k.ToggleHelp, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Probe, k.Dispatch, k.ListPend, k.ClearLog},
		{k.NextField, k.PrevField, k.PanelLog, k.PanelReq, k.PanelResp},
		{k.ToggleHelp, k.Quit},
	}
}
