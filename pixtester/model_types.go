package main

import (
	"github.com/JeffreyRichter/pixtester/operations"
)

// PanelType represents which panel fills the body of the screen
type PanelType int

const (
	PanelLog PanelType = iota
	PanelRequest
	PanelResponse
)

func (p PanelType) String() string { return [...]string{"Log", "Request", "Response"}[p] }

// Form fields, in focus order. focusPanel follows the last field and gives keys to the panel.
const (
	fieldBaseURL = iota
	fieldTransactionID
	fieldAmount
	fieldAuthToken
	fieldCount
	focusPanel = fieldCount
)

// Messages for tea.Cmd communication
type sessionUpdatedMsg struct{}
type operationDoneMsg struct{ result operations.Result }
type drainedMsg struct{}

// quitChoice is what the operator picked in the quit confirmation.
type quitChoice int

const (
	quitCancel quitChoice = iota
	quitWait
	quitNow
)

// modalDecisionMsg emitted by modal submodel when user acts.
type modalDecisionMsg struct{ choice quitChoice }
