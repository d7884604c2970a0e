package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/JeffreyRichter/pixtester/internal/fakebackend"
	"github.com/JeffreyRichter/pixtester/operations"
	"github.com/JeffreyRichter/pixtester/session"
	"github.com/JeffreyRichter/pixtester/transport"
)

type doerFunc func(ctx context.Context, r transport.Request) (*transport.HTTPTransaction, error)

func (f doerFunc) Do(ctx context.Context, r transport.Request) (*transport.HTTPTransaction, error) {
	return f(ctx, r)
}

func newTestModel(t *testing.T, d operations.Doer) (Model, *session.Session, *operations.Controller) {
	t.Helper()
	sess := session.New(session.Options{
		DefaultBaseURL: "http://localhost:3000",
		Initial:        session.Configuration{TransactionID: "tx-1", PaidAmount: "35.00"},
	})
	greet(sess)
	ctl := operations.New(sess, d, operations.Options{})
	return newModel(sess, ctl, nil), sess, ctl
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "f2":
		return tea.KeyMsg{Type: tea.KeyF2}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestGreetingAndView(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)
	m.setWindowSize(100, 30)
	m.initOrResizeViewports()
	m.syncLogViewportContent()

	require.Equal(t, 4, sess.Len())
	view := m.View()
	require.Contains(t, view, "PIX Webhook Tester")
	require.Contains(t, view, "probe: idle")
	require.Contains(t, view, "webhook: idle")
	require.Contains(t, view, "pending: idle")
	require.Contains(t, view, "ctrl+t")
	require.Len(t, strings.Split(view, "\n"), 30)
}

func TestTypingUpdatesSessionConfig(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)
	require.Equal(t, fieldTransactionID, m.focus)

	m, _ = update(t, m, keyMsg("tab"))
	require.Equal(t, fieldAmount, m.focus)
	m.inputs[fieldAmount].SetValue("")
	m, _ = update(t, m, keyMsg("12.5"))
	require.Equal(t, "12.5", sess.Config().PaidAmount)
	require.Equal(t, "tx-1", sess.Config().TransactionID)

	// Focus wraps through the panel back to the first field.
	m, _ = update(t, m, keyMsg("tab"))
	m, _ = update(t, m, keyMsg("tab"))
	require.Equal(t, focusPanel, m.focus)
	m, _ = update(t, m, keyMsg("tab"))
	require.Equal(t, fieldBaseURL, m.focus)
	m, _ = update(t, m, keyMsg("shift+tab"))
	require.Equal(t, focusPanel, m.focus)
}

func TestClearKey(t *testing.T) {
	m, sess, _ := newTestModel(t, nil)
	_, _ = update(t, m, keyMsg("ctrl+x"))
	require.Equal(t, 1, sess.Len())
	require.Equal(t, session.ClearedText, sess.Entries()[0].Text)
}

func TestProbeFromKeyboard(t *testing.T) {
	b := fakebackend.New()
	srv := httptest.NewServer(b.Handler())
	defer srv.Close()
	m, sess, ctl := newTestModel(t, transport.NewClient(nil))
	cfg := sess.Config()
	cfg.BaseURL = srv.URL
	sess.SetConfig(cfg)

	m, cmd := update(t, m, keyMsg("ctrl+t"))
	require.NotNil(t, cmd)
	require.Equal(t, 1, m.inFlight)
	ctl.Drain()
	require.Equal(t, session.Status{State: session.Succeeded, Detail: "online"}, sess.Status(session.ConnectivityProbe))

	x := &transport.HTTPTransaction{Method: http.MethodGet, URL: srv.URL + "/", StatusCode: http.StatusOK, Body: transport.TextBody("hi")}
	m, _ = update(t, m, operationDoneMsg{result: operations.Result{Kind: session.ConnectivityProbe, Exchanges: []*transport.HTTPTransaction{x}}})
	require.Zero(t, m.inFlight)
	require.Same(t, x, m.lastExchange)

	m, _ = update(t, m, keyMsg("f2"))
	require.Equal(t, PanelRequest, m.activePanel)
	require.Contains(t, m.View(), "GET "+srv.URL+"/")
}

func TestQuitConfirmationWhileRunning(t *testing.T) {
	release := make(chan struct{})
	m, _, ctl := newTestModel(t, doerFunc(func(_ context.Context, r transport.Request) (*transport.HTTPTransaction, error) {
		<-release
		return &transport.HTTPTransaction{URL: r.URL, StatusCode: http.StatusOK, ResponseBody: "{}", Body: transport.Decode([]byte("{}"), "application/json")}, nil
	}))
	defer func() {
		close(release)
		ctl.Drain()
	}()

	m, _ = update(t, m, keyMsg("ctrl+t"))
	m, cmd := update(t, m, keyMsg("ctrl+c"))
	require.Nil(t, cmd)
	require.True(t, m.modal.Visible())
	require.Contains(t, m.View(), "1 operation(s) still running")

	m, cmd = update(t, m, keyMsg("esc"))
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	require.False(t, m.modal.Visible())

	m, _ = update(t, m, keyMsg("ctrl+c"))
	m, cmd = update(t, m, keyMsg("q"))
	require.Equal(t, modalDecisionMsg{choice: quitNow}, cmd())
	_, cmd = update(t, m, modalDecisionMsg{choice: quitNow})
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestQuitWithoutRunningOperations(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	_, cmd := update(t, m, keyMsg("ctrl+c"))
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestRenderHeadersMasksToken(t *testing.T) {
	out := renderHeaders(http.Header{"Authorization": {"Bearer abcdefghijkl"}, "Accept": {"application/json"}})
	require.Equal(t, "Accept: application/json\nAuthorization: Bearer abcd…\n", out)
}
