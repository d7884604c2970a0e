package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JeffreyRichter/pixtester/internal/aids"
	"github.com/JeffreyRichter/pixtester/session"
	"github.com/JeffreyRichter/pixtester/transport"
)

const labelWidth = 18

var fieldLabels = [fieldCount]string{"Base URL", "Transaction ID", "Amount (R$)", "Auth token"}

func truncateWidth(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	// iterate rune-wise until width fits
	out := make([]rune, 0, len(s))
	cur := 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if cur+rw > w {
			break
		}
		out = append(out, r)
		cur += rw
	}
	return string(out)
}

func (m Model) View() string {
	base := strings.Join([]string{
		m.renderHeader(), m.renderForm(), m.renderStatusBar(), m.renderActivePanel(), m.renderHelp(),
	}, "\n")
	if m.modal.Visible() {
		return m.renderModalOverlay(base)
	}
	return base
}

func (m Model) renderModalOverlay(base string) string {
	modal := m.renderModal()
	mw := min(m.windowWidth-4, 60)
	if mw < 20 {
		mw = m.windowWidth - 2
	}
	box := lipgloss.NewStyle().Width(mw).Render(modal)
	placed := lipgloss.Place(m.windowWidth, m.windowHeight, lipgloss.Center, lipgloss.Center, box)
	baseLines := strings.Split(base, "\n")
	modalLines := strings.Split(placed, "\n")
	for i := range baseLines {
		if i < len(modalLines) && strings.TrimSpace(modalLines[i]) != "" {
			baseLines[i] = modalLines[i]
		}
	}
	return strings.Join(baseLines, "\n")
}

func (m Model) renderHeader() string {
	label := func(p PanelType) string {
		txt := "[" + p.String() + "]"
		if m.activePanel == p {
			return m.theme.HeaderActive.Render(txt)
		}
		return m.theme.HeaderBase.Render(txt)
	}
	tabs := []string{label(PanelLog), label(PanelRequest), label(PanelResponse)}
	left := m.theme.HeaderBase.Render("PIX Webhook Tester ") + strings.Join(tabs, " ")
	right := fmt.Sprintf("log: %d entries", m.session.Len())
	pad := max(1, m.windowWidth-lipgloss.Width(left)-lipgloss.Width(right))
	line := left + strings.Repeat(" ", pad) + right
	return line + "\n" + m.theme.Separator.Render(strings.Repeat("─", m.windowWidth))
}

func (m Model) renderForm() string {
	lines := make([]string, fieldCount)
	for i, in := range m.inputs {
		label := fmt.Sprintf("  %-*s", labelWidth-2, fieldLabels[i]+":")
		style := m.theme.Label
		if i == m.focus {
			label = fmt.Sprintf("▸ %-*s", labelWidth-2, fieldLabels[i]+":")
			style = m.theme.LabelFocused
		}
		lines[i] = truncateWidth(style.Render(label)+in.View(), m.windowWidth)
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar shows one slot per operation kind.
func (m Model) renderStatusBar() string {
	slots := make([]string, 0, len(session.Kinds))
	for _, k := range session.Kinds {
		st := m.session.Status(k)
		text := st.String()
		if st.State == session.Running {
			text = m.spinner.View() + "running"
		}
		slots = append(slots, k.String()+": "+m.theme.Status(st).Render(text))
	}
	line := strings.Join(slots, "   ")
	if m.focus == focusPanel {
		line += m.theme.Label.Render("   (" + m.activePanel.String() + " focused: arrows scroll)")
	}
	sep := m.theme.Separator.Render(strings.Repeat("─", m.windowWidth))
	return sep + "\n" + truncateWidth(line, m.windowWidth)
}

func (m Model) renderActivePanel() string {
	var content string
	switch m.activePanel {
	case PanelLog:
		content = m.logViewport.View()
	case PanelRequest:
		content = m.requestViewport.View()
	case PanelResponse:
		content = m.responseViewport.View()
	default:
		content = "Unknown panel"
	}
	lines := strings.Split(content, "\n")
	target := m.bodyHeight()
	if len(lines) > target {
		lines = lines[:target]
	}
	for len(lines) < target {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		if lipgloss.Width(ln) > m.windowWidth {
			lines[i] = truncateWidth(ln, m.windowWidth)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	sep := m.theme.Separator.Render(strings.Repeat("─", m.windowWidth))
	return sep + "\n" + m.help.View(m.keys)
}

func (m Model) renderRequestContent() string {
	x := m.lastExchange
	s := fmt.Sprintf("%s %s\n", x.Method, x.URL)
	s += renderHeaders(x.RequestHeaders)
	if x.RequestBody != "" {
		s += "\n" + m.formatJSON(x.RequestBody) + "\n"
	}
	s += "\nSent: " + x.Timestamp.Format("2006-01-02 15:04:05")
	return s
}

func (m Model) renderResponseContent() string {
	x := m.lastExchange
	if x.StatusCode == 0 { // no response from the server
		msg := "no response"
		if x.Error != nil {
			msg = x.Error.Error()
		}
		return m.theme.StatusError.Render("Error: "+msg) + "\n\n" + x.Timestamp.Format("2006-01-02 15:04:05") + " (" + x.Duration.String() + ")"
	}
	s := fmt.Sprintf("HTTP/1.1 %d\n", x.StatusCode) + renderHeaders(x.ResponseHeaders) + "\n"
	switch b := x.Body.(type) {
	case transport.JSONBody:
		s += m.formatJSON(string(b.Raw))
	case transport.TextBody:
		s += indentLines(string(b))
	}
	received := x.Timestamp.Add(x.Duration)
	return s + "\n\n" + received.Format("2006-01-02 15:04:05") + " (" + x.Duration.String() + ")"
}

// renderHeaders lists headers sorted by name; the bearer token is masked.
func renderHeaders(h map[string][]string) string {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	slices.Sort(names)
	var sb strings.Builder
	for _, name := range names {
		for _, v := range h[name] {
			if strings.EqualFold(name, "Authorization") {
				v = aids.Truncate(v, len("Bearer ")+4) + "…"
			}
			fmt.Fprintf(&sb, "%s: %s\n", name, v)
		}
	}
	return sb.String()
}

func (m Model) renderModal() string {
	if !m.modal.Visible() {
		return ""
	}
	s := fmt.Sprintf("Quit PIX Webhook Tester?\n%d operation(s) still running.\n", m.modal.InFlight())
	s += "[w] Wait for them   [q] Quit now   [esc] Cancel"
	if m.theme != nil {
		return m.theme.ModalBorder.Render(s)
	}
	return s
}

func (m Model) formatJSON(jsonStr string) string {
	if jsonStr == "" {
		return ""
	}
	return indentLines(aids.IndentJSON([]byte(jsonStr)))
}

func indentLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
