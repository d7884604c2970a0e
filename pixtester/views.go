package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Sizing helpers for layout chrome/body.
func (m *Model) headerHeight() int { return 2 }
func (m *Model) formHeight() int   { return fieldCount }
func (m *Model) statusHeight() int { return 2 }
func (m *Model) helpHeight() int {
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		return 1 + rows
	}
	return 2
}
func (m *Model) bodyHeight() int {
	return max(1, m.windowHeight-m.headerHeight()-m.formHeight()-m.statusHeight()-m.helpHeight())
}
func (m *Model) viewportWidth() int { return max(10, m.windowWidth-2) }

func (m *Model) initOrResizeViewports() {
	for _, vp := range []*viewport.Model{&m.logViewport, &m.requestViewport, &m.responseViewport} {
		if vp.Width == 0 {
			*vp = viewport.New(m.viewportWidth(), m.bodyHeight())
			continue
		}
		vp.Width = m.viewportWidth()
		vp.Height = m.bodyHeight()
	}
}

// syncLogViewportContent re-renders the session log. The view sticks to the newest entry unless
// the operator has scrolled up.
func (m *Model) syncLogViewportContent() {
	follow := m.logViewport.AtBottom() || m.logViewport.TotalLineCount() == 0
	m.logViewport.SetContent(m.renderLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) syncExchangeViewportContent() {
	if m.lastExchange == nil {
		m.requestViewport.SetContent("  No request yet.\n  Run an operation to see the HTTP request it sent.")
		m.responseViewport.SetContent("  No response yet.\n  Run an operation to see what the backend answered.")
		return
	}
	m.requestViewport.SetContent(m.renderRequestContent())
	m.responseViewport.SetContent(m.renderResponseContent())
}

func (m *Model) renderLogContent() string {
	wrap := lipgloss.NewStyle().Width(m.viewportWidth())
	var sb strings.Builder
	for i, e := range m.session.Entries() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		style := m.theme.LogLine(e.Text)
		ts := "[" + e.Timestamp.Format(time.TimeOnly) + "] "
		indent := strings.Repeat(" ", lipgloss.Width(ts))
		for j, line := range strings.Split(e.Text, "\n") {
			if j > 0 {
				sb.WriteByte('\n')
			}
			prefix := indent
			if j == 0 {
				prefix = m.theme.LogTimestamp.Render(ts)
			}
			sb.WriteString(wrap.Render(prefix + style.Render(line)))
		}
	}
	return sb.String()
}
