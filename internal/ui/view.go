package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/rendererhost/internal/loadingflow"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.sized {
		return "Starting renderer..."
	}

	var body string
	switch m.phase {
	case loadingflow.Fatal:
		body = m.renderFatal()
	case loadingflow.Timeout:
		body = m.renderTimeout()
	case loadingflow.Ready:
		body = m.renderReady()
	default:
		body = m.renderLoading()
	}

	panel := m.styles.Panel.Render(body)
	footer := m.styles.Footer.Render(m.footer())
	content := lipgloss.JoinVertical(lipgloss.Center, panel, footer)
	return m.styles.Screen.Render(
		lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content),
	)
}

func (m Model) renderLoading() string {
	lines := []string{
		m.styles.Title.Render("Renderer"),
		"",
		m.spinner.View() + " " + m.styles.Text.Render(m.connectionLine()),
	}
	if m.snapshot.PreloadingVisible {
		lines = append(lines, m.styles.Muted.Render("Preloading scene dependencies"))
	}
	lines = append(lines,
		"",
		m.progress.ViewAs(m.waited),
		m.styles.Muted.Render(m.waitLine()),
	)
	return strings.Join(lines, "\n")
}

func (m Model) renderTimeout() string {
	return strings.Join([]string{
		m.styles.Warning.Render("The kernel is taking longer than expected"),
		"",
		m.styles.Text.Render(m.connectionLine()),
		m.styles.Muted.Render(fmt.Sprintf("Still waiting after %s", humanizeDuration(m.timeout))),
	}, "\n")
}

func (m Model) renderReady() string {
	quality := m.quality
	if quality == "" {
		quality = "default"
	}
	status := m.styles.Text.Render("Kernel connected on " + m.endpointLabel())
	if !m.snapshot.Interactive() {
		status = m.styles.Warning.Render("Kernel connection lost, closing")
	}
	return strings.Join([]string{
		m.styles.Success.Render("Renderer ready"),
		"",
		status,
		m.styles.Muted.Render(fmt.Sprintf("Quality %s · %d max downloads · %d frames", quality, m.snapshot.MaxDownloads, m.frames)),
	}, "\n")
}

func (m Model) renderFatal() string {
	lines := []string{
		m.styles.Danger.Render("The renderer cannot continue"),
		"",
	}
	switch {
	case m.logErr != nil:
		lines = append(lines, m.styles.Warning.Render("Log unavailable: "+m.logErr.Error()))
	case len(m.logEntries) == 0:
		lines = append(lines, m.styles.Muted.Render("No log output"))
	default:
		limit := maxInt(m.width-16, 20)
		for _, entry := range m.logEntries {
			lines = append(lines, m.styles.LogLevel(entry.Level).Render(truncate(entry.String(), limit)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) connectionLine() string {
	if m.snapshot.CommunicationEstablished {
		return "Kernel connected, waiting for the renderer"
	}
	return "Waiting for kernel on " + m.endpointLabel()
}

func (m Model) waitLine() string {
	waited := time.Duration(m.waited * float64(m.timeout))
	return fmt.Sprintf("%s of %s", humanizeDuration(waited), humanizeDuration(m.timeout))
}

func (m Model) endpointLabel() string {
	if m.endpoint == "" {
		return "unknown endpoint"
	}
	return m.endpoint
}

func (m Model) footer() string {
	parts := []string{"q quit", "T theme " + m.theme.Name}
	if m.phase == loadingflow.Fatal {
		parts = append(parts, "r reload log")
	}
	return strings.Join(parts, " · ")
}
