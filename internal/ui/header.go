package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/albumsync/internal/state"
)

// renderMain renders the full UI: header, command bar, album table and
// status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

// statusName maps the snapshot to a badge name for Theme.StatusColor.
func statusName(snap state.Snapshot) string {
	switch {
	case snap.Loading:
		return "loading"
	case snap.Error != state.ErrorNone:
		return snap.Error.String()
	case !snap.LastUpdated.IsZero():
		return "fresh"
	default:
		return ""
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("albumsync", styles.Logo)}

	if name := statusName(m.snapshot); name != "" {
		label := titleCase(name)
		if m.snapshot.Loading {
			label = m.spinner.View() + " " + label
		}
		parts = append(parts, styles.StatusStyle(name).Render(label))
	}
	if m.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}

	total := len(m.snapshot.Albums)
	count := fmt.Sprintf("%d albums", total)
	if m.query != "" {
		count = fmt.Sprintf("%d/%d albums", len(m.visibleAlbums()), total)
	}
	parts = append(parts, bg.Render(count, styles.Text))

	if !m.snapshot.LastUpdated.IsZero() {
		ago := humanizeDuration(m.now.Sub(m.snapshot.LastUpdated))
		parts = append(parts, bg.Render("updated", styles.FaintText)+bg.Space()+bg.Render(ago, styles.MutedText))
	}

	if m.width >= LayoutCompactWidth && m.source != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.source, 40), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar lists the main key bindings.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	bindings := m.keys.ShortHelp()
	if m.width < LayoutCompactWidth {
		bindings = []key.Binding{m.keys.Refresh, m.keys.Help, m.keys.Quit}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, bg.Render("<"+h.Key+">", styles.AccentText)+bg.Space()+bg.Render(h.Desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderStatusLine shows the active prompt, the last notice or the error
// attached to the snapshot, in that order of precedence.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles()
	line := lipgloss.NewStyle().Width(m.width).Padding(0, 1)

	switch {
	case m.prompt != promptNone:
		return line.Render(m.input.View())
	case m.notice != "":
		return line.Render(styles.WarningText.Render(m.notice))
	case m.snapshot.Error == state.CachedData:
		return line.Render(styles.InfoText.Render(m.snapshot.Error.Message()))
	case m.snapshot.Error != state.ErrorNone:
		return line.Render(styles.DangerText.Render(m.snapshot.Error.Message()))
	case m.snapshot.LastError != nil:
		msg := fmt.Sprintf("Last refresh failed: %v", m.snapshot.LastError)
		return line.Render(styles.DangerText.Render(truncate(msg, maxInt(m.width-2, 10))))
	case m.query != "":
		return line.Render(styles.MutedText.Render("filter: " + m.query))
	default:
		return line.Render(styles.FaintText.Render("Ready"))
	}
}
